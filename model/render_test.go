package model_test

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/billingcat/clinvoice/fixtures"
	"github.com/billingcat/clinvoice/model"
)

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12 Main St, Springfield, 00000", "12 Main St<br/>Springfield<br/>00000"},
		{"One line", "One line"},
		{"", ""},
		{"   ", ""},
		{"a ,b,  c  ", "a<br/>b<br/>c"},
		{"<b>Bold</b>, Town", "&lt;b&gt;Bold&lt;/b&gt;<br/>Town"},
	}
	for _, tt := range tests {
		if got := model.FormatAddress(tt.in); got != tt.want {
			t.Errorf("FormatAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender_DefaultTemplate(t *testing.T) {
	r, err := model.NewRenderer("")
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	inv := fixtures.Invoice(
		fixtures.WithInvoiceNumber(7),
		fixtures.WithInvoiceClient(fixtures.Party(fixtures.WithName("Bob"), fixtures.WithAddress("12 Main St, Springfield"))),
		fixtures.WithInvoiceNotes("Payable within 14 days"),
	)
	out, err := r.Render(model.NewInvoiceData(inv, ""))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{
		"No. 00007",
		"07 March 2025",
		"12 Main St<br/>Springfield",
		`<td class="num" id="total">132.47</td>`,
		"Payable within 14 days",
		"Widget",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered invoice does not contain %q", want)
		}
	}
	if strings.Contains(out, "<img") {
		t.Error("rendered invoice should not contain a logo")
	}
	if strings.Contains(out, "(copy)") {
		t.Error("fresh invoice must not be marked as copy")
	}
}

func TestRender_TotalMatchesInvoice(t *testing.T) {
	r, err := model.ParseTemplate(`{{money .Total}}|{{range .Items}}{{money .Total}};{{end}}`)
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	inv := fixtures.Invoice(fixtures.WithInvoiceItems(
		fixtures.Item("A", 3, "9.99"),
		fixtures.Item("B", 1, "0.005"),
	))
	out, err := r.Render(model.NewInvoiceData(inv, ""))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "29.98|29.97;0.01;" {
		t.Errorf("Render = %q", out)
	}
}

func TestRender_Regenerated(t *testing.T) {
	r, _ := model.NewRenderer("")
	inv := fixtures.Invoice()
	inv.Regenerated = true
	out, err := r.Render(model.NewInvoiceData(inv, ""))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "(copy)") {
		t.Error("regenerated invoice should be marked as copy")
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	_, err := model.ParseTemplate(`{{.Total`)
	if !errors.Is(err, model.ErrRender) {
		t.Errorf("got %v, want ErrRender", err)
	}
}

func TestNewRenderer_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tpl.html")
	if err := os.WriteFile(path, []byte(`<p>{{.InvoiceNumber}} {{.Client.Name}}</p>`), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := model.NewRenderer(path)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	out, err := r.Render(model.NewInvoiceData(fixtures.Invoice(), ""))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "<p>00001 Bob</p>" {
		t.Errorf("Render = %q", out)
	}

	if _, err = model.NewRenderer(filepath.Join(t.TempDir(), "missing.html")); !errors.Is(err, model.ErrIO) {
		t.Errorf("missing template: got %v, want ErrIO", err)
	}
}

// 1×1 transparent PNG
var pngPixel, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func TestLogoDataURL(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "logo.png")
	svg := filepath.Join(dir, "logo.svg")
	if err := os.WriteFile(png, pngPixel, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), 0o644); err != nil {
		t.Fatal(err)
	}

	url, err := model.LogoDataURL(png)
	if err != nil {
		t.Fatalf("LogoDataURL failed: %v", err)
	}
	if !strings.HasPrefix(string(url), "data:image/png;base64,") {
		t.Errorf("png logo URL = %.40s", url)
	}
	url, err = model.LogoDataURL(svg)
	if err != nil {
		t.Fatalf("LogoDataURL failed: %v", err)
	}
	if !strings.HasPrefix(string(url), "data:image/svg+xml;base64,") {
		t.Errorf("svg logo URL = %.40s", url)
	}
	if empty, err := model.LogoDataURL(""); err != nil || empty != "" {
		t.Errorf("empty path = %q, %v", empty, err)
	}
	if _, err = model.LogoDataURL(filepath.Join(dir, "none.png")); !errors.Is(err, model.ErrIO) {
		t.Errorf("missing logo: got %v, want ErrIO", err)
	}

	r, _ := model.NewRenderer("")
	out, err := r.Render(model.NewInvoiceData(fixtures.Invoice(), url))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, `<img src="data:image/svg+xml;base64,`) {
		t.Error("logo data URL should be embedded unchanged")
	}
}

func TestValidLogoPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.JPG", "c.svg", "d.gif"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	tests := []struct {
		path string
		ok   bool
	}{
		{filepath.Join(dir, "a.png"), true},
		{filepath.Join(dir, "b.JPG"), true},
		{filepath.Join(dir, "c.svg"), true},
		{filepath.Join(dir, "d.gif"), false},
		{filepath.Join(dir, "missing.png"), false},
		{dir, false},
	}
	for _, tt := range tests {
		err := model.ValidLogoPath(tt.path)
		if (err == nil) != tt.ok {
			t.Errorf("ValidLogoPath(%q) = %v, want ok=%v", tt.path, err, tt.ok)
		}
	}
}
