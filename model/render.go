package model

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

//go:embed templates/invoice.html
var templateFS embed.FS

// InvoiceData is the record bound into the invoice template.
type InvoiceData struct {
	InvoiceNumber string
	CreatedDate   string
	Company       Party
	Client        Party
	Items         []ItemData
	Total         decimal.Decimal
	Tax           decimal.Decimal
	Notes         string
	Regenerated   bool
	LogoURL       template.URL
}

// ItemData is one template row.
type ItemData struct {
	Description string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

// NewInvoiceData builds the template record from an invoice snapshot.
func NewInvoiceData(inv *Invoice, logoURL template.URL) InvoiceData {
	return InvoiceData{
		InvoiceNumber: inv.Number(),
		CreatedDate:   inv.Date,
		Company:       inv.Company,
		Client:        inv.Client,
		Items: lo.Map(inv.Items, func(it Item, _ int) ItemData {
			return ItemData{Description: it.Description, Quantity: it.Quantity, Price: it.UnitPrice, Total: it.Total}
		}),
		Total:       inv.TotalAmount,
		Tax:         inv.Tax,
		Notes:       inv.Notes,
		Regenerated: inv.Regenerated,
		LogoURL:     logoURL,
	}
}

// FormatAddress turns a comma separated address into lines joined by <br/>.
// Each segment is trimmed and HTML escaped.
func FormatAddress(address string) string {
	if strings.TrimSpace(address) == "" {
		return ""
	}
	parts := strings.Split(address, ",")
	for i, p := range parts {
		parts[i] = html.EscapeString(strings.TrimSpace(p))
	}
	return strings.Join(parts, "<br/>")
}

var templateFuncs = template.FuncMap{
	"formatAddress": func(s string) template.HTML {
		return template.HTML(FormatAddress(s))
	},
	"money": func(d decimal.Decimal) string {
		return d.Round(2).StringFixed(2)
	},
}

// Renderer executes the invoice HTML template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the template at path, or the built-in template when
// path is empty.
func NewRenderer(path string) (*Renderer, error) {
	var (
		src []byte
		err error
	)
	if path == "" {
		src, err = templateFS.ReadFile("templates/invoice.html")
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read template: %w", ErrIO, err)
	}
	return ParseTemplate(string(src))
}

// ParseTemplate parses an invoice template from source.
func ParseTemplate(src string) (*Renderer, error) {
	tmpl, err := template.New("invoice").Funcs(templateFuncs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parse template: %w", ErrRender, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render binds data into the template.
func (r *Renderer) Render(data InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.String(), nil
}

// LogoDataURL reads the logo file and embeds it as a base64 data URL. An empty
// path means no logo.
func LogoDataURL(path string) (template.URL, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read logo: %w", ErrIO, err)
	}
	return template.URL("data:" + logoMIME(path, data) + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}

func logoMIME(path string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "image/svg+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "image/png"
}

// ValidLogoPath reports whether path is an existing png, jpeg or svg file.
func ValidLogoPath(path string) error {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return invalid(path, "logo file does not exist")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".svg":
		return nil
	}
	return invalid(path, "logo must be a png, jpeg or svg file")
}
