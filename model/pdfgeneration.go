package model

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFExporter turns a rendered HTML document into PDF bytes.
type PDFExporter interface {
	ExportPDF(ctx context.Context, html string) ([]byte, error)
}

// DefaultPollInterval is how often the exporter checks whether the document
// body exists before printing.
const DefaultPollInterval = 200 * time.Millisecond

// ChromeExporter prints HTML to PDF with a headless Chrome instance. Every
// call starts its own browser with a fresh profile.
type ChromeExporter struct {
	ExecPath     string
	Timeout      time.Duration
	PollInterval time.Duration
	Logger       *slog.Logger
}

// NewChromeExporter configures an exporter from cfg.
func NewChromeExporter(cfg *Config, logger *slog.Logger) *ChromeExporter {
	return &ChromeExporter{
		ExecPath:     cfg.ChromePath,
		Timeout:      cfg.Timeout(),
		PollInterval: DefaultPollInterval,
		Logger:       logger,
	}
}

// DocumentURL embeds html in a data URL.
func DocumentURL(html string) string {
	return "data:text/html," + url.PathEscape(html)
}

// ExportPDF loads html into a new tab, waits for the body element and prints
// the page with background graphics.
func (e *ChromeExporter) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if e.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	start := time.Now()
	// the first Run starts the browser and opens the tab
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("%w: launch browser: %w", ErrExport, err)
	}
	if err := chromedp.Run(tabCtx, chromedp.Navigate(DocumentURL(html))); err != nil {
		return nil, fmt.Errorf("%w: load document: %w", ErrExport, err)
	}
	if err := e.waitForBody(tabCtx); err != nil {
		return nil, fmt.Errorf("%w: wait for document: %w", ErrExport, err)
	}

	var buf []byte
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: print to pdf: %w", ErrExport, err)
	}
	if e.Logger != nil {
		e.Logger.Debug("PDF export done", "bytes", len(buf), "duration", time.Since(start))
	}
	return buf, nil
}

func (e *ChromeExporter) waitForBody(ctx context.Context) error {
	interval := e.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		var ready bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(`document.body !== null`, &ready)); err != nil {
			return err
		}
		if ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// InvoicePDFPath returns <root>/<year>/<Mon>/<number>.pdf for an invoice
// issued at t.
func InvoicePDFPath(root string, number uint, t time.Time) string {
	return filepath.Join(root, t.Format("2006"), t.Format("Jan"), FormatInvoiceNumber(number)+".pdf")
}

func ensureDir(dirName string) error {
	err := os.MkdirAll(dirName, 0755)
	if err != nil {
		return err
	}
	return nil
}

// StagePDF writes data to a temporary file in the directory of path and
// creates missing parent directories. The caller moves it into place with
// PublishPDF once the invoice is committed, or removes it.
func StagePDF(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return "", fmt.Errorf("%w: create directory: %w", ErrIO, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: write pdf: %w", ErrIO, err)
	}
	tmp := f.Name()
	if _, err = f.Write(data); err == nil {
		err = f.Chmod(0644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: write pdf: %w", ErrIO, err)
	}
	return tmp, nil
}

// PublishPDF moves a staged PDF to its final path.
func PublishPDF(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: publish pdf: %w", ErrIO, err)
	}
	return nil
}
