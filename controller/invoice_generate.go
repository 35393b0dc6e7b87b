package controller

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/billingcat/clinvoice/model"
	"github.com/shopspring/decimal"
)

// invoiceRequest is everything needed to produce one invoice.
type invoiceRequest struct {
	Company     model.Party
	CompanyID   *uint
	Client      model.Party
	ClientID    *uint
	Items       []model.Item
	Notes       string
	Tax         decimal.Decimal
	Regenerated bool
}

// generator runs the invoice pipeline: number, render, export, write, commit.
type generator struct {
	store    *model.Store
	cfg      *model.Config
	renderer *model.Renderer
	exporter model.PDFExporter
	logger   *slog.Logger
	now      func() time.Time
}

func (ctrl *controller) newGenerator() (*generator, error) {
	renderer, err := model.NewRenderer(ctrl.cfg.TemplatePath)
	if err != nil {
		return nil, err
	}
	return &generator{
		store:    ctrl.model,
		cfg:      ctrl.cfg,
		renderer: renderer,
		exporter: ctrl.pdfExporter(),
		logger:   ctrl.logger,
		now:      ctrl.now,
	}, nil
}

// generate produces the PDF and persists the invoice. The number is only
// taken once the commit succeeds; on a failed commit the PDF is removed.
func (g *generator) generate(ctx context.Context, req invoiceRequest) (*model.Invoice, error) {
	if err := model.RequireName("client", req.Client.Name); err != nil {
		return nil, err
	}
	number, err := g.store.NextInvoiceNumber()
	if err != nil {
		return nil, err
	}
	issued := g.now()
	inv := model.NewInvoice(number, req.Company, req.Client, req.Items, req.Notes, req.Tax, issued)
	inv.CompanyID = req.CompanyID
	inv.ClientID = req.ClientID
	inv.Regenerated = req.Regenerated
	logger := g.logger.With("invoice", inv.Number())
	logger.Debug("invoice assembled", "items", len(inv.Items), "total", inv.TotalAmount.StringFixed(2))

	logo, err := model.LogoDataURL(g.cfg.LogoPath)
	if err != nil {
		return nil, err
	}
	html, err := g.renderer.Render(model.NewInvoiceData(inv, logo))
	if err != nil {
		return nil, err
	}
	logger.Debug("invoice rendered", "bytes", len(html))

	pdf, err := g.exporter.ExportPDF(ctx, html)
	if err != nil {
		return nil, err
	}
	path := model.InvoicePDFPath(g.cfg.InvoicePath, number, issued)
	tmp, err := model.StagePDF(path, pdf)
	if err != nil {
		return nil, err
	}
	inv.PDFPath = path
	logger.Debug("invoice pdf staged", "path", tmp)

	if err = g.store.CommitInvoice(inv); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warn("cannot remove pdf of failed invoice", "path", tmp, "error", rmErr)
		}
		return nil, err
	}
	if err = model.PublishPDF(tmp, path); err != nil {
		logger.Error("invoice committed without pdf", "path", path, "error", err)
		return nil, err
	}
	logger.Info("invoice generated", "path", path, "total", inv.TotalAmount.StringFixed(2), "regenerated", inv.Regenerated)
	return inv, nil
}

// regenerate reissues the stored invoice id under a new number. The original
// invoice stays as it is.
func (g *generator) regenerate(ctx context.Context, id uint) (*model.Invoice, error) {
	orig, err := g.store.LoadInvoice(id)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("regenerating invoice", "source", orig.Number())
	return g.generate(ctx, invoiceRequest{
		Company:     orig.Company,
		CompanyID:   orig.CompanyID,
		Client:      orig.Client,
		ClientID:    orig.ClientID,
		Items:       orig.Items,
		Notes:       orig.Notes,
		Tax:         orig.Tax,
		Regenerated: true,
	})
}
