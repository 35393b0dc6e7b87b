package controller

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/billingcat/clinvoice/model"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
)

const (
	invoiceSheet = "Invoices"
	itemSheet    = "Items"
)

var (
	invoiceHeader = []any{"ID", "Date", "Company", "Client", "Client Email", "Tax", "Total", "Notes", "Regenerated", "PDF"}
	itemHeader    = []any{"Invoice", "Position", "Description", "Quantity", "Unit Price", "Total"}
)

func (ctrl *controller) invoiceExport(c *cli.Context) error {
	path := c.Args().First()
	if path == "" || !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ctrl.exitError(&model.ValidationError{Err: model.ErrValidation, Input: path, Details: "export file must end in .xlsx"})
	}
	invs, err := ctrl.model.ListInvoicesForExport()
	if err != nil {
		return ctrl.exitError(err)
	}
	if err = exportInvoicesXLSX(path, invs); err != nil {
		return ctrl.exitError(err)
	}
	ctrl.logger.Info("invoices exported", "file", path, "invoices", len(invs))
	fmt.Fprintf(ctrl.out, "Exported %d invoices to %s\n", len(invs), path)
	return nil
}

// exportInvoicesXLSX writes one row per invoice to the Invoices sheet and one
// row per item to the Items sheet.
func exportInvoicesXLSX(path string, invs []model.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return fmt.Errorf("%w: cannot rename sheet: %w", model.ErrIO, err)
	}
	if _, err := f.NewSheet(itemSheet); err != nil {
		return fmt.Errorf("%w: cannot create items sheet: %w", model.ErrIO, err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: cannot create header style: %w", model.ErrIO, err)
	}

	invoiceRows := [][]any{invoiceHeader}
	itemRows := [][]any{itemHeader}
	for _, inv := range invs {
		tax, _ := inv.Tax.Float64()
		total, _ := inv.TotalAmount.Float64()
		invoiceRows = append(invoiceRows, []any{
			inv.Number(), inv.Date, inv.Company.Name, inv.Client.Name, inv.Client.Email,
			tax, total, inv.Notes, inv.Regenerated, inv.PDFPath,
		})
		for _, it := range inv.Items {
			price, _ := it.UnitPrice.Float64()
			lineTotal, _ := it.Total.Float64()
			itemRows = append(itemRows, []any{inv.Number(), it.Position, it.Description, it.Quantity, price, lineTotal})
		}
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{invoiceSheet, invoiceRows},
		{itemSheet, itemRows},
	} {
		if err = writeSheet(f, sheet.name, sheet.rows, bold); err != nil {
			return err
		}
	}
	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: cannot save %s: %w", model.ErrIO, path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%w: %w", model.ErrIO, err)
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%w: cannot write %s row %d: %w", model.ErrIO, sheet, i+1, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrIO, err)
	}
	if err = f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%w: cannot style %s header: %w", model.ErrIO, sheet, err)
	}
	return nil
}
