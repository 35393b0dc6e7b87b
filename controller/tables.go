package controller

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/billingcat/clinvoice/model"
	"github.com/xeonx/timeago"
)

var timeagoEnglish = timeago.NoMax(timeago.English)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	underline := make([]string, len(header))
	for i, h := range header {
		underline[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(underline, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func companyTable(w io.Writer, companies []*model.Company, defaultID uint) {
	tw := newTable(w, "ID", "Name", "Address", "Email", "Phone", "Default")
	for _, c := range companies {
		def := ""
		if c.ID == defaultID {
			def = "*"
		}
		row(tw, fmt.Sprint(c.ID), c.Name, c.Address, c.Email, c.Phone, def)
	}
	tw.Flush()
}

func clientTable(w io.Writer, clients []model.ClientWithCompanies) {
	tw := newTable(w, "ID", "Name", "Address", "Email", "Phone", "Companies")
	for _, c := range clients {
		row(tw, fmt.Sprint(c.Client.ID), c.Client.Name, c.Client.Address, c.Client.Email, c.Client.Phone, strings.Join(c.Companies, ", "))
	}
	tw.Flush()
}

func invoiceTable(w io.Writer, invoices []model.Invoice, now time.Time) {
	tw := newTable(w, "ID", "Client Name", "Company Name", "Date", "Total Amount", "Notes", "Created")
	for _, inv := range invoices {
		id := inv.Number()
		if inv.Regenerated {
			id += " (copy)"
		}
		row(tw, id, inv.Client.Name, inv.Company.Name, inv.Date, inv.TotalAmount.StringFixed(2), inv.Notes,
			timeagoEnglish.FormatReference(inv.CreatedAt, now))
	}
	tw.Flush()
}

func itemTable(w io.Writer, items []model.Item) {
	tw := newTable(w, "#", "Description", "Quantity", "Unit Price", "Total")
	for _, it := range items {
		row(tw, fmt.Sprint(it.Position), it.Description, fmt.Sprint(it.Quantity), it.UnitPrice.StringFixed(2), it.Total.StringFixed(2))
	}
	tw.Flush()
}
