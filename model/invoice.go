package model

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateLayout is the format of Invoice.Date, e.g. "07 March 2025".
const DateLayout = "02 January 2006"

// Invoice is the persisted snapshot of a generated invoice. The ID is the
// invoice number; it is assigned by NextInvoiceNumber before rendering and
// written explicitly by CommitInvoice.
type Invoice struct {
	gorm.Model
	CompanyID   *uint
	Company     Party `gorm:"embedded;embeddedPrefix:company_"`
	ClientID    *uint
	Client      Party `gorm:"embedded;embeddedPrefix:client_"`
	Date        string
	TotalAmount decimal.Decimal
	Tax         decimal.Decimal
	Notes       string
	Regenerated bool
	PDFPath     string
	Items       []Item
}

// InvoiceSearchField selects the column SearchInvoices matches against.
type InvoiceSearchField string

const (
	InvoiceByID     InvoiceSearchField = "id"
	InvoiceByClient InvoiceSearchField = "client"
)

// FormatInvoiceNumber zero-pads the invoice number to five digits.
func FormatInvoiceNumber(number uint) string {
	return fmt.Sprintf("%05d", number)
}

// Number returns the formatted invoice number.
func (inv *Invoice) Number() string {
	return FormatInvoiceNumber(inv.ID)
}

// NewInvoice assembles an invoice snapshot. Items are numbered in order and
// the total is derived from their line totals.
func NewInvoice(number uint, company, client Party, items []Item, notes string, tax decimal.Decimal, issued time.Time) *Invoice {
	inv := &Invoice{
		Company: company.normalized(),
		Client:  client.normalized(),
		Date:    issued.Format(DateLayout),
		Tax:     tax.Round(2),
		Notes:   notes,
		Items:   make([]Item, len(items)),
	}
	inv.ID = number
	for i, it := range items {
		it.ID = 0
		it.InvoiceID = 0
		it.CreatedAt = time.Time{}
		it.Position = i + 1
		it.Total = LineTotal(it.Quantity, it.UnitPrice)
		inv.Items[i] = it
	}
	inv.TotalAmount = TotalAmount(inv.Items)
	return inv
}

// NextInvoiceNumber returns the highest persisted invoice number plus one.
// The number is not reserved.
func (s *Store) NextInvoiceNumber() (uint, error) {
	var max sql.NullInt64
	if err := s.db.Unscoped().Model(&Invoice{}).Select("COALESCE(MAX(id), 0)").Scan(&max).Error; err != nil {
		return 0, storeErr("next invoice number", err)
	}
	return uint(max.Int64) + 1, nil
}

// CommitInvoice writes the invoice header under its assigned number and all
// of its items in a single transaction.
func (s *Store) CommitInvoice(inv *Invoice) error {
	if inv.ID == 0 {
		return storeErr("commit invoice", errors.New("invoice number not assigned"))
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(inv).Error; err != nil {
			return err
		}
		if len(inv.Items) == 0 {
			return nil
		}
		for i := range inv.Items {
			inv.Items[i].ID = 0
			inv.Items[i].InvoiceID = inv.ID
			inv.Items[i].Position = i + 1
		}
		return tx.Omit("ID").Create(&inv.Items).Error
	})
	if err != nil {
		return storeErr(fmt.Sprintf("commit invoice %d", inv.ID), err)
	}
	return nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("items.position ASC, items.id ASC")
}

// LoadInvoice loads an invoice and its items.
func (s *Store) LoadInvoice(id uint) (*Invoice, error) {
	var inv Invoice
	if err := s.db.Preload("Items", preloadItems).First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
		}
		return nil, storeErr("load invoice", err)
	}
	return &inv, nil
}

// ListInvoices returns all invoices ordered by number, without items.
func (s *Store) ListInvoices() ([]Invoice, error) {
	var invs []Invoice
	if err := s.db.Order("id ASC").Find(&invs).Error; err != nil {
		return nil, storeErr("list invoices", err)
	}
	return invs, nil
}

// ListInvoicesForExport returns all invoices with their items.
func (s *Store) ListInvoicesForExport() ([]Invoice, error) {
	var invs []Invoice
	if err := s.db.Preload("Items", preloadItems).Order("id ASC").Find(&invs).Error; err != nil {
		return nil, storeErr("list invoices", err)
	}
	return invs, nil
}

// SearchInvoices finds invoices by number or by a case-sensitive substring
// of the client name.
func (s *Store) SearchInvoices(field InvoiceSearchField, value string) ([]Invoice, error) {
	q := s.db.Model(&Invoice{}).Order("id ASC")
	switch field {
	case InvoiceByID:
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, invalid(value, "invoice id must be a positive integer")
		}
		q = q.Where("id = ?", id)
	case InvoiceByClient:
		q = q.Where(s.containsExpr("client_name"), value)
	default:
		return nil, invalid(string(field), "unknown invoice search field")
	}
	var invs []Invoice
	if err := q.Find(&invs).Error; err != nil {
		return nil, storeErr("search invoices", err)
	}
	return invs, nil
}

// LoadItems returns the items of one invoice in order.
func (s *Store) LoadItems(invoiceID uint) ([]Item, error) {
	var items []Item
	if err := preloadItems(s.db).Where("invoice_id = ?", invoiceID).Find(&items).Error; err != nil {
		return nil, storeErr("load items", err)
	}
	return items, nil
}
