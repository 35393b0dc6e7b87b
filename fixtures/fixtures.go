// Package fixtures provides test stores, seed data and builders shared by
// the model and controller tests.
package fixtures

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/billingcat/clinvoice/model"
	"github.com/shopspring/decimal"
)

// FixedTime is the clock used by tests that need a stable issue date.
var FixedTime = time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)

// TestConfig returns a complete configuration pointing into a fresh
// temporary directory.
func TestConfig(t testing.TB) *model.Config {
	t.Helper()
	dir := t.TempDir()
	return &model.Config{
		SetupDone:   true,
		DatabaseURL: filepath.Join(dir, "test.sqlite3"),
		InvoicePath: filepath.Join(dir, "invoices"),
		DBLogger:    "silent",
	}
}

// NewTestStore opens a migrated SQLite store in a temporary directory. The
// store is closed when the test ends.
func NewTestStore(t testing.TB) *model.Store {
	t.Helper()
	store, err := model.InitDatabase(TestConfig(t))
	if err != nil {
		t.Fatalf("cannot create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestData holds the records created by SeedTestData.
type TestData struct {
	Company *model.Company
	Client  *model.Client
}

// SeedTestData creates the company Acme, sets it as the default company and
// adds the client Bob linked to it.
func SeedTestData(t testing.TB, store *model.Store) *TestData {
	t.Helper()
	company, err := store.CreateCompany(Party(
		WithName("Acme"),
		WithAddress("1 Road, Town"),
		WithEmail("billing@acme.test"),
	))
	if err != nil {
		t.Fatalf("cannot create company: %v", err)
	}
	store.Config.DefaultCompany = company.ID

	client, err := store.CreateClient(Party(
		WithName("Bob"),
		WithAddress("12 Main St, Springfield, 00000"),
		WithEmail("bob@example.test"),
	), company.ID)
	if err != nil {
		t.Fatalf("cannot create client: %v", err)
	}
	return &TestData{Company: company, Client: client}
}

// PartyOption customizes a party built by Party.
type PartyOption func(*model.Party)

func WithName(name string) PartyOption {
	return func(p *model.Party) { p.Name = name }
}

func WithAddress(address string) PartyOption {
	return func(p *model.Party) { p.Address = address }
}

func WithEmail(email string) PartyOption {
	return func(p *model.Party) { p.Email = email }
}

func WithPhone(phone string) PartyOption {
	return func(p *model.Party) { p.Phone = phone }
}

// Party returns a party named "Test Party" with the options applied.
func Party(opts ...PartyOption) model.Party {
	p := model.Party{Name: "Test Party"}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Item builds an item from a price given as a string, e.g. Item("Widget", 3, "9.99").
func Item(description string, quantity int, price string) model.Item {
	return model.NewItem(description, quantity, decimal.RequireFromString(price))
}

// SampleItems returns three items totalling 132.47.
func SampleItems() []model.Item {
	return []model.Item{
		Item("Widget", 3, "9.99"),
		Item("Consulting", 2, "50.00"),
		Item("Shipping", 1, "2.50"),
	}
}

// InvoiceOption customizes an invoice built by Invoice.
type InvoiceOption func(*invoiceParams)

type invoiceParams struct {
	number  uint
	company model.Party
	client  model.Party
	items   []model.Item
	notes   string
	tax     decimal.Decimal
	issued  time.Time
}

func WithInvoiceNumber(n uint) InvoiceOption {
	return func(p *invoiceParams) { p.number = n }
}

func WithInvoiceCompany(company model.Party) InvoiceOption {
	return func(p *invoiceParams) { p.company = company }
}

func WithInvoiceClient(client model.Party) InvoiceOption {
	return func(p *invoiceParams) { p.client = client }
}

func WithInvoiceItems(items ...model.Item) InvoiceOption {
	return func(p *invoiceParams) { p.items = items }
}

func WithInvoiceNotes(notes string) InvoiceOption {
	return func(p *invoiceParams) { p.notes = notes }
}

func WithInvoiceTax(tax string) InvoiceOption {
	return func(p *invoiceParams) { p.tax = decimal.RequireFromString(tax) }
}

// Invoice builds an unsaved invoice number 1 from Acme to Bob with the
// sample items, issued at FixedTime.
func Invoice(opts ...InvoiceOption) *model.Invoice {
	p := invoiceParams{
		number:  1,
		company: Party(WithName("Acme")),
		client:  Party(WithName("Bob")),
		items:   SampleItems(),
		tax:     decimal.Zero,
		issued:  FixedTime,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return model.NewInvoice(p.number, p.company, p.client, p.items, p.notes, p.tax, p.issued)
}
