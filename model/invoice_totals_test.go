package model_test

import (
	"testing"

	"github.com/billingcat/clinvoice/fixtures"
	"github.com/billingcat/clinvoice/model"
	"github.com/shopspring/decimal"
)

func TestInvoice_Totals(t *testing.T) {
	tests := []struct {
		name      string
		items     []model.Item
		wantTotal string
	}{
		{
			name:      "empty invoice",
			items:     nil,
			wantTotal: "0",
		},
		{
			name:      "single item",
			items:     []model.Item{fixtures.Item("Widget", 3, "9.99")},
			wantTotal: "29.97",
		},
		{
			name:      "sample items",
			items:     fixtures.SampleItems(),
			wantTotal: "132.47", // 29.97 + 100 + 2.50
		},
		{
			name: "line totals are rounded before summing",
			items: []model.Item{
				fixtures.Item("A", 1, "0.005"), // 0.01
				fixtures.Item("B", 1, "0.005"), // 0.01
			},
			wantTotal: "0.02",
		},
		{
			name:      "zero quantity",
			items:     []model.Item{fixtures.Item("Free", 0, "100")},
			wantTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := fixtures.Invoice(fixtures.WithInvoiceItems(tt.items...))

			want := decimal.RequireFromString(tt.wantTotal)
			if !inv.TotalAmount.Equal(want) {
				t.Errorf("TotalAmount = %s, want %s", inv.TotalAmount, want)
			}
			for i, it := range inv.Items {
				if it.Position != i+1 {
					t.Errorf("Items[%d].Position = %d, want %d", i, it.Position, i+1)
				}
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		qty   int
		price string
		want  string
	}{
		{3, "9.99", "29.97"},
		{1, "0.333", "0.33"},
		{7, "1.005", "7.04"}, // 7.035
		{0, "12.50", "0"},
	}
	for _, tt := range tests {
		got := model.LineTotal(tt.qty, decimal.RequireFromString(tt.price))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("LineTotal(%d, %s) = %s, want %s", tt.qty, tt.price, got, tt.want)
		}
	}
}

func TestInvoice_CommitAndLoad(t *testing.T) {
	store := fixtures.NewTestStore(t)
	data := fixtures.SeedTestData(t, store)

	n, err := store.NextInvoiceNumber()
	if err != nil {
		t.Fatalf("NextInvoiceNumber failed: %v", err)
	}
	inv := fixtures.Invoice(
		fixtures.WithInvoiceNumber(n),
		fixtures.WithInvoiceCompany(data.Company.Party),
		fixtures.WithInvoiceClient(data.Client.Party),
		fixtures.WithInvoiceNotes("thanks"),
	)
	inv.CompanyID = &data.Company.ID
	inv.ClientID = &data.Client.ID

	if err := store.CommitInvoice(inv); err != nil {
		t.Fatalf("CommitInvoice failed: %v", err)
	}

	loaded, err := store.LoadInvoice(n)
	if err != nil {
		t.Fatalf("LoadInvoice failed: %v", err)
	}
	if loaded.Number() != "00001" {
		t.Errorf("Number() = %q, want %q", loaded.Number(), "00001")
	}
	if loaded.Client.Name != "Bob" || loaded.Company.Name != "Acme" {
		t.Errorf("parties = %q/%q, want Acme/Bob", loaded.Company.Name, loaded.Client.Name)
	}
	if loaded.Client.Address != data.Client.Address {
		t.Errorf("Client.Address = %q, want %q", loaded.Client.Address, data.Client.Address)
	}
	if !loaded.TotalAmount.Equal(decimal.RequireFromString("132.47")) {
		t.Errorf("TotalAmount = %s, want 132.47", loaded.TotalAmount)
	}
	if loaded.Date != "07 March 2025" {
		t.Errorf("Date = %q, want %q", loaded.Date, "07 March 2025")
	}
	if len(loaded.Items) != 3 {
		t.Fatalf("Items count = %d, want 3", len(loaded.Items))
	}
	if loaded.Items[0].Description != "Widget" || loaded.Items[2].Description != "Shipping" {
		t.Errorf("items out of order: %q ... %q", loaded.Items[0].Description, loaded.Items[2].Description)
	}
	for _, it := range loaded.Items {
		if it.InvoiceID != n {
			t.Errorf("item %q InvoiceID = %d, want %d", it.Description, it.InvoiceID, n)
		}
	}
	if loaded.CompanyID == nil || *loaded.CompanyID != data.Company.ID {
		t.Errorf("CompanyID = %v, want %d", loaded.CompanyID, data.Company.ID)
	}
}
