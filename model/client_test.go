package model_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/billingcat/clinvoice/fixtures"
	"github.com/billingcat/clinvoice/model"
)

func TestCompany_CreateAndFind(t *testing.T) {
	store := fixtures.NewTestStore(t)
	for _, name := range []string{"Acme", "Acme Labs", "Globex"} {
		if _, err := store.CreateCompany(fixtures.Party(fixtures.WithName(name))); err != nil {
			t.Fatalf("CreateCompany(%q) failed: %v", name, err)
		}
	}

	found, err := store.FindCompanies(model.CompanyByName, "Acme")
	if err != nil {
		t.Fatalf("FindCompanies failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d companies, want 2", len(found))
	}
	if found[0].Name != "Acme" || found[1].Name != "Acme Labs" {
		t.Errorf("found %q, %q", found[0].Name, found[1].Name)
	}

	found, _ = store.FindCompanies(model.CompanyByName, "acme")
	if len(found) != 0 {
		t.Errorf("search should be case-sensitive, found %d", len(found))
	}
}

func TestCompany_EmptyName(t *testing.T) {
	store := fixtures.NewTestStore(t)
	_, err := store.CreateCompany(fixtures.Party(fixtures.WithName("   ")))
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("CreateCompany with blank name: got %v, want ErrValidation", err)
	}
}

func TestDefaultCompany(t *testing.T) {
	store := fixtures.NewTestStore(t)
	if _, err := store.DefaultCompany(); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("DefaultCompany without setup: got %v, want ErrNotFound", err)
	}
	data := fixtures.SeedTestData(t, store)
	c, err := store.DefaultCompany()
	if err != nil {
		t.Fatalf("DefaultCompany failed: %v", err)
	}
	if c.ID != data.Company.ID {
		t.Errorf("DefaultCompany ID = %d, want %d", c.ID, data.Company.ID)
	}
}

func TestSearchClients_NoMatch(t *testing.T) {
	store := fixtures.NewTestStore(t)
	fixtures.SeedTestData(t, store)

	clients, err := store.SearchClients(model.ClientByName, "Nobody")
	if err != nil {
		t.Fatalf("SearchClients failed: %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("got %d clients, want none", len(clients))
	}
}

func TestSearchClients_GroupsCompanies(t *testing.T) {
	store := fixtures.NewTestStore(t)
	data := fixtures.SeedTestData(t, store)
	globex, err := store.CreateCompany(fixtures.Party(fixtures.WithName("Globex")))
	if err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}

	// a second Bob belongs to both companies
	bob2, err := store.CreateClient(fixtures.Party(fixtures.WithName("Bob"), fixtures.WithAddress("Elm St")), data.Company.ID)
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if _, err = store.CreateClient(fixtures.Party(fixtures.WithName("Bobby")), globex.ID); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if _, err = store.CreateClient(fixtures.Party(fixtures.WithName("Alice")), globex.ID); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	linkClient(t, store, globex.ID, bob2.ID)

	clients, err := store.SearchClients(model.ClientByName, "Bob")
	if err != nil {
		t.Fatalf("SearchClients failed: %v", err)
	}
	if len(clients) != 3 {
		t.Fatalf("got %d clients, want 3", len(clients))
	}
	wantIDs := []uint{data.Client.ID, bob2.ID, clients[2].Client.ID}
	for i, c := range clients {
		if c.Client.ID != wantIDs[i] {
			t.Errorf("clients[%d].ID = %d, want %d", i, c.Client.ID, wantIDs[i])
		}
	}
	if !reflect.DeepEqual(clients[0].Companies, []string{"Acme"}) {
		t.Errorf("first Bob companies = %v", clients[0].Companies)
	}
	if !reflect.DeepEqual(clients[1].Companies, []string{"Acme", "Globex"}) {
		t.Errorf("second Bob companies = %v, want [Acme Globex]", clients[1].Companies)
	}
	if clients[2].Client.Name != "Bobby" {
		t.Errorf("third client = %q, want Bobby", clients[2].Client.Name)
	}
}

func TestSearchClients_ByCompany(t *testing.T) {
	store := fixtures.NewTestStore(t)
	fixtures.SeedTestData(t, store)
	if _, err := store.CreateClient(fixtures.Party(fixtures.WithName("Loner")), 0); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	clients, err := store.SearchClients(model.ClientByCompany, "Acme")
	if err != nil {
		t.Fatalf("SearchClients failed: %v", err)
	}
	if len(clients) != 1 || clients[0].Client.Name != "Bob" {
		t.Errorf("clients of Acme = %+v, want only Bob", clients)
	}

	all, err := store.ListClients()
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListClients returned %d clients, want 2", len(all))
	}
	if all[1].Client.Name != "Loner" || len(all[1].Companies) != 0 {
		t.Errorf("client without company = %+v", all[1])
	}
}

func TestSearchClients_UnknownField(t *testing.T) {
	store := fixtures.NewTestStore(t)
	if _, err := store.SearchClients("phone", "1"); !errors.Is(err, model.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func linkClient(t *testing.T, store *model.Store, companyID, clientID uint) {
	t.Helper()
	if err := store.LinkClient(companyID, clientID); err != nil {
		t.Fatalf("LinkClient failed: %v", err)
	}
	// linking again is harmless
	if err := store.LinkClient(companyID, clientID); err != nil {
		t.Fatalf("second LinkClient failed: %v", err)
	}
}
