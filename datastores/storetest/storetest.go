// Package storetest holds the behavior every implementation of
// [datastores.ContactsStore] and [datastores.AddressesStore] must have.
package storetest

import (
	"context"
	"errors"
	"math"
	"testing"

	ds "github.com/oaiiae/contacts-api/datastores"
)

// Factory returns empty stores sharing the same tables.
type Factory func(t *testing.T) (ds.ContactsStore, ds.AddressesStore)

// Run runs the contract against the stores built by newStores.
func Run(t *testing.T, newStores Factory) {
	tests := []struct {
		name string
		run  func(*testing.T, ds.ContactsStore, ds.AddressesStore)
	}{
		{"SaveAssignsIDs", testSaveAssignsIDs},
		{"GetMissing", testGetMissing},
		{"SaveReplacesAddresses", testSaveReplacesAddresses},
		{"SaveEmptiesAddresses", testSaveEmptiesAddresses},
		{"DeleteCascades", testDeleteCascades},
		{"ListPaginates", testListPaginates},
		{"ListRejectsUnknownSort", testListRejectsUnknownSort},
		{"SearchByNameIgnoresCase", testSearchByNameIgnoresCase},
		{"AddressNeedsContact", testAddressNeedsContact},
		{"AddressesByContact", testAddressesByContact},
		{"AddressUpdateAndDelete", testAddressUpdateAndDelete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contacts, addresses := newStores(t)
			tt.run(t, contacts, addresses)
		})
	}
}

func anaSilva() *ds.Contact {
	return &ds.Contact{
		Nome:     "Ana Silva",
		Email:    "ana@x.com",
		Telefone: "119999",
		Addresses: []*ds.Address{
			{Rua: "Rua A", Cidade: "SP", Estado: "SP", Cep: "01000-000"},
			{Rua: "Rua B", Cidade: "Campinas", Estado: "SP", Cep: "13000-000"},
		},
	}
}

func mustSave(t *testing.T, s ds.ContactsStore, c *ds.Contact) *ds.Contact {
	t.Helper()
	if err := s.Save(context.Background(), c); err != nil {
		t.Fatalf("Save(%q): %v", c.Nome, err)
	}
	return c
}

func mustGet(t *testing.T, s ds.ContactsStore, id ds.ContactID) *ds.Contact {
	t.Helper()
	c, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get(%d): %v", id, err)
	}
	return c
}

func sameAddress(a, b *ds.Address) bool {
	return a.ID == b.ID && a.Rua == b.Rua && a.Cidade == b.Cidade && a.Estado == b.Estado && a.Cep == b.Cep
}

func testSaveAssignsIDs(t *testing.T, contacts ds.ContactsStore, _ ds.AddressesStore) {
	c := mustSave(t, contacts, anaSilva())
	if c.ID == 0 {
		t.Fatalf("contact id not assigned")
	}
	for i, a := range c.Addresses {
		if a.ID == 0 || a.ContactID != c.ID {
			t.Fatalf("address %d: id=%d contact=%d, want id set and contact %d", i, a.ID, a.ContactID, c.ID)
		}
	}

	got := mustGet(t, contacts, c.ID)
	if got.Nome != c.Nome || got.Email != c.Email || got.Telefone != c.Telefone {
		t.Fatalf("Get = %+v, want %+v", got, c)
	}
	if len(got.Addresses) != len(c.Addresses) {
		t.Fatalf("got %d addresses, want %d", len(got.Addresses), len(c.Addresses))
	}
	for i := range got.Addresses {
		if !sameAddress(got.Addresses[i], c.Addresses[i]) {
			t.Fatalf("address %d = %+v, want %+v", i, got.Addresses[i], c.Addresses[i])
		}
	}
}

func testGetMissing(t *testing.T, contacts ds.ContactsStore, addresses ds.AddressesStore) {
	if _, err := contacts.Get(context.Background(), 123); !errors.Is(err, ds.ErrObjectNotFound) {
		t.Fatalf("contacts.Get(123) error = %v, want %v", err, ds.ErrObjectNotFound)
	}
	if _, err := addresses.Get(context.Background(), 123); !errors.Is(err, ds.ErrObjectNotFound) {
		t.Fatalf("addresses.Get(123) error = %v, want %v", err, ds.ErrObjectNotFound)
	}
}

func testSaveReplacesAddresses(t *testing.T, contacts ds.ContactsStore, addresses ds.AddressesStore) {
	ctx := context.Background()
	c := mustSave(t, contacts, anaSilva())
	kept, dropped := c.Addresses[0], c.Addresses[1]

	update := &ds.Contact{
		ID:       c.ID,
		Nome:     "Ana Souza",
		Email:    "ana@y.com",
		Telefone: "118888",
		Addresses: []*ds.Address{
			{ID: kept.ID, Rua: "Rua A, 10", Cidade: kept.Cidade, Estado: kept.Estado, Cep: kept.Cep},
			{Rua: "Rua C", Cidade: "Santos", Estado: "SP", Cep: "11000-000"},
		},
	}
	mustSave(t, contacts, update)

	got := mustGet(t, contacts, c.ID)
	if got.Nome != "Ana Souza" || got.Email != "ana@y.com" || got.Telefone != "118888" {
		t.Fatalf("Get = %+v, want updated fields", got)
	}
	if len(got.Addresses) != 2 {
		t.Fatalf("got %d addresses, want 2", len(got.Addresses))
	}
	if got.Addresses[0].ID != kept.ID || got.Addresses[0].Rua != "Rua A, 10" {
		t.Fatalf("first address = %+v, want id %d updated in place", got.Addresses[0], kept.ID)
	}
	if got.Addresses[1].ID == 0 || got.Addresses[1].ID == dropped.ID || got.Addresses[1].Rua != "Rua C" {
		t.Fatalf("second address = %+v, want a new Rua C row", got.Addresses[1])
	}
	if _, err := addresses.Get(ctx, dropped.ID); !errors.Is(err, ds.ErrObjectNotFound) {
		t.Fatalf("dropped address still stored: err = %v", err)
	}
}

func testSaveEmptiesAddresses(t *testing.T, contacts ds.ContactsStore, addresses ds.AddressesStore) {
	c := mustSave(t, contacts, anaSilva())
	c.Addresses = nil
	mustSave(t, contacts, c)

	if got := mustGet(t, contacts, c.ID); len(got.Addresses) != 0 {
		t.Fatalf("got %d addresses, want none", len(got.Addresses))
	}
	all, err := addresses.List(context.Background(), ds.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if all.TotalElements != 0 {
		t.Fatalf("%d addresses left in store, want none", all.TotalElements)
	}
}

func testDeleteCascades(t *testing.T, contacts ds.ContactsStore, addresses ds.AddressesStore) {
	ctx := context.Background()
	c := mustSave(t, contacts, anaSilva())
	other := mustSave(t, contacts, &ds.Contact{Nome: "Bruno", Email: "b@x.com", Telefone: "1",
		Addresses: []*ds.Address{{Rua: "Rua Z", Cidade: "RJ", Estado: "RJ", Cep: "20000-000"}}})

	if err := contacts.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := contacts.Get(ctx, c.ID); !errors.Is(err, ds.ErrObjectNotFound) {
		t.Fatalf("Get after Delete error = %v, want %v", err, ds.ErrObjectNotFound)
	}
	for _, a := range c.Addresses {
		if _, err := addresses.Get(ctx, a.ID); !errors.Is(err, ds.ErrObjectNotFound) {
			t.Fatalf("address %d survived its contact: err = %v", a.ID, err)
		}
	}
	if got := mustGet(t, contacts, other.ID); len(got.Addresses) != 1 {
		t.Fatalf("other contact has %d addresses, want 1", len(got.Addresses))
	}

	if err := contacts.Delete(ctx, c.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func testListPaginates(t *testing.T, contacts ds.ContactsStore, _ ds.AddressesStore) {
	for _, nome := range []string{"Carla", "Ana", "Eva", "Bia", "Dani"} {
		mustSave(t, contacts, &ds.Contact{Nome: nome, Email: nome + "@x.com", Telefone: "1"})
	}

	page, err := contacts.List(context.Background(), ds.PageRequest{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalElements != 5 || page.TotalPages() != 3 || page.First() || page.Last() {
		t.Fatalf("page = %+v (pages %d), want 5 elements over 3 pages, middle page", page, page.TotalPages())
	}
	if len(page.Content) != 2 || page.Content[0].Nome != "Eva" || page.Content[1].Nome != "Bia" {
		t.Fatalf("content = %v, want [Eva Bia] in id order", names(page.Content))
	}

	page, err = contacts.List(context.Background(), ds.PageRequest{Size: 3, Sort: []ds.Order{{Property: "nome", Desc: true}}})
	if err != nil {
		t.Fatalf("List sorted: %v", err)
	}
	if got := names(page.Content); len(got) != 3 || got[0] != "Eva" || got[1] != "Dani" || got[2] != "Carla" {
		t.Fatalf("content = %v, want [Eva Dani Carla]", got)
	}

	page, err = contacts.List(context.Background(), ds.PageRequest{Page: 9, Size: 3})
	if err != nil {
		t.Fatalf("List past the end: %v", err)
	}
	if len(page.Content) != 0 || page.TotalElements != 5 {
		t.Fatalf("page = %+v, want empty content and 5 elements", page)
	}

	page, err = contacts.List(context.Background(), ds.PageRequest{Page: math.MaxInt / 2, Size: 20})
	if err != nil {
		t.Fatalf("List at a huge page: %v", err)
	}
	if len(page.Content) != 0 || page.TotalElements != 5 || page.Number != math.MaxInt/2 {
		t.Fatalf("page = %+v, want empty content at the requested page", page)
	}
}

func testListRejectsUnknownSort(t *testing.T, contacts ds.ContactsStore, addresses ds.AddressesStore) {
	req := ds.PageRequest{Size: 1, Sort: []ds.Order{{Property: "password"}}}
	if _, err := contacts.List(context.Background(), req); !errors.Is(err, ds.ErrInvalidSort) {
		t.Fatalf("contacts.List error = %v, want %v", err, ds.ErrInvalidSort)
	}
	if _, err := addresses.List(context.Background(), req); !errors.Is(err, ds.ErrInvalidSort) {
		t.Fatalf("addresses.List error = %v, want %v", err, ds.ErrInvalidSort)
	}
}

func testSearchByNameIgnoresCase(t *testing.T, contacts ds.ContactsStore, _ ds.AddressesStore) {
	ctx := context.Background()
	mustSave(t, contacts, anaSilva())
	mustSave(t, contacts, &ds.Contact{Nome: "Mariana", Email: "m@x.com", Telefone: "2"})
	mustSave(t, contacts, &ds.Contact{Nome: "Bruno", Email: "b@x.com", Telefone: "3"})

	page, err := contacts.SearchByName(ctx, "ANA", ds.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if got := names(page.Content); len(got) != 2 || got[0] != "Ana Silva" || got[1] != "Mariana" {
		t.Fatalf("search ANA = %v, want [Ana Silva Mariana]", got)
	}
	if len(page.Content[0].Addresses) != 2 {
		t.Fatalf("search result has %d addresses, want 2", len(page.Content[0].Addresses))
	}

	jose := mustSave(t, contacts, &ds.Contact{Nome: "JOSÉ ÁVILA", Email: "j@x.com", Telefone: "4"})
	for _, fragment := range []string{"josé ávila", "é ávi", "JOSÉ"} {
		page, err = contacts.SearchByName(ctx, fragment, ds.PageRequest{Size: 10})
		if err != nil {
			t.Fatalf("SearchByName(%q): %v", fragment, err)
		}
		if len(page.Content) != 1 || page.Content[0].ID != jose.ID {
			t.Fatalf("SearchByName(%q) = %v, want [JOSÉ ÁVILA]", fragment, names(page.Content))
		}
	}

	jose.Nome = "José Ávila Neto"
	mustSave(t, contacts, jose)
	page, err = contacts.SearchByName(ctx, "ÁVILA NETO", ds.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("SearchByName after rename: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].Nome != "José Ávila Neto" {
		t.Fatalf("SearchByName after rename = %v", names(page.Content))
	}

	for _, fragment := range []string{"zzz", "%", "_"} {
		page, err = contacts.SearchByName(ctx, fragment, ds.PageRequest{Size: 10})
		if err != nil {
			t.Fatalf("SearchByName(%q): %v", fragment, err)
		}
		if page.TotalElements != 0 || len(page.Content) != 0 {
			t.Fatalf("SearchByName(%q) = %v, want empty page", fragment, names(page.Content))
		}
	}
}

func testAddressNeedsContact(t *testing.T, _ ds.ContactsStore, addresses ds.AddressesStore) {
	ctx := context.Background()
	err := addresses.Save(ctx, &ds.Address{Rua: "Rua A", Cidade: "SP", Estado: "SP", Cep: "01000-000", ContactID: 123})
	if !errors.Is(err, ds.ErrObjectNotFound) {
		t.Fatalf("Save error = %v, want %v", err, ds.ErrObjectNotFound)
	}
	all, err := addresses.List(ctx, ds.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if all.TotalElements != 0 {
		t.Fatalf("%d addresses stored, want none", all.TotalElements)
	}
}

func testAddressesByContact(t *testing.T, contacts ds.ContactsStore, addresses ds.AddressesStore) {
	ctx := context.Background()
	c := mustSave(t, contacts, anaSilva())
	mustSave(t, contacts, &ds.Contact{Nome: "Bruno", Email: "b@x.com", Telefone: "1",
		Addresses: []*ds.Address{{Rua: "Rua Z", Cidade: "RJ", Estado: "RJ", Cep: "20000-000"}}})

	extra := &ds.Address{Rua: "Rua C", Cidade: "Santos", Estado: "SP", Cep: "11000-000", ContactID: c.ID}
	if err := addresses.Save(ctx, extra); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if extra.ID == 0 {
		t.Fatalf("address id not assigned")
	}

	list, err := addresses.ListByContactID(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListByContactID: %v", err)
	}
	if len(list) != 3 || list[2].ID != extra.ID {
		t.Fatalf("ListByContactID = %d addresses, want 3 ending with %d", len(list), extra.ID)
	}

	page, err := addresses.ListByContact(ctx, c, ds.PageRequest{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if page.TotalElements != 3 || len(page.Content) != 1 || page.Content[0].ID != extra.ID {
		t.Fatalf("page = %+v, want the third address of 3", page)
	}

	page, err = addresses.ListByContact(ctx, c, ds.PageRequest{Size: 5, Sort: []ds.Order{{Property: "cep", Desc: true}}})
	if err != nil {
		t.Fatalf("ListByContact sorted: %v", err)
	}
	if len(page.Content) != 3 || page.Content[0].Cep != "13000-000" || page.Content[2].Cep != "01000-000" {
		t.Fatalf("sorted page = %+v, want ceps in descending order", page.Content)
	}
}

func testAddressUpdateAndDelete(t *testing.T, contacts ds.ContactsStore, addresses ds.AddressesStore) {
	ctx := context.Background()
	c := mustSave(t, contacts, anaSilva())
	a := c.Addresses[0]

	a.Rua = "Rua Nova"
	if err := addresses.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := addresses.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Rua != "Rua Nova" || got.ContactID != c.ID {
		t.Fatalf("Get = %+v, want Rua Nova owned by %d", got, c.ID)
	}

	if err := addresses.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := addresses.Delete(ctx, a.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if got := mustGet(t, contacts, c.ID); len(got.Addresses) != 1 {
		t.Fatalf("contact has %d addresses, want 1", len(got.Addresses))
	}
}

func names(cs []*ds.Contact) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Nome)
	}
	return out
}
