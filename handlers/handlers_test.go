package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/danielgtaylor/huma/v2/humatest"

	ds "github.com/oaiiae/contacts-api/datastores"
)

type testAPI struct {
	humatest.TestAPI
	contacts  ds.ContactsStore
	addresses ds.AddressesStore

	mu     sync.Mutex
	errors []error
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	Install()
	contacts, addresses := ds.NewInmem()
	api := &testAPI{
		TestAPI:   humatest.Wrap(t, humago.New(http.NewServeMux(), huma.DefaultConfig("Contacts API", "test"))),
		contacts:  contacts,
		addresses: addresses,
	}
	huma.AutoRegister(huma.NewGroup(api, "/api/contacts"), &Contacts{
		Store:        contacts,
		ErrorHandler: api.recordError,
	})
	huma.AutoRegister(huma.NewGroup(api, "/api/addresses"), &Addresses{
		Contacts:     contacts,
		Store:        addresses,
		ErrorHandler: api.recordError,
	})
	return api
}

func (api *testAPI) recordError(_ context.Context, err error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.errors = append(api.errors, err)
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T from %q: %v", v, resp.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, resp *httptest.ResponseRecorder, status int) {
	t.Helper()
	if resp.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", resp.Code, status, resp.Body.String())
	}
}

func anaSilva() map[string]any {
	return map[string]any{
		"nome":     "Ana Silva",
		"email":    "ana@x.com",
		"telefone": "119999",
	}
}

func ruaA() map[string]any {
	return map[string]any{
		"rua":    "Rua A",
		"cidade": "SP",
		"estado": "SP",
		"cep":    "01000-000",
	}
}

func (api *testAPI) createContact(t *testing.T, body any) ContactModel {
	t.Helper()
	resp := api.Post("/api/contacts", body)
	expectStatus(t, resp, http.StatusCreated)
	return decode[ContactModel](t, resp)
}

func TestInstall(t *testing.T) {
	Install()
	Install()
	if got := huma.NewError(http.StatusUnprocessableEntity, "invalid").GetStatus(); got != http.StatusBadRequest {
		t.Fatalf("422 error status = %d, want 400", got)
	}
	if got := huma.NewError(http.StatusNotFound, "missing").GetStatus(); got != http.StatusNotFound {
		t.Fatalf("404 error status = %d, want 404", got)
	}
}

func TestPageParams(t *testing.T) {
	p := PageParams{Page: 2, Size: 10, Sort: "nome,desc"}
	req, err := p.pageRequest()
	if err != nil {
		t.Fatalf("pageRequest: %v", err)
	}
	if req.Page != 2 || req.Size != 10 || len(req.Sort) != 1 || req.Sort[0] != (ds.Order{Property: "nome", Desc: true}) {
		t.Fatalf("pageRequest = %+v", req)
	}

	p.Sort = "nome,sideways"
	if _, err := p.pageRequest(); err == nil {
		t.Fatalf("pageRequest accepted an invalid direction")
	}
}

func TestPageModel(t *testing.T) {
	page := &ds.Page[int]{Content: []int{1, 2}, Number: 0, Size: 2, TotalElements: 3}
	m := pageModel(page, func(i int) string { return string(rune('a' + i)) })
	want := PageModel[string]{
		Content:          []string{"b", "c"},
		TotalElements:    3,
		TotalPages:       2,
		Size:             2,
		Number:           0,
		NumberOfElements: 2,
		First:            true,
		Last:             false,
		Empty:            false,
	}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("pageModel = %+v, want %+v", m, want)
	}
}
