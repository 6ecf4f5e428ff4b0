package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/contacts-api/datastores"
)

type Addresses struct {
	Contacts     ds.ContactsStore
	Store        ds.AddressesStore
	ErrorHandler func(context.Context, error)
}

type AddressModel struct {
	ID ds.AddressID `json:"id" readOnly:"true" example:"1"`

	Rua    string `json:"rua"    minLength:"1" example:"Rua A"`
	Cidade string `json:"cidade" minLength:"1" example:"SP"`
	Estado string `json:"estado" minLength:"1" example:"SP"`
	Cep    string `json:"cep"    minLength:"1" example:"01000-000"`
}

func addressModel(a *ds.Address) AddressModel {
	return AddressModel{
		ID:     a.ID,
		Rua:    a.Rua,
		Cidade: a.Cidade,
		Estado: a.Estado,
		Cep:    a.Cep,
	}
}

func addressEntity(m *AddressModel) *ds.Address {
	return &ds.Address{
		ID:     m.ID,
		Rua:    m.Rua,
		Cidade: m.Cidade,
		Estado: m.Estado,
		Cep:    m.Cep,
	}
}

type (
	AddressOutput       struct{ Body AddressModel }
	AddressesPageOutput struct{ Body PageModel[AddressModel] }
)

func contactNotFound(id ds.ContactID) string { return fmt.Sprintf("contact not found: %d", id) }

func addressNotFound(id ds.AddressID) string { return fmt.Sprintf("address not found: %d", id) }

func (h *Addresses) RegisterListByContact(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/contacts/{contactId}",
		handlerWithErrorHandler(h.listByContact, h.ErrorHandler),
		opID("list-contact-addresses", "List the addresses of a contact", "addresses"),
		opErrors(http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Addresses) listByContact(ctx context.Context, input *struct {
	ContactID ds.ContactID `path:"contactId" example:"1" doc:"ID of the owning contact"`
	PageParams
}) (*AddressesPageOutput, error) {
	req, err := input.pageRequest()
	if err != nil {
		return nil, err
	}
	contact, err := h.Contacts.Get(ctx, input.ContactID)
	if err != nil {
		return nil, storeError(err, contactNotFound(input.ContactID))
	}
	page, err := h.Store.ListByContact(ctx, contact, req)
	if err != nil {
		return nil, storeError(err, "")
	}
	return &AddressesPageOutput{Body: pageModel(page, addressModel)}, nil
}

func (h *Addresses) RegisterCreate(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/contacts/{contactId}",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opID("create-address", "Create an address for a contact", "addresses"),
		opStatus(http.StatusCreated),
		opErrors(http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Addresses) create(ctx context.Context, input *struct {
	ContactID ds.ContactID `path:"contactId" example:"1" doc:"ID of the owning contact"`
	Body      AddressModel
}) (*AddressOutput, error) {
	contact, err := h.Contacts.Get(ctx, input.ContactID)
	if err != nil {
		return nil, storeError(err, contactNotFound(input.ContactID))
	}

	address := addressEntity(&input.Body)
	address.ID = 0
	address.ContactID = contact.ID
	if err := h.Store.Save(ctx, address); err != nil {
		return nil, storeError(err, contactNotFound(input.ContactID))
	}
	return &AddressOutput{Body: addressModel(address)}, nil
}

func (h *Addresses) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opID("get-address", "Get an address by id", "addresses"),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Addresses) get(ctx context.Context, input *struct {
	ID ds.AddressID `path:"id" example:"1" doc:"ID of the address to get"`
}) (*AddressOutput, error) {
	address, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err, addressNotFound(input.ID))
	}
	return &AddressOutput{Body: addressModel(address)}, nil
}

func (h *Addresses) RegisterPut(api huma.API) { // called by [huma.AutoRegister]
	huma.Put(api, "/{id}",
		handlerWithErrorHandler(h.put, h.ErrorHandler),
		opID("put-address", "Replace an address", "addresses"),
		opErrors(http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Addresses) put(ctx context.Context, input *struct {
	ID   ds.AddressID `path:"id" example:"1" doc:"ID of the address to replace"`
	Body AddressModel
}) (*AddressOutput, error) {
	address, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err, addressNotFound(input.ID))
	}

	address.Rua = input.Body.Rua
	address.Cidade = input.Body.Cidade
	address.Estado = input.Body.Estado
	address.Cep = input.Body.Cep
	if err := h.Store.Save(ctx, address); err != nil {
		return nil, storeError(err, contactNotFound(address.ContactID))
	}
	return &AddressOutput{Body: addressModel(address)}, nil
}

func (h *Addresses) RegisterDelete(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opID("delete-address", "Delete an address", "addresses"),
		opErrors(http.StatusInternalServerError),
	)
}

func (h *Addresses) del(ctx context.Context, input *struct {
	ID ds.AddressID `path:"id" example:"1" doc:"ID of the address to delete"`
}) (*struct{}, error) {
	return nil, h.Store.Delete(ctx, input.ID)
}
