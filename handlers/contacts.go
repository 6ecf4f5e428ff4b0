package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/contacts-api/datastores"
)

type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	ID ds.ContactID `json:"id" readOnly:"true" example:"1"`

	Nome      string         `json:"nome"      minLength:"1"  example:"Ana Silva"`
	Email     string         `json:"email"     format:"email" example:"ana@x.com"`
	Telefone  string         `json:"telefone"  minLength:"1"  example:"119999"`
	Addresses []AddressModel `json:"addresses" required:"false"`
}

// ContactPatchModel lists the fields a PATCH may overwrite.
// Absent and null fields are left unchanged, other keys are ignored.
type ContactPatchModel struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Nome     *string `json:"nome,omitempty"     minLength:"1"  nullable:"true" example:"Ana Souza"`
	Email    *string `json:"email,omitempty"    format:"email" nullable:"true"`
	Telefone *string `json:"telefone,omitempty" minLength:"1"  nullable:"true"`
}

func (m *ContactPatchModel) apply(c *ds.Contact) {
	if m.Nome != nil {
		c.Nome = *m.Nome
	}
	if m.Telefone != nil {
		c.Telefone = *m.Telefone
	}
	if m.Email != nil {
		c.Email = *m.Email
	}
}

func contactModel(c *ds.Contact) ContactModel {
	addresses := make([]AddressModel, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		addresses = append(addresses, addressModel(a))
	}
	return ContactModel{
		ID:        c.ID,
		Nome:      c.Nome,
		Email:     c.Email,
		Telefone:  c.Telefone,
		Addresses: addresses,
	}
}

func contactEntity(m *ContactModel) *ds.Contact {
	addresses := make([]*ds.Address, 0, len(m.Addresses))
	for i := range m.Addresses {
		addresses = append(addresses, addressEntity(&m.Addresses[i]))
	}
	return &ds.Contact{
		ID:        m.ID,
		Nome:      m.Nome,
		Email:     m.Email,
		Telefone:  m.Telefone,
		Addresses: addresses,
	}
}

type (
	ContactOutput      struct{ Body ContactModel }
	ContactsPageOutput struct{ Body PageModel[ContactModel] }
)

func (h *Contacts) find(ctx context.Context, id ds.ContactID) (*ds.Contact, error) {
	contact, err := h.Store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, contactNotFound(id))
	}
	return contact, nil
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opID("list-contacts", "List contacts", "contacts"),
		opErrors(http.StatusBadRequest, http.StatusInternalServerError),
	)
}

func (h *Contacts) list(ctx context.Context, input *struct{ PageParams }) (*ContactsPageOutput, error) {
	req, err := input.pageRequest()
	if err != nil {
		return nil, err
	}
	page, err := h.Store.List(ctx, req)
	if err != nil {
		return nil, storeError(err, "")
	}
	return &ContactsPageOutput{Body: pageModel(page, contactModel)}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opID("get-contact", "Get a contact by id", "contacts"),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" example:"1" doc:"ID of the contact to get"`
}) (*ContactOutput, error) {
	contact, err := h.find(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ContactOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterCreate(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opID("create-contact", "Create a contact", "contacts"),
		opStatus(http.StatusCreated),
		opErrors(http.StatusBadRequest, http.StatusInternalServerError),
	)
}

func (h *Contacts) create(ctx context.Context, input *struct {
	Body ContactModel
}) (*ContactOutput, error) {
	contact := contactEntity(&input.Body)
	contact.ID = 0
	if err := h.Store.Save(ctx, contact); err != nil {
		return nil, err
	}
	return &ContactOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterPut(api huma.API) { // called by [huma.AutoRegister]
	huma.Put(api, "/{id}",
		handlerWithErrorHandler(h.put, h.ErrorHandler),
		opID("put-contact", "Replace a contact and its addresses", "contacts"),
		opErrors(http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) put(ctx context.Context, input *struct {
	ID   ds.ContactID `path:"id" example:"1" doc:"ID of the contact to replace"`
	Body ContactModel
}) (*ContactOutput, error) {
	contact, err := h.find(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	update := contactEntity(&input.Body)
	contact.Nome = update.Nome
	contact.Email = update.Email
	contact.Telefone = update.Telefone
	contact.Addresses = update.Addresses

	if err := h.Store.Save(ctx, contact); err != nil {
		return nil, err
	}
	return &ContactOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterPatch(api huma.API) { // called by [huma.AutoRegister]
	huma.Patch(api, "/{id}",
		handlerWithErrorHandler(h.patch, h.ErrorHandler),
		opID("patch-contact", "Update some fields of a contact", "contacts"),
		opErrors(http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) patch(ctx context.Context, input *struct {
	ID   ds.ContactID `path:"id" example:"1" doc:"ID of the contact to update"`
	Body ContactPatchModel
}) (*ContactOutput, error) {
	contact, err := h.find(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	input.Body.apply(contact)
	if err := h.Store.Save(ctx, contact); err != nil {
		return nil, err
	}
	return &ContactOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterDelete(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opID("delete-contact", "Delete a contact and its addresses", "contacts"),
		opErrors(http.StatusInternalServerError),
	)
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" example:"1" doc:"ID of the contact to delete"`
}) (*struct{}, error) {
	return nil, h.Store.Delete(ctx, input.ID)
}

func (h *Contacts) RegisterSearch(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/search",
		handlerWithErrorHandler(h.search, h.ErrorHandler),
		opID("search-contacts", "Search contacts by name", "contacts"),
		opErrors(http.StatusBadRequest, http.StatusInternalServerError),
	)
}

func (h *Contacts) search(ctx context.Context, input *struct {
	Name string `query:"name" required:"true" example:"ana" doc:"Fragment of the name, case is ignored"`
	PageParams
}) (*ContactsPageOutput, error) {
	req, err := input.pageRequest()
	if err != nil {
		return nil, err
	}
	page, err := h.Store.SearchByName(ctx, input.Name, req)
	if err != nil {
		return nil, storeError(err, "")
	}
	return &ContactsPageOutput{Body: pageModel(page, contactModel)}, nil
}
