package datastores

import (
	"context"
	"slices"
	"strings"
)

// ContactsInmem implements [ContactsStore] in memory.
type ContactsInmem struct {
	t *inmemTables
}

var _ ContactsStore = (*ContactsInmem)(nil)

func (s *ContactsInmem) List(_ context.Context, req PageRequest) (*Page[*Contact], error) {
	return s.find(req, func(*Contact) bool { return true })
}

func (s *ContactsInmem) Get(_ context.Context, id ContactID) (*Contact, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	i, ok := s.t.contactIndex(id)
	if !ok {
		return nil, ErrObjectNotFound
	}
	return s.t.withAddresses(s.t.contacts[i]), nil
}

func (s *ContactsInmem) Save(_ context.Context, c *Contact) error {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	c.NomeBusca = searchable(c.Nome)
	row := &Contact{ID: c.ID, Nome: c.Nome, Email: c.Email, Telefone: c.Telefone, NomeBusca: c.NomeBusca}
	if i, ok := s.t.contactIndex(c.ID); ok && c.ID != 0 {
		s.t.contacts[i] = row
	} else {
		s.t.insertContact(row)
		c.ID = row.ID
	}

	owned := make(map[AddressID]bool)
	for _, a := range s.t.addresses {
		if a.ContactID == c.ID {
			owned[a.ID] = true
		}
	}
	for _, a := range c.Addresses {
		a.ContactID = c.ID
		if owned[a.ID] {
			delete(owned, a.ID)
			i, _ := s.t.addressIndex(a.ID)
			s.t.addresses[i] = cloneAddress(a)
			continue
		}
		a.ID = 0
		clone := cloneAddress(a)
		s.t.insertAddress(clone)
		a.ID = clone.ID
	}
	s.t.addresses = slices.DeleteFunc(s.t.addresses, func(a *Address) bool { return owned[a.ID] })
	return nil
}

func (s *ContactsInmem) Delete(_ context.Context, id ContactID) error {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	s.t.addresses = slices.DeleteFunc(s.t.addresses, func(a *Address) bool { return a.ContactID == id })
	if i, ok := s.t.contactIndex(id); ok {
		s.t.contacts = slices.Delete(s.t.contacts, i, i+1)
	}
	return nil
}

func (s *ContactsInmem) SearchByName(_ context.Context, fragment string, req PageRequest) (*Page[*Contact], error) {
	return s.find(req, func(c *Contact) bool { return strings.Contains(c.NomeBusca, searchable(fragment)) })
}

func (s *ContactsInmem) find(req PageRequest, match func(*Contact) bool) (*Page[*Contact], error) {
	if err := req.checkSort(contactProperties); err != nil {
		return nil, err
	}
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	var contacts []*Contact
	for _, c := range s.t.contacts {
		if match(c) {
			contacts = append(contacts, s.t.withAddresses(c))
		}
	}
	slices.SortStableFunc(contacts, sortFunc(req.Sort, contactID, contactField))
	return slicePage(contacts, req), nil
}
