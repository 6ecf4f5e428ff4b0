package datastores

import (
	"context"
	"slices"
)

// AddressesInmem implements [AddressesStore] in memory.
type AddressesInmem struct {
	t *inmemTables
}

var _ AddressesStore = (*AddressesInmem)(nil)

func (s *AddressesInmem) List(_ context.Context, req PageRequest) (*Page[*Address], error) {
	return s.find(req, func(*Address) bool { return true })
}

func (s *AddressesInmem) Get(_ context.Context, id AddressID) (*Address, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	i, ok := s.t.addressIndex(id)
	if !ok {
		return nil, ErrObjectNotFound
	}
	return cloneAddress(s.t.addresses[i]), nil
}

func (s *AddressesInmem) Save(_ context.Context, a *Address) error {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	if _, ok := s.t.contactIndex(a.ContactID); !ok {
		return ErrObjectNotFound
	}
	if i, ok := s.t.addressIndex(a.ID); ok && a.ID != 0 {
		s.t.addresses[i] = cloneAddress(a)
		return nil
	}
	clone := cloneAddress(a)
	s.t.insertAddress(clone)
	a.ID = clone.ID
	return nil
}

func (s *AddressesInmem) Delete(_ context.Context, id AddressID) error {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	if i, ok := s.t.addressIndex(id); ok {
		s.t.addresses = slices.Delete(s.t.addresses, i, i+1)
	}
	return nil
}

func (s *AddressesInmem) ListByContactID(_ context.Context, id ContactID) ([]*Address, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	return s.t.addressesOf(id), nil
}

func (s *AddressesInmem) ListByContact(_ context.Context, c *Contact, req PageRequest) (*Page[*Address], error) {
	return s.find(req, func(a *Address) bool { return a.ContactID == c.ID })
}

func (s *AddressesInmem) find(req PageRequest, match func(*Address) bool) (*Page[*Address], error) {
	if err := req.checkSort(addressProperties); err != nil {
		return nil, err
	}
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	var addresses []*Address
	for _, a := range s.t.addresses {
		if match(a) {
			addresses = append(addresses, cloneAddress(a))
		}
	}
	slices.SortStableFunc(addresses, sortFunc(req.Sort, addressID, addressField))
	return slicePage(addresses, req), nil
}
