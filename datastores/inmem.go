package datastores

import (
	"cmp"
	"slices"
	"sync"
)

// inmemTables holds the rows shared by [ContactsInmem] and [AddressesInmem].
// Rows are kept in id order.
type inmemTables struct {
	mu         sync.Mutex
	contactSeq ContactID
	addressSeq AddressID
	contacts   []*Contact
	addresses  []*Address
}

// NewInmem returns in-memory stores sharing the same tables.
func NewInmem() (*ContactsInmem, *AddressesInmem) {
	t := new(inmemTables)
	return &ContactsInmem{t: t}, &AddressesInmem{t: t}
}

func (t *inmemTables) contactIndex(id ContactID) (int, bool) {
	return slices.BinarySearchFunc(t.contacts, id, func(c *Contact, id ContactID) int { return cmp.Compare(c.ID, id) })
}

func (t *inmemTables) addressIndex(id AddressID) (int, bool) {
	return slices.BinarySearchFunc(t.addresses, id, func(a *Address, id AddressID) int { return cmp.Compare(a.ID, id) })
}

func (t *inmemTables) insertContact(c *Contact) {
	if c.ID == 0 {
		t.contactSeq++
		c.ID = t.contactSeq
	}
	t.contactSeq = max(t.contactSeq, c.ID)
	i, _ := t.contactIndex(c.ID)
	t.contacts = slices.Insert(t.contacts, i, c)
}

func (t *inmemTables) insertAddress(a *Address) {
	if a.ID == 0 {
		t.addressSeq++
		a.ID = t.addressSeq
	}
	t.addressSeq = max(t.addressSeq, a.ID)
	i, _ := t.addressIndex(a.ID)
	t.addresses = slices.Insert(t.addresses, i, a)
}

func (t *inmemTables) addressesOf(id ContactID) []*Address {
	var addresses []*Address
	for _, a := range t.addresses {
		if a.ContactID == id {
			addresses = append(addresses, cloneAddress(a))
		}
	}
	return addresses
}

// withAddresses returns a copy of the stored contact c with its addresses.
func (t *inmemTables) withAddresses(c *Contact) *Contact {
	clone := *c
	clone.Addresses = t.addressesOf(c.ID)
	return &clone
}

func cloneAddress(a *Address) *Address {
	clone := *a
	return &clone
}

// sortFunc compares by each [Order] then by id.
func sortFunc[T any](sort []Order, id func(T) int64, field func(T, string) string) func(a, b T) int {
	return func(a, b T) int {
		for _, o := range sort {
			var c int
			if o.Property == "id" {
				c = cmp.Compare(id(a), id(b))
			} else {
				c = cmp.Compare(field(a, o.Property), field(b, o.Property))
			}
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(id(a), id(b))
	}
}

func slicePage[T any](items []T, req PageRequest) *Page[T] {
	lo := min(req.offset(), len(items))
	hi := lo + min(max(req.Size, 0), len(items)-lo)
	return &Page[T]{
		Content:       slices.Clip(items[lo:hi]),
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: int64(len(items)),
	}
}

func contactID(c *Contact) int64 { return c.ID }

func contactField(c *Contact, property string) string {
	switch property {
	case "nome":
		return c.Nome
	case "email":
		return c.Email
	case "telefone":
		return c.Telefone
	}
	return ""
}

func addressID(a *Address) int64 { return a.ID }

func addressField(a *Address, property string) string {
	switch property {
	case "rua":
		return a.Rua
	case "cidade":
		return a.Cidade
	case "estado":
		return a.Estado
	case "cep":
		return a.Cep
	}
	return ""
}
