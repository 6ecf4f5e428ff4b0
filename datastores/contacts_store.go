package datastores

import (
	"context"
	"errors"
	"strings"
)

type (
	ContactID = int64
	Contact   struct {
		ID        ContactID  `gorm:"primaryKey"`
		Nome      string     `gorm:"not null"`
		Email     string     `gorm:"not null"`
		Telefone  string     `gorm:"not null"`
		NomeBusca string     `gorm:"not null;default:'';index"`
		Addresses []*Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	}
)

type (
	AddressID = int64
	Address   struct {
		ID        AddressID `gorm:"primaryKey"`
		Rua       string    `gorm:"not null"`
		Cidade    string    `gorm:"not null"`
		Estado    string    `gorm:"not null"`
		Cep       string    `gorm:"not null"`
		ContactID ContactID `gorm:"not null;index"`
	}
)

// searchable is the lowercase form of a name that [ContactsStore.SearchByName]
// matches against. It is computed here rather than by the database, whose
// LOWER may only fold ASCII.
func searchable(nome string) string { return strings.ToLower(nome) }

// ContactsStore persists [Contact] values together with their addresses.
type ContactsStore interface {
	List(context.Context, PageRequest) (*Page[*Contact], error)
	Get(context.Context, ContactID) (*Contact, error)
	// Save inserts c when c.ID is zero and updates it otherwise. The stored
	// addresses of c are replaced by c.Addresses: entries whose ID already
	// belongs to c are updated, the others are inserted and every stored
	// address missing from c.Addresses is deleted.
	Save(ctx context.Context, c *Contact) error
	// Delete removes the contact and its addresses. Deleting a missing
	// contact is not an error.
	Delete(context.Context, ContactID) error
	// SearchByName lists the contacts whose name contains fragment, ignoring
	// case, accented letters included.
	SearchByName(ctx context.Context, fragment string, page PageRequest) (*Page[*Contact], error)
}

// AddressesStore persists [Address] values.
type AddressesStore interface {
	List(context.Context, PageRequest) (*Page[*Address], error)
	Get(context.Context, AddressID) (*Address, error)
	// Save inserts a when a.ID is zero and updates it otherwise.
	// It fails with [ErrObjectNotFound] when a.ContactID does not exist.
	Save(ctx context.Context, a *Address) error
	Delete(context.Context, AddressID) error
	ListByContactID(context.Context, ContactID) ([]*Address, error)
	ListByContact(context.Context, *Contact, PageRequest) (*Page[*Address], error)
}

var ErrObjectNotFound = errors.New("store: object not found")

// ErrInvalidSort is returned for a sort property the store does not know.
var ErrInvalidSort = errors.New("store: invalid sort property")

var (
	contactProperties = []string{"id", "nome", "email", "telefone"}
	addressProperties = []string{"id", "rua", "cidade", "estado", "cep"}
)
