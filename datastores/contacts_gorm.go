package datastores

import (
	"context"
	"maps"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactsGorm implements [ContactsStore] with gorm.
type ContactsGorm struct {
	db *gorm.DB
}

var _ ContactsStore = (*ContactsGorm)(nil)

func NewContactsGorm(db *gorm.DB) *ContactsGorm {
	return &ContactsGorm{db: db}
}

func (s *ContactsGorm) List(ctx context.Context, req PageRequest) (*Page[*Contact], error) {
	return findPage[Contact](s.db.WithContext(ctx).Model(&Contact{}), req, contactProperties, preloadAddresses)
}

func (s *ContactsGorm) Get(ctx context.Context, id ContactID) (*Contact, error) {
	var c Contact
	if err := preloadAddresses(s.db.WithContext(ctx)).First(&c, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (s *ContactsGorm) Save(ctx context.Context, c *Contact) error {
	c.NomeBusca = searchable(c.Nome)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if c.ID == 0 {
			err = tx.Omit(clause.Associations).Create(c).Error
		} else {
			err = tx.Omit(clause.Associations).Save(c).Error
		}
		if err != nil {
			return translateError(err)
		}
		return replaceAddresses(tx, c)
	})
}

// replaceAddresses makes the stored addresses of c match c.Addresses.
func replaceAddresses(tx *gorm.DB, c *Contact) error {
	stored, err := addressesByContactID(tx, c.ID)
	if err != nil {
		return err
	}
	owned := make(map[AddressID]struct{}, len(stored))
	for _, a := range stored {
		owned[a.ID] = struct{}{}
	}

	for _, a := range c.Addresses {
		a.ContactID = c.ID
		if _, ok := owned[a.ID]; ok {
			delete(owned, a.ID)
			if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
				return err
			}
			continue
		}
		a.ID = 0
		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			return translateError(err)
		}
	}

	if len(owned) == 0 {
		return nil
	}
	return tx.Where("contact_id = ? AND id IN ?", c.ID, slices.Collect(maps.Keys(owned))).
		Delete(&Address{}).Error
}

func (s *ContactsGorm) Delete(ctx context.Context, id ContactID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact_id = ?", id).Delete(&Address{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Contact{}, id).Error
	})
}

func (s *ContactsGorm) SearchByName(ctx context.Context, fragment string, req PageRequest) (*Page[*Contact], error) {
	query := s.db.WithContext(ctx).Model(&Contact{}).
		Where(`nome_busca LIKE ? ESCAPE '\'`, likeContains(fragment))
	return findPage[Contact](query, req, contactProperties, preloadAddresses)
}
