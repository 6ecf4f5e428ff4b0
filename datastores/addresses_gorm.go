package datastores

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddressesGorm implements [AddressesStore] with gorm.
type AddressesGorm struct {
	db *gorm.DB
}

var _ AddressesStore = (*AddressesGorm)(nil)

func NewAddressesGorm(db *gorm.DB) *AddressesGorm {
	return &AddressesGorm{db: db}
}

func (s *AddressesGorm) List(ctx context.Context, req PageRequest) (*Page[*Address], error) {
	return findPage[Address](s.db.WithContext(ctx).Model(&Address{}), req, addressProperties)
}

func (s *AddressesGorm) Get(ctx context.Context, id AddressID) (*Address, error) {
	var a Address
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

func (s *AddressesGorm) Save(ctx context.Context, a *Address) error {
	tx := s.db.WithContext(ctx).Omit(clause.Associations)
	if a.ID == 0 {
		return translateError(tx.Create(a).Error)
	}
	return translateError(tx.Save(a).Error)
}

func (s *AddressesGorm) Delete(ctx context.Context, id AddressID) error {
	return s.db.WithContext(ctx).Delete(&Address{}, id).Error
}

func (s *AddressesGorm) ListByContactID(ctx context.Context, id ContactID) ([]*Address, error) {
	return addressesByContactID(s.db.WithContext(ctx), id)
}

func (s *AddressesGorm) ListByContact(ctx context.Context, c *Contact, req PageRequest) (*Page[*Address], error) {
	query := s.db.WithContext(ctx).Model(&Address{}).Where("contact_id = ?", c.ID)
	return findPage[Address](query, req, addressProperties)
}
