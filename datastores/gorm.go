package datastores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the tables used by [ContactsGorm] and [AddressesGorm].
// Rows written before the nome_busca column existed get it filled in.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&Contact{}, &Address{}); err != nil {
		return err
	}

	var stale []*Contact
	if err := db.Select("id", "nome").Where("nome_busca = '' AND nome <> ''").Find(&stale).Error; err != nil {
		return err
	}
	for _, c := range stale {
		err := db.Model(c).UpdateColumn("nome_busca", searchable(c.Nome)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// translateError maps gorm errors to the errors of this package.
// The foreign key mapping needs [gorm.Config.TranslateError].
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %w", ErrObjectNotFound, err)
	}
	return err
}

// findPage counts the rows matched by query then loads the requested page.
func findPage[T any](
	query *gorm.DB,
	req PageRequest,
	properties []string,
	scopes ...func(*gorm.DB) *gorm.DB,
) (*Page[*T], error) {
	if err := req.checkSort(properties); err != nil {
		return nil, err
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := &Page[*T]{Content: []*T{}, Number: req.Page, Size: req.Size, TotalElements: total}
	if int64(req.offset()) >= total {
		return page, nil
	}

	err := orderBy(query.Scopes(scopes...), req.Sort).
		Offset(req.offset()).
		Limit(req.Size).
		Find(&page.Content).Error
	if err != nil {
		return nil, err
	}
	return page, nil
}

// orderBy applies sort then id, so that pages never overlap.
func orderBy(tx *gorm.DB, sort []Order) *gorm.DB {
	byID := false
	for _, o := range sort {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Property}, Desc: o.Desc})
		byID = byID || o.Property == "id"
	}
	if !byID {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return tx
}

func preloadAddresses(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Addresses", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") })
}

func addressesByContactID(tx *gorm.DB, id ContactID) ([]*Address, error) {
	var addresses []*Address
	if err := tx.Where("contact_id = ?", id).Order("id").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains returns a LIKE pattern matching the searchable form of fragment anywhere.
func likeContains(fragment string) string {
	return "%" + likeEscaper.Replace(searchable(fragment)) + "%"
}
