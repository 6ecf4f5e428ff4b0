package datastores_test

import (
	"context"
	"net/url"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	ds "github.com/oaiiae/contacts-api/datastores"
	"github.com/oaiiae/contacts-api/datastores/storetest"
)

func openGorm(t *testing.T, dialector gorm.Dialector) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("database handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := ds.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// openSQLite opens a private in-memory database named after the test.
func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared&_foreign_keys=on"
	db := openGorm(t, sqlite.Open(dsn))
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestContract_GormSQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (ds.ContactsStore, ds.AddressesStore) {
		t.Helper()
		db := openSQLite(t)
		return ds.NewContactsGorm(db), ds.NewAddressesGorm(db)
	})
}

func TestContract_GormPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run postgres store tests")
	}
	storetest.Run(t, func(t *testing.T) (ds.ContactsStore, ds.AddressesStore) {
		t.Helper()
		db := openGorm(t, postgres.Open(dsn))
		if err := db.Exec("TRUNCATE addresses, contacts RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return ds.NewContactsGorm(db), ds.NewAddressesGorm(db)
	})
}

func TestContactsGorm_SaveRollsBackOnAddressFailure(t *testing.T) {
	db := openSQLite(t)
	contacts := ds.NewContactsGorm(db)
	ctx := context.Background()

	c := &ds.Contact{Nome: "Ana", Email: "ana@x.com", Telefone: "1",
		Addresses: []*ds.Address{{Rua: "Rua A", Cidade: "SP", Estado: "SP", Cep: "01000-000"}}}
	if err := contacts.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := db.Exec("DROP TABLE addresses").Error; err != nil {
		t.Fatalf("drop addresses: %v", err)
	}
	c.Nome = "Ana Souza"
	if err := contacts.Save(ctx, c); err == nil {
		t.Fatalf("Save without addresses table succeeded")
	}

	var nome string
	if err := db.Raw("SELECT nome FROM contacts WHERE id = ?", c.ID).Scan(&nome).Error; err != nil {
		t.Fatalf("select: %v", err)
	}
	if nome != "Ana" {
		t.Fatalf("nome = %q after failed Save, want the transaction rolled back", nome)
	}
}

func TestMigrate_FillsSearchableNames(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	err := db.Exec("INSERT INTO contacts (nome, email, telefone, nome_busca) VALUES (?, ?, ?, '')",
		"ÉRICA", "e@x.com", "1").Error
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err = ds.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	page, err := ds.NewContactsGorm(db).SearchByName(ctx, "érica", ds.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].NomeBusca != "érica" {
		t.Fatalf("search = %+v, want the migrated row", page.Content)
	}
}
