package datastores_test

import (
	"testing"

	ds "github.com/oaiiae/contacts-api/datastores"
	"github.com/oaiiae/contacts-api/datastores/storetest"
)

func TestContract_Inmem(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (ds.ContactsStore, ds.AddressesStore) {
		t.Helper()
		return ds.NewInmem()
	})
}
