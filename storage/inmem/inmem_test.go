package inmem_test

import (
	"testing"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/storage/inmem"
	"github.com/Sjoshi-TYCS/witsml/storage/storetest"
)

func TestAdapter(t *testing.T) {
	storetest.RunAdapterTests(t, func(t *testing.T) witsml.DataAdapter {
		return inmem.NewAdapter(nil)
	})
}
