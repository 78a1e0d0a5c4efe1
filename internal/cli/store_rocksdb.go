//go:build rocksdb

package cli

import (
	"github.com/lingchunkai/SafeSearchSSE/rdbstore"
	"github.com/lingchunkai/SafeSearchSSE/store"
)

func init() {
	storeOpeners[RocksDBBackend] = func(path string) (store.Store, error) {
		return rdbstore.New(rdbstore.DefaultParams(path))
	}
}
