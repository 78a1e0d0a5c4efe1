// Package cli holds the pieces shared by the command-line tools: opening
// artifact stores, constructing games, loading blueprints and layering
// YAML configuration under command-line flags.
package cli

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/lingchunkai/SafeSearchSSE/ldbstore"
	"github.com/lingchunkai/SafeSearchSSE/store"
)

// Supported store backends. RocksDBBackend is only available in binaries
// built with the rocksdb tag.
const (
	DirBackend     = "dir"
	LevelDBBackend = "leveldb"
	RocksDBBackend = "rocksdb"
)

var storeOpeners = map[string]func(path string) (store.Store, error){
	DirBackend: func(path string) (store.Store, error) {
		return store.NewDir(path)
	},
	LevelDBBackend: func(path string) (store.Store, error) {
		return ldbstore.New(path, &opt.Options{})
	},
}

// StoreBackends returns the names of the backends compiled in.
func StoreBackends() []string {
	names := make([]string, 0, len(storeOpeners))
	for name := range storeOpeners {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// OpenStore opens the artifact store at path with the named backend,
// creating it if it does not exist.
func OpenStore(backend, path string) (store.Store, error) {
	open, ok := storeOpeners[backend]
	if !ok {
		return nil, errors.Errorf("unknown store backend %q (have %v)", backend, StoreBackends())
	}

	return open(path)
}
