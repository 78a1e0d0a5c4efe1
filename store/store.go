// Package store persists games and per-sequence vectors under string names.
//
// Backends implement Store: Dir keeps one file per artifact, while the
// ldbstore and rdbstore packages keep everything in a single LevelDB or
// RocksDB database.
package store

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// ErrNotFound is returned (possibly wrapped) when no artifact exists
// under the requested name.
var ErrNotFound = errors.New("artifact not found")

// Store is a named collection of games and vectors.
type Store interface {
	PutGame(name string, g *game.ExtensiveFormGame) error
	Game(name string) (*game.ExtensiveFormGame, error)
	PutVector(name string, v treeplex.Vector) error
	// Vector loads the named vector and binds it to tp.
	Vector(name string, tp *treeplex.Treeplex) (treeplex.Vector, error)
	Close() error
}

const (
	gamePrefix   = "game/"
	vectorPrefix = "vec/"
)

// GameKey returns the key under which key-value backends store a game.
func GameKey(name string) []byte {
	return []byte(gamePrefix + name)
}

// VectorKey returns the key under which key-value backends store a vector.
func VectorKey(name string) []byte {
	return []byte(vectorPrefix + name)
}

// CheckName rejects names that cannot be used as artifact names.
func CheckName(name string) error {
	if name == "" {
		return errors.New("empty artifact name")
	}

	if strings.ContainsAny(name, "/\\\x00") || name == "." || name == ".." {
		return errors.Errorf("invalid artifact name %q", name)
	}

	return nil
}

// PutAll stores every vector in vs under its key.
func PutAll(s Store, vs map[string]treeplex.Vector) error {
	for name, v := range vs {
		if err := s.PutVector(name, v); err != nil {
			return errors.Wrapf(err, "storing %s", name)
		}
	}

	return nil
}
