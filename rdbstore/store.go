//go:build rocksdb

package rdbstore

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	rocksdb "github.com/tecbot/gorocksdb"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/store"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Store is a store.Store backed by a RocksDB database.
type Store struct {
	path string
	opts *dbOptions
	db   *rocksdb.DB
}

var _ store.Store = (*Store)(nil)

// New opens the RocksDB database described by params.
func New(params Params) (*Store, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	opts := params.allocOptions()
	db, err := rocksdb.OpenDb(opts.db, params.Path)
	if err != nil {
		opts.destroy()
		return nil, errors.Wrapf(err, "opening rocksdb at %s", params.Path)
	}

	return &Store{
		path: params.Path,
		opts: opts,
		db:   db,
	}, nil
}

// Open opens an existing database, failing if none exists at path.
func Open(path string) (*Store, error) {
	params := DefaultParams(path)
	params.ErrorIfMissing = true
	return New(params)
}

// PutGame implements store.Store.
func (s *Store) PutGame(name string, g *game.ExtensiveFormGame) error {
	if err := store.CheckName(name); err != nil {
		return err
	}

	buf, err := g.MarshalBinary()
	if err != nil {
		return errors.Wrapf(err, "encoding game %s", name)
	}

	return s.put(store.GameKey(name), buf)
}

// Game implements store.Store.
func (s *Store) Game(name string) (*game.ExtensiveFormGame, error) {
	buf, err := s.get(name, store.GameKey(name))
	if err != nil {
		return nil, err
	}

	g, err := game.UnmarshalGame(buf)
	return g, errors.Wrapf(err, "decoding game %s", name)
}

// PutVector implements store.Store.
func (s *Store) PutVector(name string, v treeplex.Vector) error {
	if err := store.CheckName(name); err != nil {
		return err
	}

	return s.put(store.VectorKey(name), treeplex.EncodeVector(v))
}

// Vector implements store.Store.
func (s *Store) Vector(name string, tp *treeplex.Treeplex) (treeplex.Vector, error) {
	buf, err := s.get(name, store.VectorKey(name))
	if err != nil {
		return treeplex.Vector{}, err
	}

	v, err := treeplex.DecodeVector(buf, tp)
	return v, errors.Wrapf(err, "decoding vector %s", name)
}

// Close implements io.Closer.
func (s *Store) Close() error {
	s.db.Close()
	s.opts.destroy()
	return nil
}

func (s *Store) put(key, value []byte) error {
	glog.V(2).Infof("Writing %d bytes to %s in %s", len(value), key, s.path)
	return errors.Wrapf(s.db.Put(s.opts.write, key, value), "writing %s", key)
}

func (s *Store) get(name string, key []byte) ([]byte, error) {
	if err := store.CheckName(name); err != nil {
		return nil, err
	}

	slice, err := s.db.Get(s.opts.read, key)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", key)
	}
	defer slice.Free()

	// Encoded games and vectors are never empty.
	data := slice.Data()
	if len(data) == 0 {
		return nil, errors.Wrap(store.ErrNotFound, string(key))
	}

	// The slice data is owned by RocksDB and released by Free.
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}
