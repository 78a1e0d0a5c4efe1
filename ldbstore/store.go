package ldbstore

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/store"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Store is a store.Store backed by a LevelDB database.
type Store struct {
	path  string
	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

var _ store.Store = (*Store)(nil)

// New opens (or creates, unless opts.ErrorIfMissing is set) the LevelDB
// database at the given path.
func New(path string, opts *opt.Options) (*Store, error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at %s", path)
	}

	return &Store{
		path:  path,
		db:    db,
		wOpts: &opt.WriteOptions{Sync: true},
	}, nil
}

// Open opens an existing database, failing if none exists at path.
func Open(path string) (*Store, error) {
	return New(path, &opt.Options{ErrorIfMissing: true})
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
	return s.db.Close()
}

func (s *Store) put(key, value []byte) error {
	glog.V(2).Infof("Writing %d bytes to %s in %s", len(value), key, s.path)
	return errors.Wrapf(s.db.Put(key, value, s.wOpts), "writing %s", key)
}

func (s *Store) get(name string, key []byte) ([]byte, error) {
	if err := store.CheckName(name); err != nil {
		return nil, err
	}

	buf, err := s.db.Get(key, s.rOpts)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrap(store.ErrNotFound, string(key))
	}

	return buf, errors.Wrapf(err, "reading %s", key)
}
