//go:build rocksdb

// Package rdbstore implements store.Store on top of a RocksDB database.
//
// It behaves like ldbstore but requires the RocksDB C library at build time.
package rdbstore

import (
	"github.com/pkg/errors"
	rocksdb "github.com/tecbot/gorocksdb"
)

// Params configures the RocksDB database backing a Store.
type Params struct {
	Path string
	// Fail instead of creating the database when none exists at Path.
	ErrorIfMissing bool
	// Flush each write to disk before it returns.
	Sync bool
	// Size in bytes of the in-memory write buffer. Zero keeps the RocksDB
	// default.
	WriteBufferSize int
}

// DefaultParams returns Params creating the database at path if missing,
// with synchronous writes.
func DefaultParams(path string) Params {
	return Params{Path: path, Sync: true}
}

func (p Params) validate() error {
	if p.Path == "" {
		return errors.New("rocksdb path is empty")
	}

	if p.WriteBufferSize < 0 {
		return errors.Errorf("negative write buffer size %d", p.WriteBufferSize)
	}

	return nil
}

// dbOptions are the C allocations made for one open database.
type dbOptions struct {
	db    *rocksdb.Options
	read  *rocksdb.ReadOptions
	write *rocksdb.WriteOptions
}

func (p Params) allocOptions() *dbOptions {
	opts := rocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(!p.ErrorIfMissing)
	if p.WriteBufferSize > 0 {
		opts.SetWriteBufferSize(p.WriteBufferSize)
	}

	wOpts := rocksdb.NewDefaultWriteOptions()
	wOpts.SetSync(p.Sync)

	return &dbOptions{
		db:    opts,
		read:  rocksdb.NewDefaultReadOptions(),
		write: wOpts,
	}
}

func (o *dbOptions) destroy() {
	o.db.Destroy()
	o.read.Destroy()
	o.write.Destroy()
}
