package store

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

const (
	gameExt   = ".game"
	vectorExt = ".vec"
)

// Dir is a Store keeping each artifact in its own file within a directory.
// Games are written to <name>.game and vectors to <name>.vec.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path, creating the directory if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}

	return &Dir{path: path}, nil
}

// Path returns the directory holding the artifacts.
func (d *Dir) Path() string {
	return d.path
}

// PutGame implements Store.
func (d *Dir) PutGame(name string, g *game.ExtensiveFormGame) error {
	if err := CheckName(name); err != nil {
		return err
	}

	buf, err := g.MarshalBinary()
	if err != nil {
		return errors.Wrapf(err, "encoding game %s", name)
	}

	return d.write(name+gameExt, buf)
}

// Game implements Store.
func (d *Dir) Game(name string) (*game.ExtensiveFormGame, error) {
	buf, err := d.read(name, gameExt)
	if err != nil {
		return nil, err
	}

	g, err := game.UnmarshalGame(buf)
	return g, errors.Wrapf(err, "decoding game %s", name)
}

// PutVector implements Store.
func (d *Dir) PutVector(name string, v treeplex.Vector) error {
	if err := CheckName(name); err != nil {
		return err
	}

	return d.write(name+vectorExt, treeplex.EncodeVector(v))
}

// Vector implements Store.
func (d *Dir) Vector(name string, tp *treeplex.Treeplex) (treeplex.Vector, error) {
	buf, err := d.read(name, vectorExt)
	if err != nil {
		return treeplex.Vector{}, err
	}

	v, err := treeplex.DecodeVector(buf, tp)
	return v, errors.Wrapf(err, "decoding vector %s", name)
}

// Close implements Store. It is a no-op.
func (d *Dir) Close() error {
	return nil
}

// write replaces filename atomically by renaming a temporary file over it.
func (d *Dir) write(filename string, buf []byte) error {
	f, err := ioutil.TempFile(d.path, "."+filename+"-")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(buf); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", filename)
	}

	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", filename)
	}

	dst := filepath.Join(d.path, filename)
	return errors.Wrapf(os.Rename(f.Name(), dst), "renaming to %s", dst)
}

func (d *Dir) read(name, ext string) ([]byte, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(d.path, name+ext)
	buf, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, path)
	}

	return buf, errors.Wrapf(err, "reading %s", path)
}
