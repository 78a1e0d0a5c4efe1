// Package storetest checks that a store.Store backend round trips
// artifacts. Backends call Run from their own tests.
package storetest

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/fixtures"
	"github.com/lingchunkai/SafeSearchSSE/store"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Run exercises s. The store must be empty.
func Run(t *testing.T, s store.Store) {
	t.Run("Game", func(t *testing.T) { testGame(t, s) })
	t.Run("Vector", func(t *testing.T) { testVector(t, s) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, s) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, s) })
	t.Run("InvalidName", func(t *testing.T) { testInvalidName(t, s) })
}

func testGame(t *testing.T, s store.Store) {
	g := fixtures.OneSubgameGame()
	require.NoError(t, s.PutGame("one-subgame", g))

	loaded, err := s.Game("one-subgame")
	require.NoError(t, err)
	assert.Equal(t, g.PayoffMatrix().Entries(), loaded.PayoffMatrix().Entries())
	assert.Equal(t, g.NumSubgames(), loaded.NumSubgames())
	for _, p := range []game.Player{game.Player1, game.Player2} {
		assert.Equal(t, g.Treeplex(p).Infosets(), loaded.Treeplex(p).Infosets())
		assert.Equal(t, g.Subgames(p), loaded.Subgames(p))
	}
}

func testVector(t *testing.T, s store.Store) {
	tp := fixtures.KuhnTreeplexPl1()
	entries := make([]float64, tp.NumSequences())
	for i := range entries {
		entries[i] = math.Sqrt(float64(i)) - 1
	}
	entries[3] = math.Inf(-1)
	v := treeplex.NewVector(tp, entries)

	require.NoError(t, store.PutAll(s, map[string]treeplex.Vector{
		"kuhn":  v,
		"empty": treeplex.ZeroVector(fixtures.SingleInfosetTreeplex(treeplex.Player2, 1)),
	}))

	loaded, err := s.Vector("kuhn", tp)
	require.NoError(t, err)
	assert.True(t, v.Equal(loaded), "expected %v, got %v", v.Entries(), loaded.Entries())

	_, err = s.Vector("kuhn", fixtures.ChainTreeplex())
	assert.Error(t, err, "vector bound to a treeplex of the wrong size")
}

func testNotFound(t *testing.T, s store.Store) {
	_, err := s.Game("missing")
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

	_, err = s.Vector("missing", fixtures.ChainTreeplex())
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

	// Games and vectors live in separate namespaces.
	require.NoError(t, s.PutVector("shared", treeplex.ZeroVector(fixtures.ChainTreeplex())))
	_, err = s.Game("shared")
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func testOverwrite(t *testing.T, s store.Store) {
	tp := fixtures.ChainTreeplex()
	require.NoError(t, s.PutVector("overwrite", treeplex.ConstantVector(tp, 1)))
	require.NoError(t, s.PutVector("overwrite", treeplex.ConstantVector(tp, 2)))

	v, err := s.Vector("overwrite", tp)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2, 2}, v.Entries())
}

func testInvalidName(t *testing.T, s store.Store) {
	tp := fixtures.ChainTreeplex()
	for _, name := range []string{"", "a/b", ".."} {
		assert.Error(t, s.PutVector(name, treeplex.ZeroVector(tp)), "name %q", name)
	}
}
