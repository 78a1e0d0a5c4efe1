package synthetic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/lpsolver"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/tree"
)

func newGame(t *testing.T, config Config) *Game {
	g, err := New(config, 42)
	require.NoError(t, err)
	return g
}

func TestNew_InvalidConfig(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *Config)
	}{
		{"no subgames", func(c *Config) { c.NumSubgames = 0 }},
		{"empty main game", func(c *Config) { c.MainGameSize = [2]int{0, 2} }},
		{"empty subgame", func(c *Config) { c.SubgameSize = [2]int{2, 0} }},
		{"influence", func(c *Config) { c.Influence = 1.5 }},
		{"payoff range", func(c *Config) { c.MainPayoffRange = [2]float64{1, 0} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.modify(&config)
			_, err := New(config, 1)
			assert.Error(t, err)
		})
	}
}

func TestNew_Deterministic(t *testing.T) {
	a := newGame(t, DefaultConfig())
	b := newGame(t, DefaultConfig())
	assert.Equal(t, a.MainPayoffs(0), b.MainPayoffs(0))
	assert.Equal(t, a.Transition(1), b.Transition(1))
}

func TestNew_Transition(t *testing.T) {
	config := DefaultConfig()
	config.NumSubgames = 4
	config.Influence = 0
	g := newGame(t, config)
	for a1 := 0; a1 < config.MainGameSize[0]; a1++ {
		assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, g.Transition(a1), 1e-12)
	}

	config.Influence = 1
	g = newGame(t, config)
	var total float64
	for _, p := range g.Transition(0) {
		total += p
	}
	assert.InDelta(t, 1, total, 1e-12)
}

func TestNew_PayoffRange(t *testing.T) {
	config := DefaultConfig()
	config.MainPayoffRange = [2]float64{-3, -2}
	g := newGame(t, config)
	for _, row := range g.MainPayoffs(1) {
		for _, x := range row {
			assert.True(t, x >= -3 && x <= -2, "%v outside range", x)
		}
	}
}

func TestGame_Tree(t *testing.T) {
	root := newGame(t, DefaultConfig()).Root()
	assert.Equal(t, 63, tree.CountNodes(root))
	assert.Equal(t, 32, tree.CountTerminalNodes(root))
	assert.Equal(t, 8, tree.CountSubgames(root))
}

func TestGame_Build(t *testing.T) {
	g, err := tree.NewBuilder().Build(newGame(t, DefaultConfig()).Root())
	require.NoError(t, err)

	for _, p := range []game.Player{game.Player1, game.Player2} {
		assert.Equal(t, 19, g.Treeplex(p).NumSequences())
		assert.Equal(t, 9, g.Treeplex(p).NumInfosets())
	}
	assert.Equal(t, 32, g.NumPayoffEntries())
	assert.Equal(t, 8, g.NumSubgames())

	var mass float64
	for _, e := range g.PayoffMatrix().Entries() {
		mass += e.ChanceFactor
	}
	// Every pair of main and subgame actions reaches one subgame.
	assert.InDelta(t, 16, mass, 1e-9)
}

func TestGame_SingleSubgame(t *testing.T) {
	config := DefaultConfig()
	config.SpecifySubgames = false
	g, err := tree.NewBuilder().Build(newGame(t, config).Root())
	require.NoError(t, err)

	assert.Equal(t, 1, g.NumSubgames())
	free := 0
	for _, sg := range g.Subgames(game.Player1) {
		if sg.IsFree() {
			free++
		}
	}
	// Only the leader's main decision stays outside.
	assert.Equal(t, 1, free)
}

func TestGame_Resolve(t *testing.T) {
	g, err := tree.NewBuilder().Build(newGame(t, DefaultConfig()).Root())
	require.NoError(t, err)

	bp := strategy.UniformSequenceForm(g.Treeplex(game.Player1))
	result, err := sse.NewResolver(g, bp, sse.DefaultParams(), lpsolver.New()).Resolve(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.ObjectiveValues, 8)
}
