package sse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/fixtures"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

func followerBounds(g *game.ExtensiveFormGame, ratio, gift float64) []sse.ValueBound {
	bbr := sse.NewBlueprintBr(g, uniformLeader(g))
	tools := treeplex.NewTools(g.Treeplex(game.Player2))
	return sse.NewBoundsGenerator(g, tools, bbr, ratio, gift).FollowerBounds()
}

func TestBounds_TrunkHead(t *testing.T) {
	testCases := []struct {
		ratio, gift float64
		expected    float64
	}{
		{0.5, 1.0, 0.625},
		{0.5, 0.0, 0.75},
		{1.0, 1.0, 0.75},
		{0.0, 1.0, 0.5},
		{0.0, 0.5, 0.625},
	}

	for _, tc := range testCases {
		bounds := followerBounds(fixtures.OneSubgameGame(), tc.ratio, tc.gift)
		require.Len(t, bounds, 3)
		assert.Equal(t, sse.LowerBound, bounds[0].Kind)
		assert.InDelta(t, tc.expected, bounds[0].Value, 1e-12,
			"ratio %v, gift %v", tc.ratio, tc.gift)
		assert.Equal(t, sse.NoBound, bounds[1].Kind)
		assert.Equal(t, sse.NoBound, bounds[2].Kind)
	}
}

func TestBounds_OffTrunkHead(t *testing.T) {
	// Make y worth more than entering the subgame.
	g := withPayoffs(fixtures.OneSubgameGame(), func(e *game.Entry) {
		if e.SeqPl2 == fixtures.SeqY {
			e.PayoffPl2 = 2
		}
	})

	bounds := followerBounds(g, 0.5, 1.0)
	assert.Equal(t, sse.UpperBound, bounds[0].Kind)
	assert.InDelta(t, 0.75, bounds[0].Value, 1e-12)
}

func TestBounds_NoSubgames(t *testing.T) {
	for _, b := range followerBounds(fixtures.RockPaperScissors(), 0.5, 1.0) {
		assert.Equal(t, sse.NoBound, b.Kind)
	}
}

func TestBounds_InvalidSplittingRatio(t *testing.T) {
	g := fixtures.OneSubgameGame()
	require.Panics(t, func() { followerBounds(g, 1.5, 1.0) })
	require.Panics(t, func() { followerBounds(g, -0.1, 1.0) })
}

func TestValueBound_Satisfied(t *testing.T) {
	assert.True(t, sse.NewLowerBound(1).Satisfied(1, 0))
	assert.True(t, sse.NewLowerBound(1).Satisfied(1-1e-8, 1e-7))
	assert.False(t, sse.NewLowerBound(1).Satisfied(0.9, 1e-7))
	assert.True(t, sse.NewUpperBound(1).Satisfied(0.5, 0))
	assert.False(t, sse.NewUpperBound(1).Satisfied(1.1, 1e-7))
	assert.True(t, sse.ValueBound{}.Satisfied(-1e300, 0))

	assert.Equal(t, "LowerBound(0.5)", sse.NewLowerBound(0.5).String())
	assert.Equal(t, "NoBound", sse.ValueBound{}.String())
}
