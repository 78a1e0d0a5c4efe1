package sse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/internal/fixtures"
)

func TestBlueprintBr_OneSubgame(t *testing.T) {
	g := fixtures.OneSubgameGame()
	bbr := sse.NewBlueprintBr(g, uniformLeader(g))

	assert.Equal(t, []float64{0, 1, 1, 0, 1, 0, 1}, bbr.FollowerSequence().Entries())
	assert.Equal(t, []float64{0, 1, 1, 0, 1, 0, 1}, bbr.FollowerBehavioral().Entries())
	assert.Equal(t, fixtures.SeqF, bbr.FollowerBehavioralIndex(0))
	assert.Equal(t, fixtures.SeqX, bbr.FollowerBehavioralIndex(1))
	assert.Equal(t, fixtures.SeqXAfterB, bbr.FollowerBehavioralIndex(2))

	assert.InDelta(t, 0.75, bbr.FollowerInfosetValue(0), 1e-12)
	assert.InDelta(t, 0.75, bbr.FollowerSeqValue(fixtures.SeqX), 1e-12)
	assert.InDelta(t, 0.5, bbr.FollowerSeqValue(fixtures.SeqY), 1e-12)
	assert.InDelta(t, 1.25, bbr.FollowerValue(), 1e-12)

	assert.InDelta(t, 0.75, bbr.LeaderSeqValue(fixtures.SeqE), 1e-12)
	assert.InDelta(t, 0.75, bbr.LeaderSeqValue(fixtures.SeqX), 1e-12)
	assert.InDelta(t, 1.25, bbr.LeaderValue(), 1e-12)
}

func TestBlueprintBr_TieBreaking(t *testing.T) {
	testCases := []struct {
		name     string
		follower [][]float64
		expected int
	}{
		{"exact tie", [][]float64{{0, 0}}, 1},
		{"within window", [][]float64{{0, -5e-8}}, 1},
		{"outside window", [][]float64{{0, -1e-6}}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := fixtures.MatrixGame([][]float64{{1, 5}}, tc.follower)
			bbr := sse.NewBlueprintBr(g, uniformLeader(g))
			if got := bbr.FollowerBehavioralIndex(0); got != tc.expected {
				t.Errorf("expected sequence %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestBlueprintBr_TieKeepsFirstLeaderMaximizer(t *testing.T) {
	g := fixtures.MatrixGame([][]float64{{2, 2, 2}}, [][]float64{{0, 0, 0}})
	bbr := sse.NewBlueprintBr(g, uniformLeader(g))
	assert.Equal(t, 0, bbr.FollowerBehavioralIndex(0))
	assert.InDelta(t, 2, bbr.LeaderValue(), 1e-12)
}

func TestBlueprintBr_RockPaperScissors(t *testing.T) {
	g := fixtures.RockPaperScissors()
	bbr := sse.NewBlueprintBr(g, uniformLeader(g))

	assert.Equal(t, []float64{1, 0, 0, 1}, bbr.FollowerSequence().Entries())
	assert.InDelta(t, 0, bbr.FollowerValue(), 1e-12)
	assert.InDelta(t, 0, bbr.LeaderValue(), 1e-12)
}
