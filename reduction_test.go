package sse_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/blueprint"
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/kuhn"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/synthetic"
	"github.com/lingchunkai/SafeSearchSSE/tree"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// reduction summarizes how the subgames of a game cover its leaves.
type reduction struct {
	// Leaves summed over all skinny payoff matrices.
	mapped int
	// Leaves of the full game whose sequences belong to no subgame.
	free int
	// Chance mass weighted by the leader's reach, over the skinny games and
	// over the covered leaves of the full game.
	skinnyMass, fullMass float64
}

// reduce cuts every subgame of g out under the given leader blueprint and
// checks the mappers and bounds on the way.
func reduce(t *testing.T, g *game.ExtensiveFormGame, leader strategy.SequenceForm, params sse.Params) reduction {
	t.Helper()

	bbr := sse.NewBlueprintBr(g, leader)
	b := sse.NewGameBuilder(g,
		treeplex.NewTools(g.Treeplex(game.Player2)),
		treeplex.NewTools(g.Treeplex(game.Player1)),
		bbr, params)

	players := []game.Player{game.Player1, game.Player2}
	owner := make(map[game.Player][]int)
	for _, p := range players {
		owner[p] = make([]int, g.Treeplex(p).NumSequences())
		for s := range owner[p] {
			owner[p][s] = -1
		}
	}

	var r reduction
	numHeads := 0
	for k := 0; k < g.NumSubgames(); k++ {
		problem, m, feasibleLeader, _ := b.BoundedProblem(k)
		numHeads += len(b.FollowerHeads(k))

		for _, p := range players {
			mp := m.Mapper(p)
			for s := 0; s < g.Treeplex(p).NumSequences(); s++ {
				if !mp.IsSequenceMapped(s) {
					continue
				}
				require.Equal(t, s, mp.SkinnySeqToSeq(mp.SeqToSkinnySeq(s)), "player %v sequence %d", p, s)
				require.Equal(t, -1, owner[p][s], "player %v sequence %d in subgames %d and %d", p, s, owner[p][s], k)
				owner[p][s] = k
			}
			for skinny := 0; skinny < mp.SkinnyEmptySequence(); skinny++ {
				require.Equal(t, skinny, mp.SeqToSkinnySeq(mp.SkinnySeqToSeq(skinny)), "player %v skinny sequence %d", p, skinny)
			}
			assert.Equal(t, problem.Game.Treeplex(p).NumSequences(), mp.NumSkinnySequences())
		}

		r.mapped += problem.Game.NumPayoffEntries()
		for _, e := range problem.Game.PayoffMatrix().Entries() {
			r.skinnyMass += e.ChanceFactor * feasibleLeader[e.SeqPl1]
		}
	}

	for _, e := range g.PayoffMatrix().Entries() {
		if owner[game.Player1][e.SeqPl1] == -1 && owner[game.Player2][e.SeqPl2] == -1 {
			r.free++
			continue
		}
		r.fullMass += e.ChanceFactor * leader.At(e.SeqPl1)
	}

	bounded := 0
	for i, bound := range b.FollowerBounds() {
		if bound.Kind != sse.NoBound {
			bounded++
		}
		assert.True(t, bound.Satisfied(bbr.FollowerInfosetValue(i), 1e-6),
			"follower infoset %d: %v against blueprint value %v", i, bound, bbr.FollowerInfosetValue(i))
	}
	assert.Equal(t, numHeads, bounded)

	return r
}

func TestGameBuilder_SyntheticReduction(t *testing.T) {
	paramSets := []sse.Params{
		{SplittingRatio: 0.5, GiftFactor: 1},
		{SplittingRatio: 0, GiftFactor: 1},
		{SplittingRatio: 1, GiftFactor: 0.5},
		{SplittingRatio: 0.5, GiftFactor: 0},
	}

	for seed := int64(1); seed <= 10; seed++ {
		sg, err := synthetic.New(synthetic.DefaultConfig(), seed)
		require.NoError(t, err)
		g, err := tree.NewBuilder().Build(sg.Root())
		require.NoError(t, err)

		cfrLeader, _ := blueprint.New(g, blueprint.DiscountParams{}).Run(200)
		leaders := map[string]strategy.SequenceForm{
			"uniform": uniformLeader(g),
			"cfr":     cfrLeader,
		}

		for name, leader := range leaders {
			for _, params := range paramSets {
				t.Run(fmt.Sprintf("seed=%d/%s/ratio=%v/gift=%v", seed, name, params.SplittingRatio, params.GiftFactor), func(t *testing.T) {
					r := reduce(t, g, leader, params)
					assert.Equal(t, g.NumPayoffEntries(), r.mapped+r.free)
					// Leader infosets reached below 1e-6 are played uniformly in the
					// witness, which moves at most that much mass.
					assert.InDelta(t, r.fullMass, r.skinnyMass, 1e-4)
				})
			}
		}
	}
}

// Kuhn poker's leader-free deals collapse onto a single skinny leaf, so the
// leaf count shrinks while the chance mass is kept.
func TestGameBuilder_KuhnReductionMergesLeaves(t *testing.T) {
	g, err := tree.NewBuilder().Build(kuhn.NewSubgameGame())
	require.NoError(t, err)
	require.Equal(t, 30, g.NumPayoffEntries())

	r := reduce(t, g, uniformLeader(g), sse.DefaultParams())
	assert.Equal(t, 0, r.free)
	assert.Equal(t, 21, r.mapped)
	assert.Less(t, r.mapped+r.free, g.NumPayoffEntries())
	assert.InDelta(t, r.fullMass, r.skinnyMass, 1e-9)
}
