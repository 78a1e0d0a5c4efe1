package blueprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingchunkai/SafeSearchSSE/blueprint"
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/fixtures"
	"github.com/lingchunkai/SafeSearchSSE/kuhn"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/tree"
)

// exploitability returns the best response values of both players
// against the other's strategy. In a zero-sum game their sum is the
// Nash gap.
func exploitability(g *game.ExtensiveFormGame, leader, follower strategy.SequenceForm) (float64, float64) {
	_, leaderBr := strategy.SequenceFormBestResponse(g.Gradient(game.Player1, follower))
	_, followerBr := strategy.SequenceFormBestResponse(g.Gradient(game.Player2, leader))
	return leaderBr, followerBr
}

func TestCFR_RockPaperScissorsStaysUniform(t *testing.T) {
	g := fixtures.RockPaperScissors()
	leader, follower := blueprint.New(g, blueprint.DiscountParams{}).Run(100)

	uniform := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3, 1}
	assert.InDeltaSlice(t, uniform, leader.Entries(), 1e-9)
	assert.InDeltaSlice(t, uniform, follower.Entries(), 1e-9)
}

func TestCFR_MatrixGame(t *testing.T) {
	leaderPayoffs := [][]float64{{2, -1}, {-1, 1}}
	followerPayoffs := [][]float64{{-2, 1}, {1, -1}}
	g := fixtures.MatrixGame(leaderPayoffs, followerPayoffs)

	testCases := []struct {
		name   string
		params blueprint.DiscountParams
	}{
		{"vanilla", blueprint.DiscountParams{}},
		{"cfr+", blueprint.DiscountParams{UseRegretMatchingPlus: true, LinearWeighting: true}},
		{"discounted", blueprint.DiscountParams{DiscountAlpha: 1.5, DiscountBeta: 0, DiscountGamma: 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			leader, follower := blueprint.New(g, tc.params).Run(10000)
			leaderBr, followerBr := exploitability(g, leader, follower)
			assert.InDelta(t, 0.2, -followerBr, 0.02)
			assert.InDelta(t, 0.2, leaderBr, 0.02)
			assert.InDelta(t, 0.4, leader.At(0), 0.05)
		})
	}
}

func TestCFR_KuhnPoker(t *testing.T) {
	g, err := tree.NewBuilder().Build(kuhn.NewGame())
	require.NoError(t, err)

	cfr := blueprint.New(g, blueprint.DiscountParams{})
	leader, follower := cfr.Run(20000)
	assert.Equal(t, 20001, cfr.Iter())

	leaderBr, followerBr := exploitability(g, leader, follower)
	gap := leaderBr + followerBr
	t.Logf("Nash gap after %d iterations: %v", cfr.Iter()-1, gap)
	assert.GreaterOrEqual(t, gap, -1e-9)
	assert.Less(t, gap, 0.02)

	// The game value of Kuhn poker for the first player is -1/18.
	assert.InDelta(t, -1.0/18, -followerBr, 0.02)
}

func TestCFR_Purification(t *testing.T) {
	g, err := tree.NewBuilder().Build(kuhn.NewGame())
	require.NoError(t, err)

	params := blueprint.DiscountParams{PurificationThreshold: 0.2}
	cfr := blueprint.New(g, params)
	leader, _ := cfr.Run(1000)

	b := strategy.BehavioralFromSequenceForm(leader)
	for _, is := range g.Treeplex(game.Player1).Infosets() {
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			p := b.At(seq)
			if p != 0 && p < 0.2 {
				// Only allowed when every action was below the threshold.
				for s := is.StartSequence; s <= is.EndSequence; s++ {
					assert.Less(t, b.At(s), 0.2)
				}
			}
		}
	}
}

func TestCFR_CurrentStrategyStartsUniform(t *testing.T) {
	g := fixtures.RockPaperScissors()
	cfr := blueprint.New(g, blueprint.DiscountParams{})
	assert.Equal(t, strategy.UniformSequenceForm(g.Treeplex(game.Player1)).Entries(),
		cfr.CurrentStrategy(game.Player1).Entries())
	assert.Equal(t, 1, cfr.Iter())
}

func TestCFR_RunIterationReturnsLeaderValue(t *testing.T) {
	g, err := tree.NewBuilder().Build(kuhn.NewGame())
	require.NoError(t, err)

	cfr := blueprint.New(g, blueprint.DiscountParams{UseRegretMatchingPlus: true})
	for i := 0; i < 5; i++ {
		x1 := cfr.CurrentStrategy(game.Player1)
		x2 := cfr.CurrentStrategy(game.Player2)
		grad := g.Gradient(game.Player1, x2).Entries()

		ev := cfr.RunIteration()
		assert.InDelta(t, g.EvaluatePayoffs(x1, x2, game.Player1), ev, 1e-9)
		// Regret updates must not write back into the game's payoffs.
		assert.Equal(t, grad, g.Gradient(game.Player1, x2).Entries())
	}
}

func BenchmarkCFR_KuhnPoker(b *testing.B) {
	g, err := tree.NewBuilder().Build(kuhn.NewGame())
	if err != nil {
		b.Fatal(err)
	}

	cfr := blueprint.New(g, blueprint.DiscountParams{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfr.RunIteration()
	}
}
