// Package blueprint computes leader blueprints by sequence-form
// counterfactual regret minimization over a game.ExtensiveFormGame.
//
// Both players update simultaneously on every iteration. In a zero-sum game
// the average strategies converge to a Nash equilibrium, and the leader's
// average is then also a Stackelberg strategy.
package blueprint

import (
	"github.com/golang/glog"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
)

type CFR struct {
	game   *game.ExtensiveFormGame
	params DiscountParams

	iter int

	tables [2]*regretTable
}

func New(g *game.ExtensiveFormGame, params DiscountParams) *CFR {
	return &CFR{
		game:   g,
		params: params,
		iter:   1,
		tables: [2]*regretTable{
			newRegretTable(g.Treeplex(game.Player1)),
			newRegretTable(g.Treeplex(game.Player2)),
		},
	}
}

// Iter returns the number of the next iteration, starting from 1.
func (c *CFR) Iter() int {
	return c.iter
}

// RunIteration performs one round of regret updates for both players and
// returns the leader's expected payoff under the current strategies.
func (c *CFR) RunIteration() float64 {
	x1 := c.tables[game.Player1].current()
	x2 := c.tables[game.Player2].current()

	ev := c.update(game.Player1, x2)
	c.update(game.Player2, x1)

	c.nextStrategyProfile(x1, x2)
	return ev
}

// Run performs nIter iterations and returns the average strategies.
func (c *CFR) Run(nIter int) (leader, follower strategy.SequenceForm) {
	var expectedValue float64
	for i := 1; i <= nIter; i++ {
		expectedValue += c.RunIteration()
		if nIter >= 10 && i%(nIter/10) == 0 {
			glog.V(1).Infof("[iter=%d] Expected leader value: %.4f", c.iter-1, expectedValue/float64(i))
		}
	}

	return c.AverageStrategy(game.Player1), c.AverageStrategy(game.Player2)
}

// AverageStrategy returns the average strategy of player p so far.
func (c *CFR) AverageStrategy(p game.Player) strategy.SequenceForm {
	return c.tables[p].average(c.params.PurificationThreshold)
}

// CurrentStrategy returns the strategy player p plays on the next iteration.
func (c *CFR) CurrentStrategy(p game.Player) strategy.SequenceForm {
	return c.tables[p].current()
}

// update accumulates the regrets of player p against the opponent's
// sequence-form strategy and returns p's expected payoff. The gradient is
// freshly allocated, so its entries serve as the scratch buffer of
// counterfactual values.
func (c *CFR) update(p game.Player, opponent strategy.SequenceForm) float64 {
	grad := c.game.Gradient(p, opponent)
	return c.tables[p].addRegret(grad.Entries())
}

func (c *CFR) nextStrategyProfile(x1, x2 strategy.SequenceForm) {
	discountPos, discountNeg, discountSum := c.params.GetDiscountFactors(c.iter)
	c.tables[game.Player1].nextStrategy(x1, discountPos, discountNeg, discountSum)
	c.tables[game.Player2].nextStrategy(x2, discountPos, discountNeg, discountSum)
	c.iter++
}
