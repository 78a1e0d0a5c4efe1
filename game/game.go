// Package game implements a two-player extensive-form game in sequence form:
// one treeplex per player, a sparse payoff matrix over sequence pairs, and a
// subgame label for every infoset.
//
// Player1 is the leader and Player2 the follower. Producers of a game must
// keep the leaves of one subgame contiguous in the payoff matrix, and if one
// player's sequence at a leaf lies in subgame k the other player's sequence
// must be in subgame k or free.
package game

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Player is re-exported from treeplex for convenience.
type Player = treeplex.Player

const (
	Player1 = treeplex.Player1
	Player2 = treeplex.Player2
)

// ExtensiveFormGame is immutable once constructed and safe for concurrent use.
type ExtensiveFormGame struct {
	treeplexes  [2]*treeplex.Treeplex
	payoffs     *PayoffMatrix
	subgames    [2][]SubgameID
	numSubgames int
}

// New creates a game. A nil or empty subgame slice marks every infoset of
// that player as Free.
func New(tpPl1, tpPl2 *treeplex.Treeplex, payoffs *PayoffMatrix,
	subgamesPl1, subgamesPl2 []SubgameID) *ExtensiveFormGame {
	assert.That(tpPl1.Player() == Player1, "first treeplex belongs to %v", tpPl1.Player())
	assert.That(tpPl2.Player() == Player2, "second treeplex belongs to %v", tpPl2.Player())

	g := &ExtensiveFormGame{
		treeplexes: [2]*treeplex.Treeplex{tpPl1, tpPl2},
		payoffs:    payoffs,
		subgames: [2][]SubgameID{
			subgameLabels(tpPl1, subgamesPl1),
			subgameLabels(tpPl2, subgamesPl2),
		},
	}

	for _, labels := range g.subgames {
		for _, s := range labels {
			if k, ok := s.Index(); ok && k+1 > g.numSubgames {
				g.numSubgames = k + 1
			}
		}
	}

	return g
}

func subgameLabels(tp *treeplex.Treeplex, labels []SubgameID) []SubgameID {
	if len(labels) == 0 {
		labels = make([]SubgameID, tp.NumInfosets())
		for i := range labels {
			labels[i] = Free
		}
	}

	assert.That(len(labels) == tp.NumInfosets(),
		"%v has %d infosets but %d subgame labels", tp.Player(), tp.NumInfosets(), len(labels))
	return labels
}

// Validate checks that both treeplexes are well formed and that every
// payoff entry refers to existing sequences.
func (g *ExtensiveFormGame) Validate() {
	g.treeplexes[Player1].Validate()
	g.treeplexes[Player2].Validate()

	n1 := g.treeplexes[Player1].NumSequences()
	n2 := g.treeplexes[Player2].NumSequences()
	for i, e := range g.payoffs.Entries() {
		assert.That(e.SeqPl1 >= 0 && e.SeqPl1 < n1 && e.SeqPl2 >= 0 && e.SeqPl2 < n2,
			"payoff entry %d (%d, %d) out of range", i, e.SeqPl1, e.SeqPl2)
	}
}

// Treeplex returns the treeplex of player p.
func (g *ExtensiveFormGame) Treeplex(p Player) *treeplex.Treeplex {
	return g.treeplexes[p]
}

// PayoffMatrix returns the flattened payoff matrix.
func (g *ExtensiveFormGame) PayoffMatrix() *PayoffMatrix {
	return g.payoffs
}

// NumPayoffEntries returns the number of leaves in sequence form.
func (g *ExtensiveFormGame) NumPayoffEntries() int {
	return g.payoffs.Len()
}

// PayoffEntry returns the ith payoff entry.
func (g *ExtensiveFormGame) PayoffEntry(i int) Entry {
	return g.payoffs.Entry(i)
}

// Subgame returns the subgame label of an infoset of player p.
func (g *ExtensiveFormGame) Subgame(p Player, infoset int) SubgameID {
	return g.subgames[p][infoset]
}

// Subgames returns the labels of all infosets of player p.
func (g *ExtensiveFormGame) Subgames(p Player) []SubgameID {
	return g.subgames[p]
}

// NumSubgames returns one more than the largest subgame index in use.
func (g *ExtensiveFormGame) NumSubgames() int {
	return g.numSubgames
}

// Gradient returns the gradient of player target's own payoff with respect
// to its sequence-form strategy, given the opponent's strategy sf.
func (g *ExtensiveFormGame) Gradient(target Player, sf strategy.SequenceForm) treeplex.Vector {
	return g.GradientForPayoffs(target, target, sf)
}

// GradientForPayoffs returns the gradient of payoffPlayer's payoff with
// respect to target's sequence-form strategy, given the opponent's strategy
// sf. With payoff matrices A1, A2 and strategies x1, x2 this is A_j x2 for
// target Player1 and A_j^T x1 for target Player2.
func (g *ExtensiveFormGame) GradientForPayoffs(target, payoffPlayer Player, sf strategy.SequenceForm) treeplex.Vector {
	assert.That(sf.Treeplex().Player() == target.Opponent(),
		"gradient for %v requires a strategy of %v, got %v",
		target, target.Opponent(), sf.Treeplex().Player())

	grad := treeplex.ZeroVector(g.Treeplex(target))
	out := grad.Entries()
	x := sf.Entries()
	for _, e := range g.payoffs.Entries() {
		payoff := e.Payoff(payoffPlayer)
		if target == Player1 {
			out[e.SeqPl1] += e.ChanceFactor * x[e.SeqPl2] * payoff
		} else {
			out[e.SeqPl2] += e.ChanceFactor * x[e.SeqPl1] * payoff
		}
	}

	return grad
}

// EvaluatePayoffs returns the expected payoff of player when the leader
// plays sfPl1 and the follower plays sfPl2.
func (g *ExtensiveFormGame) EvaluatePayoffs(sfPl1, sfPl2 strategy.SequenceForm, player Player) float64 {
	if player == Player1 {
		return g.Gradient(Player1, sfPl2).Dot(sfPl1.Vector)
	}

	return g.Gradient(Player2, sfPl1).Dot(sfPl2.Vector)
}

// ZeroSum returns a copy of the game in which the opponent of player
// receives the negation of player's payoff.
func (g *ExtensiveFormGame) ZeroSum(player Player) *ExtensiveFormGame {
	entries := make([]Entry, g.payoffs.Len())
	copy(entries, g.payoffs.Entries())
	for i := range entries {
		if player == Player1 {
			entries[i].PayoffPl2 = -entries[i].PayoffPl1
		} else {
			entries[i].PayoffPl1 = -entries[i].PayoffPl2
		}
	}

	zs := *g
	zs.payoffs = NewPayoffMatrix(entries)
	return &zs
}

// IsZeroSum reports whether every leaf pays the players opposite amounts,
// up to floating point error.
func (g *ExtensiveFormGame) IsZeroSum() bool {
	for _, e := range g.payoffs.Entries() {
		if !scalar.EqualWithinAbs(e.PayoffPl1, -e.PayoffPl2, epsilon) &&
			!scalar.EqualWithinULP(e.PayoffPl1, -e.PayoffPl2, 4) {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer.
func (g *ExtensiveFormGame) String() string {
	return fmt.Sprintf("ExtensiveFormGame{%v, %v, leaves: %d, subgames: %d}",
		g.treeplexes[Player1], g.treeplexes[Player2], g.payoffs.Len(), g.numSubgames)
}
