package game

import (
	"sort"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

type entryRange struct {
	lo, hi int
}

// Tools indexes the payoff matrix by each player's sequences so that all
// leaves at or under a sequence or infoset can be listed without a scan.
//
// For player p, PayoffsSorted(p) lists payoff entry indices ordered by p's
// sequence id. The leaves ending at sequence s are PayoffsSorted(p)[lo:hi]
// where lo, hi = PayoffsRangeSorted(p, s). Since sequence ids under an
// infoset are contiguous, so are their leaves in this order.
type Tools struct {
	game               *ExtensiveFormGame
	treeplexTools      [2]*treeplex.Tools
	payoffsSorted      [2][]int
	payoffsRangeSorted [2][]entryRange
}

// NewTools precomputes the leaf indices of g together with the treeplex
// tools of both players.
func NewTools(g *ExtensiveFormGame) *Tools {
	t := &Tools{game: g}
	for _, p := range []Player{Player1, Player2} {
		t.treeplexTools[p] = treeplex.NewTools(g.Treeplex(p))
		t.precomputePayoffsSorted(p)
		t.precomputePayoffsRangeSorted(p)
	}

	return t
}

// Game returns the game these tools index.
func (t *Tools) Game() *ExtensiveFormGame {
	return t.game
}

// TreeplexTools returns the treeplex tools of player p.
func (t *Tools) TreeplexTools(p Player) *treeplex.Tools {
	return t.treeplexTools[p]
}

// PayoffsSorted returns payoff entry indices sorted by player p's sequence.
func (t *Tools) PayoffsSorted(p Player) []int {
	return t.payoffsSorted[p]
}

// PayoffsRangeSorted returns the half-open range into PayoffsSorted(p)
// holding the leaves that end at seq.
func (t *Tools) PayoffsRangeSorted(p Player, seq int) (lo, hi int) {
	r := t.payoffsRangeSorted[p][seq]
	return r.lo, r.hi
}

// LeafIndicesAtOrUnderInfoset returns the payoff entry indices of every leaf
// reached through infoset of player p.
func (t *Tools) LeafIndicesAtOrUnderInfoset(p Player, infoset int) []int {
	start, end := t.treeplexTools[p].SeqsUnderInfoset(infoset)
	lo := t.payoffsRangeSorted[p][start].lo
	hi := t.payoffsRangeSorted[p][end].hi
	return t.payoffsSorted[p][lo:hi]
}

// LeafIndicesAtSequence returns the payoff entry indices of the leaves whose
// last action for player p is seq.
func (t *Tools) LeafIndicesAtSequence(p Player, seq int) []int {
	r := t.payoffsRangeSorted[p][seq]
	return t.payoffsSorted[p][r.lo:r.hi]
}

func (t *Tools) precomputePayoffsSorted(p Player) {
	pm := t.game.PayoffMatrix()
	indices := make([]int, pm.Len())
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(i, j int) bool {
		return pm.Entry(indices[i]).Seq(p) < pm.Entry(indices[j]).Seq(p)
	})

	t.payoffsSorted[p] = indices
}

func (t *Tools) precomputePayoffsRangeSorted(p Player) {
	pm := t.game.PayoffMatrix()
	sorted := t.payoffsSorted[p]
	numSequences := t.game.Treeplex(p).NumSequences()
	ranges := make([]entryRange, numSequences)

	cur := 0
	for seq := 0; seq < numSequences; seq++ {
		lo := cur
		for cur < len(sorted) {
			s := pm.Entry(sorted[cur]).Seq(p)
			assert.That(s >= seq, "%v payoff entry %d at sequence %d is out of order",
				p, sorted[cur], s)
			if s > seq {
				break
			}
			cur++
		}

		ranges[seq] = entryRange{lo, cur}
	}

	assert.That(cur == len(sorted), "%v payoff entries refer to sequences beyond %d",
		p, numSequences)
	t.payoffsRangeSorted[p] = ranges
}
