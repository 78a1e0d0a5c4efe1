package sse

import (
	"math"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Tolerance used when checking that blueprint values respect the bounds
// handed down from above.
const boundsEpsilon = 1e-7

type boundsItem struct {
	infoset bool
	trunk   bool
	id      int
	value   float64
}

// BoundsGenerator distributes the follower's blueprint values over the
// heads of the subgames so that any subgame solution meeting the bounds
// keeps the follower on the blueprint's best-response trunk.
//
// The trunk is the set of follower sequences its blueprint best response
// plays. A trunk infoset at a subgame head gets a lower bound: the
// follower must not be worse off there than under the blueprint. An
// off-trunk head gets an upper bound so that deviating does not become
// attractive. Any slack between the blueprint value and the bound coming
// from above is a gift, a fraction of which (the gift factor) is shared
// uniformly among the child infosets.
type BoundsGenerator struct {
	blueprintBr    *BlueprintBr
	tools          *treeplex.Tools
	subgames       []game.SubgameID
	splittingRatio float64
	giftFactor     float64
}

// NewBoundsGenerator prepares to compute bounds for the follower infosets
// of g. The splitting ratio places each trunk threshold between the
// second-best and best action values; it must lie in [0, 1].
func NewBoundsGenerator(g *game.ExtensiveFormGame, followerTools *treeplex.Tools, bbr *BlueprintBr, splittingRatio, giftFactor float64) *BoundsGenerator {
	assert.That(splittingRatio >= 0 && splittingRatio <= 1,
		"splitting ratio %v not in [0, 1]", splittingRatio)
	assert.That(followerTools.Treeplex() == g.Treeplex(game.Player2),
		"bounds require the follower treeplex tools")

	return &BoundsGenerator{
		blueprintBr:    bbr,
		tools:          followerTools,
		subgames:       g.Subgames(game.Player2),
		splittingRatio: splittingRatio,
		giftFactor:     giftFactor,
	}
}

// FollowerBounds returns one bound per follower infoset. Only subgame heads
// carry a bound; every other infoset gets NoBound.
func (b *BoundsGenerator) FollowerBounds() []ValueBound {
	tp := b.tools.Treeplex()
	result := make([]ValueBound, tp.NumInfosets())

	stack := []boundsItem{{trunk: true, id: tp.EmptySequence(), value: math.Inf(-1)}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case item.infoset && item.trunk:
			stack = b.expandTrunkInfoset(stack, result, item.id, item.value)
		case item.infoset:
			stack = b.expandInfoset(stack, result, item.id, item.value)
		default:
			stack = b.expandSeq(stack, item.id, item.trunk, item.value)
		}
	}

	return result
}

// expandSeq shares the gift at seq among the infosets following it. On the
// trunk the gift is how far the blueprint exceeds the lower bound and it is
// taken out of the children; off the trunk it is how far the blueprint
// exceeds the upper bound and it is handed back to them.
func (b *BoundsGenerator) expandSeq(stack []boundsItem, seq int, trunk bool, bound float64) []boundsItem {
	bp := b.blueprintBr.FollowerSeqValue(seq)
	var gift float64
	if trunk {
		assert.That(approxGE(bp, bound), "trunk sequence %d blueprint value %v below bound %v", seq, bp, bound)
		gift = b.scaleGift(math.Max(0, bp-bound))
	} else {
		assert.That(approxGE(bound, bp), "sequence %d blueprint value %v above bound %v", seq, bp, bound)
		gift = b.scaleGift(math.Min(0, bound-bp))
	}

	start, end := b.tools.SeqToInfosetRange(seq)
	if start == end {
		return stack
	}

	spread := gift / float64(end-start)
	if trunk {
		spread = -spread
	}

	for i := end - 1; i >= start; i-- {
		stack = append(stack, boundsItem{
			infoset: true,
			trunk:   trunk,
			id:      i,
			value:   b.blueprintBr.FollowerInfosetValue(i) + spread,
		})
	}

	return stack
}

// A zero gift factor disables gifts even when the slack is infinite.
func (b *BoundsGenerator) scaleGift(slack float64) float64 {
	if b.giftFactor == 0 {
		return 0
	}

	return slack * b.giftFactor
}

func (b *BoundsGenerator) expandTrunkInfoset(stack []boundsItem, result []ValueBound, infoset int, value float64) []boundsItem {
	if _, ok := b.subgames[infoset].Index(); ok {
		result[infoset] = NewLowerBound(value)
		return stack
	}

	threshold := math.Max(b.splitThreshold(infoset), value)
	is := b.tools.Treeplex().Infoset(infoset)
	chosen := b.blueprintBr.FollowerBehavioralIndex(infoset)
	for seq := is.EndSequence; seq >= is.StartSequence; seq-- {
		stack = append(stack, boundsItem{trunk: seq == chosen, id: seq, value: threshold})
	}

	return stack
}

func (b *BoundsGenerator) expandInfoset(stack []boundsItem, result []ValueBound, infoset int, value float64) []boundsItem {
	if _, ok := b.subgames[infoset].Index(); ok {
		result[infoset] = NewUpperBound(value)
		return stack
	}

	is := b.tools.Treeplex().Infoset(infoset)
	for seq := is.EndSequence; seq >= is.StartSequence; seq-- {
		stack = append(stack, boundsItem{id: seq, value: value})
	}

	return stack
}

// splitThreshold places a value between the second-best and best action
// values at an infoset. With a single action there is no second best and
// the threshold imposes nothing.
func (b *BoundsGenerator) splitThreshold(infoset int) float64 {
	is := b.tools.Treeplex().Infoset(infoset)
	if is.NumSequences() < 2 {
		return math.Inf(-1)
	}

	best, bestValue := -1, math.Inf(-1)
	for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
		if v := b.blueprintBr.FollowerSeqValue(seq); bestValue < v {
			best, bestValue = seq, v
		}
	}

	second := math.Inf(-1)
	for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
		if seq != best {
			second = math.Max(second, b.blueprintBr.FollowerSeqValue(seq))
		}
	}

	if math.IsInf(second, -1) {
		return second
	}

	threshold := second + (bestValue-second)*b.splittingRatio
	glog.V(3).Infof("Infoset %d: best %v, second %v, threshold %v", infoset, bestValue, second, threshold)
	return threshold
}

func approxGE(a, b float64) bool {
	return a >= b ||
		scalar.EqualWithinAbsOrRel(a, b, boundsEpsilon, boundsEpsilon) ||
		scalar.EqualWithinULP(a, b, 4)
}
