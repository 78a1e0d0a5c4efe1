package sse

import (
	"math"

	"github.com/golang/glog"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Allowed violation when checking that the blueprint meets its own bounds.
const boundCheckTolerance = 1e-7

const noHead = -1

// GameBuilder cuts a game into per-subgame bounded problems.
//
// Walking each treeplex top down from the empty sequence, the first infoset
// labeled with a subgame on a path is a head of that subgame; every sequence
// at or beneath a head belongs to it. The bounded problem for subgame k
// keeps the infosets labeled k, rescales the leaves by the leader's blueprint
// probability of reaching the subgame, and constrains the follower's value
// at each head with the bounds computed from the blueprint.
type GameBuilder struct {
	game          *game.ExtensiveFormGame
	followerTools *treeplex.Tools
	leaderTools   *treeplex.Tools
	blueprintBr   *BlueprintBr

	followerBounds []ValueBound

	followerHeadsPerSubgame [][]int
	leaderHeadsPerSubgame   [][]int

	// Head infoset of the subgame containing each sequence, or noHead.
	followerSeqToHead []int
	leaderSeqToHead   []int
}

// NewGameBuilder computes the follower bounds and indexes the subgame heads
// of both players.
func NewGameBuilder(g *game.ExtensiveFormGame, followerTools, leaderTools *treeplex.Tools, bbr *BlueprintBr, params Params) *GameBuilder {
	b := &GameBuilder{
		game:          g,
		followerTools: followerTools,
		leaderTools:   leaderTools,
		blueprintBr:   bbr,
	}

	b.followerHeadsPerSubgame, b.followerSeqToHead = findSubgameHeads(g, game.Player2, followerTools)
	b.leaderHeadsPerSubgame, b.leaderSeqToHead = findSubgameHeads(g, game.Player1, leaderTools)

	bounds := NewBoundsGenerator(g, followerTools, bbr, params.SplittingRatio, params.GiftFactor)
	b.followerBounds = bounds.FollowerBounds()
	return b
}

// FollowerBounds returns the bound of every follower infoset.
func (b *GameBuilder) FollowerBounds() []ValueBound {
	return b.followerBounds
}

// FollowerHeads returns the follower head infosets of a subgame.
func (b *GameBuilder) FollowerHeads(subgame int) []int {
	return b.followerHeadsPerSubgame[subgame]
}

// LeaderHeads returns the leader head infosets of a subgame.
func (b *GameBuilder) LeaderHeads(subgame int) []int {
	return b.leaderHeadsPerSubgame[subgame]
}

// findSubgameHeads walks the treeplex of player p top down through free
// infosets and stops at the first subgame infoset on each path.
func findSubgameHeads(g *game.ExtensiveFormGame, p game.Player, tools *treeplex.Tools) ([][]int, []int) {
	tp := g.Treeplex(p)
	headsPerSubgame := make([][]int, g.NumSubgames())
	seqToHead := filledInts(tp.NumSequences(), noHead)

	stack := []int{tp.EmptySequence()}
	for len(stack) > 0 {
		seq := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		start, end := tools.SeqToInfosetRange(seq)
		for i := start; i < end; i++ {
			k, ok := g.Subgame(p, i).Index()
			if !ok {
				is := tp.Infoset(i)
				for child := is.StartSequence; child <= is.EndSequence; child++ {
					stack = append(stack, child)
				}
				continue
			}

			headsPerSubgame[k] = append(headsPerSubgame[k], i)
			lo, hi := tools.SeqsUnderInfoset(i)
			for desc := lo; desc <= hi; desc++ {
				seqToHead[desc] = i
			}
		}
	}

	return headsPerSubgame, seqToHead
}

// BoundedProblem builds the bounded problem of one subgame together with
// the mappers relating it to the full game and a feasible witness: the
// blueprint restricted to the subgame, in skinny sequence form, for the
// leader and the follower.
//
// It panics if the blueprint does not itself satisfy the bounds.
func (b *GameBuilder) BoundedProblem(subgame int) (*BoundedProblem, *GameMapper, []float64, []float64) {
	assert.That(subgame >= 0 && subgame < b.game.NumSubgames(),
		"subgame %d out of range [0, %d)", subgame, b.game.NumSubgames())

	followerTp, followerMapper := b.skinnyTreeplex(subgame, game.Player2)
	leaderTp, leaderMapper := b.skinnyTreeplex(subgame, game.Player1)
	mapper := &GameMapper{Leader: leaderMapper, Follower: followerMapper}

	pm := b.skinnyPayoffMatrix(leaderMapper, followerMapper)
	skinny := game.New(leaderTp, followerTp, pm, nil, nil)

	var bounds []HeadBound
	for _, head := range b.followerHeadsPerSubgame[subgame] {
		bounds = append(bounds, HeadBound{
			Infoset: followerMapper.InfosetToSkinnyInfoset(head),
			Bound:   b.followerBounds[head],
		})
	}

	problem := NewBoundedProblem(skinny, b.inputMass(subgame), bounds, b.leavesWithinTrunk(skinny, followerMapper))
	glog.V(1).Infof("Subgame %d: %d leader and %d follower sequences, %d leaves (%d on trunk), input mass %v",
		subgame, leaderTp.NumSequences(), followerTp.NumSequences(),
		pm.Len(), len(problem.LeavesWithinTrunk), problem.InputMass)

	feasibleLeader := b.mappedBlueprint(leaderTp, leaderMapper,
		strategy.BehavioralFromSequenceForm(b.blueprintBr.LeaderBlueprint()))
	feasibleFollower := b.mappedBlueprint(followerTp, followerMapper,
		b.blueprintBr.FollowerBehavioral())
	checkBlueprintBounds(problem, feasibleLeader)

	return problem, mapper, feasibleLeader.Entries(), feasibleFollower.Entries()
}

func (b *GameBuilder) skinnyTreeplex(subgame int, p game.Player) (*treeplex.Treeplex, *TreeplexMapper) {
	tp := b.game.Treeplex(p)
	relevant := make([]bool, tp.NumInfosets())
	for i, sg := range b.game.Subgames(p) {
		k, ok := sg.Index()
		relevant[i] = ok && k == subgame
	}

	m := NewTreeplexMapper(tp, relevant)
	return BuildSkinnyTreeplex(tp, m), m
}

// skinnyPayoffMatrix keeps the leaves with a sequence inside the subgame.
// The leader's blueprint probability of reaching the subgame is folded into
// the chance factor. The follower's is not: the bounds apply before it.
func (b *GameBuilder) skinnyPayoffMatrix(leaderMapper, followerMapper *TreeplexMapper) *game.PayoffMatrix {
	leaderTp := b.game.Treeplex(game.Player1)
	leaderBp := b.blueprintBr.LeaderBlueprint()

	var entries []game.Entry
	for i, e := range b.game.PayoffMatrix().Entries() {
		leaderIn := leaderMapper.IsSequenceMapped(e.SeqPl1)
		followerIn := followerMapper.IsSequenceMapped(e.SeqPl2)

		switch {
		case leaderIn && followerIn:
			head := b.leaderSeqToHead[e.SeqPl1]
			assert.That(head != noHead, "leader sequence %d in a subgame has no head", e.SeqPl1)
			reach := leaderBp.At(leaderTp.Infoset(head).ParentSequence)
			entries = append(entries, game.Entry{
				SeqPl1:       leaderMapper.SeqToSkinnySeq(e.SeqPl1),
				SeqPl2:       followerMapper.SeqToSkinnySeq(e.SeqPl2),
				ChanceFactor: e.ChanceFactor * reach,
				PayoffPl1:    e.PayoffPl1,
				PayoffPl2:    e.PayoffPl2,
			})
		case leaderIn:
			assert.Failf("payoff entry %d (%d, %d) has only its leader sequence inside the subgame",
				i, e.SeqPl1, e.SeqPl2)
		case followerIn:
			// The leader acted only outside the subgame; its whole blueprint
			// probability of the leaf goes into chance.
			entries = append(entries, game.Entry{
				SeqPl1:       leaderMapper.SkinnyEmptySequence(),
				SeqPl2:       followerMapper.SeqToSkinnySeq(e.SeqPl2),
				ChanceFactor: e.ChanceFactor * leaderBp.At(e.SeqPl1),
				PayoffPl1:    e.PayoffPl1,
				PayoffPl2:    e.PayoffPl2,
			})
		}
	}

	return game.NewPayoffMatrix(entries)
}

// inputMass is the probability, under both blueprints and chance, of
// reaching a leaf of the subgame.
func (b *GameBuilder) inputMass(subgame int) float64 {
	inSubgame := func(p game.Player, head int) bool {
		if head == noHead {
			return false
		}
		k, ok := b.game.Subgame(p, head).Index()
		return ok && k == subgame
	}

	leaderBp := b.blueprintBr.LeaderBlueprint()
	followerBp := b.blueprintBr.FollowerSequence()
	var mass float64
	for _, e := range b.game.PayoffMatrix().Entries() {
		if inSubgame(game.Player2, b.followerSeqToHead[e.SeqPl2]) ||
			inSubgame(game.Player1, b.leaderSeqToHead[e.SeqPl1]) {
			mass += followerBp.At(e.SeqPl2) * leaderBp.At(e.SeqPl1) * e.ChanceFactor
		}
	}

	return mass
}

// leavesWithinTrunk lists the skinny leaves the follower's blueprint
// response leads into, by whether it plays the parent of the head above.
func (b *GameBuilder) leavesWithinTrunk(skinny *game.ExtensiveFormGame, followerMapper *TreeplexMapper) []int {
	followerTp := b.game.Treeplex(game.Player2)
	followerBp := b.blueprintBr.FollowerSequence()

	var leaves []int
	for i, e := range skinny.PayoffMatrix().Entries() {
		seq := followerMapper.SkinnySeqToSeq(e.SeqPl2)
		head := b.followerSeqToHead[seq]
		assert.That(head != noHead, "follower sequence %d in a subgame has no head", seq)
		if followerBp.At(followerTp.Infoset(head).ParentSequence) > 0.5 {
			leaves = append(leaves, i)
		}
	}

	return leaves
}

// mappedBlueprint restricts a behavioral strategy to a skinny treeplex and
// returns it in sequence form.
func (b *GameBuilder) mappedBlueprint(tp *treeplex.Treeplex, m *TreeplexMapper, beh strategy.Behavioral) strategy.SequenceForm {
	v := treeplex.ConstantVector(tp, 1)
	for seq := 0; seq < tp.EmptySequence(); seq++ {
		v.Set(seq, beh.At(m.SkinnySeqToSeq(seq)))
	}

	return strategy.SequenceFormFromBehavioral(strategy.NewBehavioral(v))
}

// checkBlueprintBounds computes the follower's best values in the skinny
// game against the leader's blueprint and asserts that each head bound holds.
func checkBlueprintBounds(p *BoundedProblem, leader strategy.SequenceForm) {
	values := p.Game.Gradient(game.Player2, leader).Entries()
	tp := p.Game.Treeplex(game.Player2)
	infosetValues := make([]float64, tp.NumInfosets())
	for i, is := range tp.Infosets() {
		best := math.Inf(-1)
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			best = math.Max(best, values[seq])
		}
		infosetValues[i] = best
		values[is.ParentSequence] += best
	}

	for _, hb := range p.Bounds {
		v := infosetValues[hb.Infoset]
		assert.That(hb.Bound.Satisfied(v, boundCheckTolerance),
			"blueprint value %v at skinny infoset %d violates %v", v, hb.Infoset, hb.Bound)
	}
}
