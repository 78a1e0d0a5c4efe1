package sse

import (
	"math"

	"github.com/golang/glog"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Follower values within this distance of the best are ties, which are
// broken in favor of the leader.
const tieTolerance = 1e-7

// BlueprintBr is the follower's Stackelberg best response to a fixed leader
// blueprint: at every infoset the follower maximizes its own value and
// breaks near-ties by the leader's value.
//
// Besides the response itself it keeps, for every follower sequence, the
// value of that sequence to each player under the blueprint and the
// response below it. Both value vectors live on the follower's treeplex.
type BlueprintBr struct {
	game            *game.ExtensiveFormGame
	leaderBlueprint strategy.SequenceForm

	followerSequence   strategy.SequenceForm
	followerBehavioral strategy.Behavioral
	// Chosen sequence at each follower infoset.
	followerBehavioralIndex []int

	followerSeqValues treeplex.Vector
	leaderSeqValues   treeplex.Vector
}

// NewBlueprintBr computes the follower's response to leaderBlueprint.
func NewBlueprintBr(g *game.ExtensiveFormGame, leaderBlueprint strategy.SequenceForm) *BlueprintBr {
	followerValues := g.GradientForPayoffs(game.Player2, game.Player2, leaderBlueprint)
	leaderValues := g.GradientForPayoffs(game.Player2, game.Player1, leaderBlueprint)
	fv, lv := followerValues.Entries(), leaderValues.Entries()

	tp := g.Treeplex(game.Player2)
	br := treeplex.ZeroVector(tp)
	index := make([]int, tp.NumInfosets())
	numTies := 0
	for i, is := range tp.Infosets() {
		bestValue := math.Inf(-1)
		best := is.StartSequence
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			if bestValue < fv[seq] {
				bestValue = fv[seq]
				best = seq
			}
		}

		choice := best
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			if math.Abs(bestValue-fv[seq]) <= tieTolerance && lv[seq] > lv[choice] {
				choice = seq
			}
		}

		if choice != best {
			numTies++
		}

		index[i] = choice
		br.Set(choice, 1)
		fv[is.ParentSequence] += fv[choice]
		lv[is.ParentSequence] += lv[choice]
	}

	br.Set(tp.EmptySequence(), 1)
	glog.V(2).Infof("Follower best response: %d ties broken toward the leader", numTies)

	behavioral := strategy.NewBehavioral(br)
	return &BlueprintBr{
		game:                    g,
		leaderBlueprint:         leaderBlueprint,
		followerSequence:        strategy.SequenceFormFromBehavioral(behavioral),
		followerBehavioral:      behavioral,
		followerBehavioralIndex: index,
		followerSeqValues:       followerValues,
		leaderSeqValues:         leaderValues,
	}
}

// Game returns the game the response was computed in.
func (b *BlueprintBr) Game() *game.ExtensiveFormGame {
	return b.game
}

// LeaderBlueprint returns the leader strategy being responded to.
func (b *BlueprintBr) LeaderBlueprint() strategy.SequenceForm {
	return b.leaderBlueprint
}

// FollowerSequence returns the follower's response in sequence form.
func (b *BlueprintBr) FollowerSequence() strategy.SequenceForm {
	return b.followerSequence
}

// FollowerBehavioral returns the follower's response in behavioral form.
func (b *BlueprintBr) FollowerBehavioral() strategy.Behavioral {
	return b.followerBehavioral
}

// FollowerBehavioralIndex returns the sequence chosen at a follower infoset.
func (b *BlueprintBr) FollowerBehavioralIndex(infoset int) int {
	return b.followerBehavioralIndex[infoset]
}

// FollowerSeqValues returns the follower's value of every follower sequence.
func (b *BlueprintBr) FollowerSeqValues() treeplex.Vector {
	return b.followerSeqValues
}

// FollowerSeqValue returns the follower's value of seq.
func (b *BlueprintBr) FollowerSeqValue(seq int) float64 {
	return b.followerSeqValues.At(seq)
}

// LeaderSeqValues returns the leader's value of every follower sequence.
func (b *BlueprintBr) LeaderSeqValues() treeplex.Vector {
	return b.leaderSeqValues
}

// LeaderSeqValue returns the leader's value of follower sequence seq.
func (b *BlueprintBr) LeaderSeqValue(seq int) float64 {
	return b.leaderSeqValues.At(seq)
}

// FollowerInfosetValue returns the follower's value at a follower infoset
// when it plays the recorded response there.
func (b *BlueprintBr) FollowerInfosetValue(infoset int) float64 {
	return b.FollowerSeqValue(b.followerBehavioralIndex[infoset])
}

// LeaderValue is the leader's expected payoff against the response.
func (b *BlueprintBr) LeaderValue() float64 {
	return b.LeaderSeqValue(b.game.Treeplex(game.Player2).EmptySequence())
}

// FollowerValue is the follower's expected payoff under the response.
func (b *BlueprintBr) FollowerValue() float64 {
	return b.FollowerSeqValue(b.game.Treeplex(game.Player2).EmptySequence())
}
