// Package treeplex implements the sequence-form encoding of one player's
// decision tree in an imperfect-information extensive-form game.
//
// Sequences are numbered 0..n-1 with the empty sequence last. Information
// sets own a contiguous, inclusive range of sequences and are stored
// bottom-up: every infoset appears before the infoset owning its parent
// sequence, so a single pass over Infosets() visits every subtree before
// its root.
package treeplex

import (
	"fmt"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
)

// Player identifies one of the two players. By convention Player1 is
// the leader and Player2 the follower.
type Player int

const (
	Player1 Player = iota
	Player2
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}

	return Player1
}

// String implements fmt.Stringer.
func (p Player) String() string {
	switch p {
	case Player1:
		return "Player1"
	case Player2:
		return "Player2"
	}

	return fmt.Sprintf("Player(%d)", int(p))
}

// Infoset is an information set: the sequences [StartSequence, EndSequence]
// are reached by taking one action at it after playing ParentSequence.
type Infoset struct {
	ParentSequence int
	StartSequence  int
	EndSequence    int
}

// NewInfoset creates an Infoset, checking that its range is not empty.
func NewInfoset(parent, start, end int) Infoset {
	assert.That(start <= end, "infoset range [%d, %d] is empty", start, end)
	return Infoset{
		ParentSequence: parent,
		StartSequence:  start,
		EndSequence:    end,
	}
}

// NumSequences returns the number of actions available at the infoset.
func (is Infoset) NumSequences() int {
	return is.EndSequence - is.StartSequence + 1
}

// Contains reports whether seq is one of the infoset's sequences.
func (is Infoset) Contains(seq int) bool {
	return seq >= is.StartSequence && seq <= is.EndSequence
}

// Treeplex is an immutable sequence-form decision space for one player.
// It may be shared read-only between any number of strategies, vectors
// and algorithm objects.
type Treeplex struct {
	player       Player
	numSequences int
	infosets     []Infoset
}

// New creates a Treeplex. The infosets slice is owned by the Treeplex
// after this call.
func New(player Player, numSequences int, infosets []Infoset) *Treeplex {
	assert.That(numSequences > 0, "treeplex must contain the empty sequence")
	return &Treeplex{
		player:       player,
		numSequences: numSequences,
		infosets:     infosets,
	}
}

// Player returns the player whose decisions the treeplex encodes.
func (tp *Treeplex) Player() Player {
	return tp.player
}

// NumSequences returns the number of sequences, including the empty sequence.
func (tp *Treeplex) NumSequences() int {
	return tp.numSequences
}

// NumInfosets returns the number of information sets.
func (tp *Treeplex) NumInfosets() int {
	return len(tp.infosets)
}

// EmptySequence returns the id of the empty sequence.
func (tp *Treeplex) EmptySequence() int {
	return tp.numSequences - 1
}

// Infosets returns the information sets in bottom-up order.
// The returned slice must not be modified.
func (tp *Treeplex) Infosets() []Infoset {
	return tp.infosets
}

// Infoset returns the ith information set.
func (tp *Treeplex) Infoset(i int) Infoset {
	return tp.infosets[i]
}

// Validate checks the structural invariants of the treeplex: every
// non-empty sequence belongs to exactly one infoset, every parent sequence
// exists and lies above the sequences it leads to.
func (tp *Treeplex) Validate() {
	owner := make([]int, tp.numSequences)
	for i := range owner {
		owner[i] = -1
	}

	for i, is := range tp.infosets {
		assert.That(is.StartSequence >= 0 && is.EndSequence < tp.EmptySequence(),
			"%v infoset %d range [%d, %d] out of bounds (%d sequences)",
			tp.player, i, is.StartSequence, is.EndSequence, tp.numSequences)
		assert.That(is.StartSequence <= is.EndSequence,
			"%v infoset %d has empty range", tp.player, i)
		assert.That(is.ParentSequence > is.EndSequence && is.ParentSequence < tp.numSequences,
			"%v infoset %d parent %d does not lie above [%d, %d]",
			tp.player, i, is.ParentSequence, is.StartSequence, is.EndSequence)
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			assert.That(owner[seq] == -1, "%v sequence %d owned by infosets %d and %d",
				tp.player, seq, owner[seq], i)
			owner[seq] = i
		}
	}

	for seq := 0; seq < tp.EmptySequence(); seq++ {
		assert.That(owner[seq] != -1, "%v sequence %d has no infoset", tp.player, seq)
	}

	for i, is := range tp.infosets {
		if is.ParentSequence == tp.EmptySequence() {
			continue
		}

		assert.That(owner[is.ParentSequence] > i,
			"%v infoset %d stored after the infoset %d owning its parent sequence",
			tp.player, i, owner[is.ParentSequence])
	}
}

// String implements fmt.Stringer.
func (tp *Treeplex) String() string {
	return fmt.Sprintf("Treeplex{%v, sequences: %d, infosets: %d}",
		tp.player, tp.numSequences, len(tp.infosets))
}
