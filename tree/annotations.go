package tree

import (
	"strconv"

	"github.com/lingchunkai/SafeSearchSSE/game"
)

// TreeplexAnnotations describes the infosets and sequences of one player's
// treeplex in terms of the game tree it was built from.
type TreeplexAnnotations struct {
	// Key of each infoset, by infoset id.
	InfosetKeys []string
	// Action names of each infoset, by infoset id and action index.
	ActionNames [][]string
	// Infoset and action index each sequence ends with, by sequence id.
	// Both are -1 for the empty sequence.
	SequenceInfosets []int
	SequenceActions  []int
}

// SequenceName describes a sequence by its last infoset and action.
func (a *TreeplexAnnotations) SequenceName(seq int) string {
	i := a.SequenceInfosets[seq]
	if i < 0 {
		return "<empty>"
	}

	action := a.SequenceActions[seq]
	name := a.ActionNames[i][action]
	if name == "" {
		name = strconv.Itoa(action)
	}

	return a.InfosetKeys[i] + ":" + name
}

// FindSequence returns the sequence taking the named action at the infoset
// with the given key.
func (a *TreeplexAnnotations) FindSequence(infosetKey, action string) (int, bool) {
	for seq := range a.SequenceInfosets {
		i := a.SequenceInfosets[seq]
		if i < 0 || a.InfosetKeys[i] != infosetKey {
			continue
		}
		if a.ActionNames[i][a.SequenceActions[seq]] == action ||
			strconv.Itoa(a.SequenceActions[seq]) == action {
			return seq, true
		}
	}

	return 0, false
}

// Annotations describes both treeplexes of a built game.
type Annotations struct {
	players [2]*TreeplexAnnotations
}

// Player returns the annotations of player p's treeplex.
func (a *Annotations) Player(p game.Player) *TreeplexAnnotations {
	return a.players[p]
}

func newAnnotations(players [2]*playerTreeplex, numberings [2]*numbering) *Annotations {
	ann := &Annotations{}
	for p, pt := range players {
		n := numberings[p]
		ta := &TreeplexAnnotations{
			InfosetKeys:      make([]string, len(pt.keys)),
			ActionNames:      make([][]string, len(pt.keys)),
			SequenceInfosets: make([]int, len(n.seqIDs)),
			SequenceActions:  make([]int, len(n.seqIDs)),
		}

		for i, id := range n.infosetIDs {
			ta.InfosetKeys[id] = pt.keys[i]
			ta.ActionNames[id] = pt.actionNames[i]
		}

		for s, id := range n.seqIDs {
			if s == emptySeq {
				ta.SequenceInfosets[id] = -1
				ta.SequenceActions[id] = -1
				continue
			}
			ta.SequenceInfosets[id] = n.infosetIDs[s.infoset]
			ta.SequenceActions[id] = s.action
		}

		ann.players[p] = ta
	}

	return ann
}
