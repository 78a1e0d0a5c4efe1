// Package fixtures provides small hand-built treeplexes and games shared
// by tests across packages.
package fixtures

import (
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// KuhnTreeplexPl1 is the first player's treeplex in Kuhn poker: for each of
// the three cards, check/bet at the root and, after check-bet, fold/call.
func KuhnTreeplexPl1() *treeplex.Treeplex {
	return treeplex.New(treeplex.Player1, 13, []treeplex.Infoset{
		{ParentSequence: 6, StartSequence: 0, EndSequence: 1},
		{ParentSequence: 8, StartSequence: 2, EndSequence: 3},
		{ParentSequence: 10, StartSequence: 4, EndSequence: 5},
		{ParentSequence: 12, StartSequence: 6, EndSequence: 7},
		{ParentSequence: 12, StartSequence: 8, EndSequence: 9},
		{ParentSequence: 12, StartSequence: 10, EndSequence: 11},
	})
}

// KuhnTreeplexPl2 is the second player's treeplex in Kuhn poker: six
// infosets (card x observed action), each directly under the empty sequence.
func KuhnTreeplexPl2() *treeplex.Treeplex {
	return treeplex.New(treeplex.Player2, 13, []treeplex.Infoset{
		{ParentSequence: 12, StartSequence: 0, EndSequence: 1},
		{ParentSequence: 12, StartSequence: 2, EndSequence: 3},
		{ParentSequence: 12, StartSequence: 4, EndSequence: 5},
		{ParentSequence: 12, StartSequence: 6, EndSequence: 7},
		{ParentSequence: 12, StartSequence: 8, EndSequence: 9},
		{ParentSequence: 12, StartSequence: 10, EndSequence: 11},
	})
}

// ChainTreeplex is a degenerate treeplex of three single-action infosets
// stacked on top of each other.
func ChainTreeplex() *treeplex.Treeplex {
	return treeplex.New(treeplex.Player1, 4, []treeplex.Infoset{
		{ParentSequence: 1, StartSequence: 0, EndSequence: 0},
		{ParentSequence: 2, StartSequence: 1, EndSequence: 1},
		{ParentSequence: 3, StartSequence: 2, EndSequence: 2},
	})
}

// SingleInfosetTreeplex has one infoset with n actions under the empty sequence.
func SingleInfosetTreeplex(player treeplex.Player, n int) *treeplex.Treeplex {
	return treeplex.New(player, n+1, []treeplex.Infoset{
		{ParentSequence: n, StartSequence: 0, EndSequence: n - 1},
	})
}
