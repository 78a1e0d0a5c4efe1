// Package rps implements rock-paper-scissors as a game tree: the leader
// picks a hand, then the follower picks a hand without seeing it.
package rps

import (
	"github.com/lingchunkai/SafeSearchSSE/tree"
)

type Hand int

const (
	Rock Hand = iota
	Paper
	Scissors
)

var handStr = [...]string{"rock", "paper", "scissors"}

func (h Hand) String() string {
	return handStr[h]
}

// Beats reports whether h wins against other.
func (h Hand) Beats(other Hand) bool {
	return (h+3-other)%3 == 1
}

const (
	LeaderInfoSet   = "leader"
	FollowerInfoSet = "follower"
)

// Node implements tree.GameTreeNode for rock-paper-scissors.
type Node struct {
	// Hands played so far.
	history []Hand
}

// NewGame returns the root of the game.
func NewGame() *Node {
	return &Node{}
}

// Type implements tree.GameTreeNode.
func (n *Node) Type() tree.NodeType {
	if len(n.history) == 2 {
		return tree.TerminalNode
	}

	return tree.PlayerNode
}

// Close implements tree.GameTreeNode.
func (n *Node) Close() {}

// NumChildren implements tree.GameTreeNode.
func (n *Node) NumChildren() int {
	if n.Type() == tree.TerminalNode {
		return 0
	}

	return len(handStr)
}

// GetChild implements tree.GameTreeNode.
func (n *Node) GetChild(i int) tree.GameTreeNode {
	history := make([]Hand, len(n.history), len(n.history)+1)
	copy(history, n.history)
	return &Node{history: append(history, Hand(i))}
}

// GetChildProbability implements tree.GameTreeNode.
func (n *Node) GetChildProbability(i int) float64 {
	panic("rock-paper-scissors has no chance nodes")
}

// Player implements tree.GameTreeNode.
func (n *Node) Player() int {
	return len(n.history)
}

// InfoSet implements tree.GameTreeNode. Each player has a single
// information set.
func (n *Node) InfoSet(player int) tree.InfoSet {
	if player == 0 {
		return infoSet(LeaderInfoSet)
	}

	return infoSet(FollowerInfoSet)
}

// Utility implements tree.GameTreeNode.
func (n *Node) Utility(player int) float64 {
	own, other := n.history[0], n.history[1]
	if player == 1 {
		own, other = other, own
	}

	switch {
	case own.Beats(other):
		return 1
	case other.Beats(own):
		return -1
	}

	return 0
}

// ActionName implements tree.ActionNamer.
func (n *Node) ActionName(i int) string {
	return Hand(i).String()
}

type infoSet string

func (s infoSet) Key() string {
	return string(s)
}
