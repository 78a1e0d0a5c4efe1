// Package kuhn implements the game tree of Kuhn poker.
//
// Each player antes one chip and is dealt one of three cards. The leader
// (player 0) checks or bets, and the follower (player 1) then checks or
// bets; a check followed by a bet gives the leader a final check (fold) or
// bet (call). NewSubgameGame additionally tags everything after the
// leader's first action with that action, splitting the game into two
// subgames.
package kuhn

import (
	"fmt"

	"github.com/lingchunkai/SafeSearchSSE/tree"
)

const chance = -1

// Card is one of the three cards in the deck.
type Card int

const (
	Jack Card = iota
	Queen
	King
)

const cardNames = "JQK"

// String implements fmt.Stringer.
func (c Card) String() string {
	return cardNames[c : c+1]
}

// History symbols. A deal is recorded as Deal, a player action as Check
// or Bet. Index i of a player node is Check for 0 and Bet for 1.
const (
	Deal  = 'r'
	Check = 'c'
	Bet   = 'b'
)

var actions = [...]byte{Check, Bet}

// outcome describes how a terminal betting sequence is settled. At a fold
// the player who would act next wins the stake.
type outcome struct {
	showdown bool
	stake    float64
}

var outcomes = map[string]outcome{
	"cc":  {showdown: true, stake: 1},
	"cbc": {showdown: false, stake: 1},
	"cbb": {showdown: true, stake: 2},
	"bc":  {showdown: false, stake: 1},
	"bb":  {showdown: true, stake: 2},
}

// PokerNode implements tree.GameTreeNode for Kuhn poker.
type PokerNode struct {
	cards    [2]Card
	history  string
	subgames bool

	children []PokerNode
}

// NewGame returns the root of an untagged Kuhn poker tree.
func NewGame() *PokerNode {
	return &PokerNode{}
}

// NewSubgameGame returns the root of a Kuhn poker tree in which the
// leader's first action leads into one of two subgames.
func NewSubgameGame() *PokerNode {
	return &PokerNode{subgames: true}
}

// String implements fmt.Stringer.
func (k *PokerNode) String() string {
	return fmt.Sprintf("Player %d's turn. History: %5s [Cards: P0 - %s, P1 - %s]",
		k.Player(), k.history, k.cards[0], k.cards[1])
}

// numDealt returns how many cards have been dealt so far.
func (k *PokerNode) numDealt() int {
	if len(k.history) < 2 {
		return len(k.history)
	}

	return 2
}

// betting returns the players' actions so far.
func (k *PokerNode) betting() string {
	return k.history[k.numDealt():]
}

// Type implements tree.GameTreeNode.
func (k *PokerNode) Type() tree.NodeType {
	switch {
	case k.numDealt() < 2:
		return tree.ChanceNode
	case k.IsTerminal():
		return tree.TerminalNode
	}

	return tree.PlayerNode
}

// IsTerminal reports whether the betting is over.
func (k *PokerNode) IsTerminal() bool {
	_, ok := outcomes[k.betting()]
	return k.numDealt() == 2 && ok
}

// Player implements tree.GameTreeNode. At terminal nodes it is the player
// who would act next.
func (k *PokerNode) Player() int {
	if k.numDealt() < 2 {
		return chance
	}

	return len(k.betting()) % 2
}

// Close implements tree.GameTreeNode.
func (k *PokerNode) Close() {
	k.children = nil
}

// NumChildren implements tree.GameTreeNode.
func (k *PokerNode) NumChildren() int {
	k.ensureChildren()
	return len(k.children)
}

// GetChild implements tree.GameTreeNode.
func (k *PokerNode) GetChild(i int) tree.GameTreeNode {
	k.ensureChildren()
	return &k.children[i]
}

// GetChildProbability implements tree.GameTreeNode. Every remaining card
// is equally likely to be dealt.
func (k *PokerNode) GetChildProbability(i int) float64 {
	k.ensureChildren()
	return 1.0 / float64(len(k.children))
}

// ActionName implements tree.ActionNamer.
func (k *PokerNode) ActionName(i int) string {
	if k.numDealt() < 2 {
		return fmt.Sprintf("deal-%d", i)
	}

	if actions[i] == Check {
		return "check"
	}

	return "bet"
}

// Subgame implements tree.SubgameNode. The key is the leader's first action.
func (k *PokerNode) Subgame() (string, bool) {
	b := k.betting()
	if !k.subgames || k.numDealt() < 2 || len(b) == 0 || k.IsTerminal() {
		return "", false
	}

	return b[:1], true
}

// Utility implements tree.GameTreeNode.
func (k *PokerNode) Utility(player int) float64 {
	o, ok := outcomes[k.betting()]
	if !ok || k.numDealt() < 2 {
		panic("utility of non-terminal history: " + k.history)
	}

	won := k.Player() == player
	if o.showdown {
		won = k.cards[player] > k.cards[1-player]
	}

	if won {
		return o.stake
	}

	return -o.stake
}

type pokerInfoSet string

// Key implements tree.InfoSet.
func (p pokerInfoSet) Key() string {
	return string(p)
}

// InfoSet implements tree.GameTreeNode. A player observes their own card
// and the public history.
func (k *PokerNode) InfoSet(player int) tree.InfoSet {
	return pokerInfoSet(k.cards[player].String() + "-" + k.history)
}

func (k *PokerNode) ensureChildren() {
	if k.children != nil {
		return
	}

	dealt := k.numDealt()
	if dealt < 2 {
		for _, c := range []Card{Jack, Queen, King} {
			if dealt == 1 && c == k.cards[0] {
				continue
			}

			child := k.child(Deal)
			child.cards[dealt] = c
			k.children = append(k.children, child)
		}
		return
	}

	if k.IsTerminal() {
		k.children = []PokerNode{}
		return
	}

	for _, a := range actions {
		k.children = append(k.children, k.child(a))
	}
}

func (k *PokerNode) child(symbol byte) PokerNode {
	return PokerNode{
		cards:    k.cards,
		history:  k.history + string(symbol),
		subgames: k.subgames,
	}
}
