// Package tree converts game trees into sequence-form games.
//
// Games are described by implementing GameTreeNode. A Builder walks the
// tree once, collects the information sets and sequences of both players
// and the chance-weighted payoffs at the leaves, and produces a
// game.ExtensiveFormGame whose treeplexes obey the bottom-up layout.
package tree

// NodeType is the type of node in an extensive-form game tree.
type NodeType int

const (
	ChanceNode NodeType = iota
	TerminalNode
	PlayerNode
)

// InfoSet is the observable game history from the point of view of one player.
type InfoSet interface {
	// Key uniquely identifies the information set among those of its player.
	//
	// It may be an arbitrary string of bytes and does not need to be
	// human-readable.
	Key() string
}

// GameTreeNode is the interface for a node in an extensive-form game tree.
//
// Child i of a player node is reached by that player's ith action; every
// node in one information set must offer the same actions in the same order.
// Player 0 is the leader and player 1 the follower.
type GameTreeNode interface {
	// NodeType returns the type of game node.
	Type() NodeType

	// Release resources held by the children of this node. Children
	// previously returned by GetChild remain valid.
	Close()

	// The number of direct children of this node.
	NumChildren() int
	// Get the ith child of this node.
	GetChild(i int) GameTreeNode
	// Get the probability of the ith child of this node.
	// May only be called for nodes with Type == ChanceNode.
	GetChildProbability(i int) float64

	// Player returns this current node's acting player.
	// It may only be called for nodes with Type == PlayerNode.
	Player() int
	// InfoSet returns the information set for this node for the given player.
	InfoSet(player int) InfoSet
	// Utility returns this node's utility for the given player.
	// It must only be called for nodes with Type == TerminalNode.
	Utility(player int) float64
}

// SubgameNode is implemented by nodes that may belong to a subgame.
// Every descendant of a node in a subgame must belong to the same subgame.
type SubgameNode interface {
	// Subgame returns a key identifying the subgame containing the node,
	// or false if the node is not in a subgame.
	Subgame() (key string, ok bool)
}

// ActionNamer is implemented by nodes that can describe their actions.
type ActionNamer interface {
	// ActionName returns a human-readable name for the ith action.
	ActionName(i int) string
}
