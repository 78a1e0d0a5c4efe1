package sse

import (
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// HeadBound constrains the follower's value at a head infoset of a
// bounded problem, identified by its skinny id.
type HeadBound struct {
	Infoset int
	Bound   ValueBound
}

// BoundedProblem is a subgame cut out of the full game, ready to be handed
// to a Solver. Its treeplexes are skinny: they contain only the infosets of
// the subgame, with the heads attached to a fresh empty sequence.
type BoundedProblem struct {
	Game          *game.ExtensiveFormGame
	GameTools     *game.Tools
	FollowerTools *treeplex.Tools

	// Probability of reaching the subgame when both players follow the
	// blueprint. Mass leaks elsewhere through chance, so this is usually
	// below one.
	InputMass float64

	Bounds []HeadBound

	// Indices of the payoff entries reached by the follower's blueprint
	// response above the subgame.
	LeavesWithinTrunk []int
}

// NewBoundedProblem indexes g and wraps it with its bounds.
func NewBoundedProblem(g *game.ExtensiveFormGame, inputMass float64, bounds []HeadBound, leavesWithinTrunk []int) *BoundedProblem {
	tools := game.NewTools(g)
	return &BoundedProblem{
		Game:              g,
		GameTools:         tools,
		FollowerTools:     tools.TreeplexTools(game.Player2),
		InputMass:         inputMass,
		Bounds:            bounds,
		LeavesWithinTrunk: leavesWithinTrunk,
	}
}

// GameMapper holds the treeplex mappers of both players for one subgame.
type GameMapper struct {
	Leader   *TreeplexMapper
	Follower *TreeplexMapper
}

// Mapper returns the mapper of player p.
func (m *GameMapper) Mapper(p game.Player) *TreeplexMapper {
	if p == game.Player1 {
		return m.Leader
	}

	return m.Follower
}
