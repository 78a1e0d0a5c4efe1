package sse_test

import (
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
)

// withPayoffs rebuilds g with every payoff entry passed through f.
func withPayoffs(g *game.ExtensiveFormGame, f func(e *game.Entry)) *game.ExtensiveFormGame {
	entries := append([]game.Entry(nil), g.PayoffMatrix().Entries()...)
	for i := range entries {
		f(&entries[i])
	}

	return game.New(g.Treeplex(game.Player1), g.Treeplex(game.Player2),
		game.NewPayoffMatrix(entries), g.Subgames(game.Player1), g.Subgames(game.Player2))
}

func uniformLeader(g *game.ExtensiveFormGame) strategy.SequenceForm {
	return strategy.UniformSequenceForm(g.Treeplex(game.Player1))
}
