package fixtures

import (
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// RockPaperScissors is the sequence-form game of rock-paper-scissors with
// actions ordered rock, paper, scissors for both players.
func RockPaperScissors() *game.ExtensiveFormGame {
	tp1 := SingleInfosetTreeplex(treeplex.Player1, 3)
	tp2 := SingleInfosetTreeplex(treeplex.Player2, 3)

	// payoff[a1][a2] for the leader.
	payoff := [3][3]float64{
		{0, -1, 1},
		{1, 0, -1},
		{-1, 1, 0},
	}

	var entries []game.Entry
	for a1 := 0; a1 < 3; a1++ {
		for a2 := 0; a2 < 3; a2++ {
			entries = append(entries, game.Entry{
				SeqPl1:       a1,
				SeqPl2:       a2,
				ChanceFactor: 1,
				PayoffPl1:    payoff[a1][a2],
				PayoffPl2:    -payoff[a1][a2],
			})
		}
	}

	return game.New(tp1, tp2, game.NewPayoffMatrix(entries), nil, nil)
}

// MatrixGame builds a one-shot game in which the leader picks a row and the
// follower a column of the given payoff tables.
func MatrixGame(leader, follower [][]float64) *game.ExtensiveFormGame {
	rows, cols := len(leader), len(leader[0])
	tp1 := SingleInfosetTreeplex(treeplex.Player1, rows)
	tp2 := SingleInfosetTreeplex(treeplex.Player2, cols)

	var entries []game.Entry
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			entries = append(entries, game.Entry{
				SeqPl1:       i,
				SeqPl2:       j,
				ChanceFactor: 1,
				PayoffPl1:    leader[i][j],
				PayoffPl2:    follower[i][j],
			})
		}
	}

	return game.New(tp1, tp2, game.NewPayoffMatrix(entries), nil, nil)
}

// Sequence ids of OneSubgameGame.
const (
	// Leader.
	SeqC = 0
	SeqD = 1
	SeqA = 2
	SeqB = 3
	// Follower.
	SeqE       = 0
	SeqF       = 1
	SeqX       = 2
	SeqY       = 3
	SeqXAfterB = 4
	SeqYAfterB = 5
)

// OneSubgameGame is a small sequential game with a single subgame.
//
// The leader picks a or b, which the follower observes. After b the
// follower picks x' or y' and the game ends. After a the follower picks y,
// ending the game, or x, entering subgame 0: the leader picks c or d and
// the follower, without observing it, picks e or f.
//
// Against the uniform leader the follower plays x then f. The subgame's
// head carries a lower bound of 0.625 on the follower's value with the
// default splitting ratio and gift factor.
func OneSubgameGame() *game.ExtensiveFormGame {
	leader := treeplex.New(treeplex.Player1, 5, []treeplex.Infoset{
		{ParentSequence: SeqA, StartSequence: SeqC, EndSequence: SeqD},
		{ParentSequence: 4, StartSequence: SeqA, EndSequence: SeqB},
	})
	follower := treeplex.New(treeplex.Player2, 7, []treeplex.Infoset{
		{ParentSequence: SeqX, StartSequence: SeqE, EndSequence: SeqF},
		{ParentSequence: 6, StartSequence: SeqX, EndSequence: SeqY},
		{ParentSequence: 6, StartSequence: SeqXAfterB, EndSequence: SeqYAfterB},
	})

	entries := []game.Entry{
		{SeqPl1: SeqC, SeqPl2: SeqE, ChanceFactor: 1, PayoffPl1: 3, PayoffPl2: 1},
		{SeqPl1: SeqC, SeqPl2: SeqF, ChanceFactor: 1, PayoffPl1: 2, PayoffPl2: 0},
		{SeqPl1: SeqD, SeqPl2: SeqE, ChanceFactor: 1, PayoffPl1: 0, PayoffPl2: 0},
		{SeqPl1: SeqD, SeqPl2: SeqF, ChanceFactor: 1, PayoffPl1: 1, PayoffPl2: 3},
		{SeqPl1: SeqA, SeqPl2: SeqY, ChanceFactor: 1, PayoffPl1: 0, PayoffPl2: 1},
		{SeqPl1: SeqB, SeqPl2: SeqXAfterB, ChanceFactor: 1, PayoffPl1: 1, PayoffPl2: 1},
		{SeqPl1: SeqB, SeqPl2: SeqYAfterB, ChanceFactor: 1, PayoffPl1: 0, PayoffPl2: 0},
	}

	return game.New(leader, follower, game.NewPayoffMatrix(entries),
		[]game.SubgameID{game.Subgame(0), game.Free},
		[]game.SubgameID{game.Subgame(0), game.Free, game.Free})
}
