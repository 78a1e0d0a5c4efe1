package sse

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/lingchunkai/SafeSearchSSE/game"
)

// Tolerance when checking a solution's follower strategy and slacks.
const solutionTolerance = 1e-6

// Solver finds a leader strategy for a bounded problem.
//
// The feasible witness (the blueprint restricted to the subgame, in skinny
// sequence form) satisfies every constraint of the problem; solvers may use
// it as a starting point or a fallback.
type Solver interface {
	Solve(ctx context.Context, p *BoundedProblem, feasibleLeader, feasibleFollower []float64) (*Solution, error)
}

// SolverConfig holds options shared by solvers.
type SolverConfig struct {
	// Zero means no limit.
	TimeLimit time.Duration `yaml:"time_limit"`
}

// Context returns ctx bounded by the time limit, if any.
func (c SolverConfig) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.TimeLimit <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.TimeLimit)
}

// Solution is a solver's answer to a bounded problem. Strategies are
// sequence-form vectors over the skinny treeplexes.
type Solution struct {
	LeaderStrategy   []float64
	FollowerStrategy []float64

	// Joint reach probability of each leaf on the trunk, in the order of
	// the problem's LeavesWithinTrunk.
	LeafProbabilities []float64
	ObjectiveValue    float64

	// Follower's regret for each skinny sequence.
	FollowerSlack []float64
	// Follower's value at each skinny infoset.
	FollowerValue []float64
}

// Verify checks that the follower strategy is pure and that the follower
// has no regret for the sequences it plays.
func (s *Solution) Verify(p *BoundedProblem) error {
	followerTp := p.Game.Treeplex(game.Player2)
	leaderTp := p.Game.Treeplex(game.Player1)
	if len(s.LeaderStrategy) != leaderTp.NumSequences() {
		return errors.Errorf("leader strategy has %d entries, expected %d",
			len(s.LeaderStrategy), leaderTp.NumSequences())
	}
	if len(s.FollowerStrategy) != followerTp.NumSequences() {
		return errors.Errorf("follower strategy has %d entries, expected %d",
			len(s.FollowerStrategy), followerTp.NumSequences())
	}

	for seq, x := range s.FollowerStrategy {
		if math.Abs(x) > solutionTolerance && math.Abs(x-1) > solutionTolerance {
			return errors.Errorf("follower strategy is not pure: sequence %d has mass %v", seq, x)
		}
	}

	if s.FollowerSlack == nil {
		return nil
	}

	if len(s.FollowerSlack) != followerTp.NumSequences() {
		return errors.Errorf("follower slack has %d entries, expected %d",
			len(s.FollowerSlack), followerTp.NumSequences())
	}

	for seq, x := range s.FollowerStrategy {
		if math.Abs(x-1) <= solutionTolerance && math.Abs(s.FollowerSlack[seq]) > solutionTolerance {
			return errors.Errorf("follower plays sequence %d with slack %v", seq, s.FollowerSlack[seq])
		}
	}

	return nil
}
