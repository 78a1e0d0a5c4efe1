package sse

import (
	"context"

	"github.com/lingchunkai/SafeSearchSSE/game"
)

// BlueprintSolver answers every problem with the feasible witness, so
// resolving with it reproduces the blueprint.
type BlueprintSolver struct{}

// Solve implements Solver.
func (BlueprintSolver) Solve(ctx context.Context, p *BoundedProblem, feasibleLeader, feasibleFollower []float64) (*Solution, error) {
	leader := append([]float64(nil), feasibleLeader...)
	follower := append([]float64(nil), feasibleFollower...)
	return &Solution{
		LeaderStrategy:   leader,
		FollowerStrategy: follower,
		ObjectiveValue:   TrunkObjective(p, leader, follower),
	}, nil
}

// TrunkObjective is the leader's expected payoff over the trunk leaves of p
// when the skinny strategies are played.
func TrunkObjective(p *BoundedProblem, leader, follower []float64) float64 {
	var total float64
	for _, i := range p.LeavesWithinTrunk {
		e := p.Game.PayoffEntry(i)
		total += e.ChanceFactor * e.Payoff(game.Player1) * leader[e.SeqPl1] * follower[e.SeqPl2]
	}

	return total
}
