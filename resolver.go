package sse

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Names of the vectors in Result.Artifacts.
const (
	BlueprintFollowerStrategy = "bp-follower-strategy"
	BlueprintFollowerValue    = "bp-follower-value"
	FullLeaderStrategy        = "full-leader-strategy"
	FullFollowerStrategy      = "full-follower-strategy"
	FullLeaderBrValues        = "full-leader-br-values"
	FullFollowerBrValues      = "full-follower-br-values"
)

// Payoffs are the expected payoffs of both players when the follower
// best responds to a leader strategy.
type Payoffs struct {
	Leader   float64
	Follower float64
}

// Result is the outcome of resolving every subgame of a game.
type Result struct {
	// Leader blueprint with every subgame replaced by its solution.
	LeaderStrategy strategy.SequenceForm

	Blueprint *BlueprintBr
	Refined   *BlueprintBr

	BlueprintPayoffs Payoffs
	RefinedPayoffs   Payoffs

	// Objective value reported by the solver for each subgame.
	ObjectiveValues []float64
}

// Artifacts returns the vectors worth persisting, keyed by name.
func (r *Result) Artifacts() map[string]treeplex.Vector {
	return map[string]treeplex.Vector{
		BlueprintFollowerStrategy: r.Blueprint.FollowerSequence().Vector,
		BlueprintFollowerValue:    r.Blueprint.FollowerSeqValues(),
		FullLeaderStrategy:        r.LeaderStrategy.Vector,
		FullFollowerStrategy:      r.Refined.FollowerSequence().Vector,
		FullLeaderBrValues:        r.Refined.LeaderSeqValues(),
		FullFollowerBrValues:      r.Refined.FollowerSeqValues(),
	}
}

// Resolver refines a leader blueprint by solving each subgame of a game
// under safety bounds and stitching the solutions back together.
type Resolver struct {
	game            *game.ExtensiveFormGame
	leaderBlueprint strategy.SequenceForm
	params          Params
	solver          Solver
}

// NewResolver creates a Resolver for g starting from leaderBlueprint.
func NewResolver(g *game.ExtensiveFormGame, leaderBlueprint strategy.SequenceForm, params Params, solver Solver) *Resolver {
	return &Resolver{
		game:            g,
		leaderBlueprint: leaderBlueprint,
		params:          params,
		solver:          solver,
	}
}

type subproblem struct {
	problem          *BoundedProblem
	mapper           *GameMapper
	feasibleLeader   []float64
	feasibleFollower []float64
}

// Resolve solves every subgame in order. Violated invariants of the game
// or the blueprint are reported as errors.
func (r *Resolver) Resolve(ctx context.Context) (result *Result, err error) {
	defer assert.Recover(&err)

	g := r.game
	bbr := NewBlueprintBr(g, r.leaderBlueprint)
	followerTools := treeplex.NewTools(g.Treeplex(game.Player2))
	leaderTools := treeplex.NewTools(g.Treeplex(game.Player1))
	builder := NewGameBuilder(g, followerTools, leaderTools, bbr, r.params)
	glog.V(1).Infof("Preprocessed blueprint, %d subgames", g.NumSubgames())

	problems, err := r.buildProblems(ctx, builder)
	if err != nil {
		return nil, err
	}

	leaderFull := r.leaderBlueprint.Clone()
	written := make([]bool, leaderFull.Len())
	objectives := make([]float64, 0, len(problems))
	for k, sp := range problems {
		glog.V(1).Infof("Solving subgame %d", k)
		sol, err := r.solve(ctx, sp)
		if err != nil {
			return nil, errors.Wrapf(err, "subgame %d", k)
		}

		writeBack(leaderFull, written, sp, sol)
		objectives = append(objectives, sol.ObjectiveValue)
		glog.V(1).Infof("Subgame %d objective: %v", k, sol.ObjectiveValue)
	}

	leaderStrategy := strategy.NewSequenceForm(leaderFull)
	refined := NewBlueprintBr(g, leaderStrategy)
	result = &Result{
		LeaderStrategy:   leaderStrategy,
		Blueprint:        bbr,
		Refined:          refined,
		BlueprintPayoffs: evaluate(g, r.leaderBlueprint, bbr),
		RefinedPayoffs:   evaluate(g, leaderStrategy, refined),
		ObjectiveValues:  objectives,
	}

	glog.Infof("Blueprint payoffs: leader %v, follower %v",
		result.BlueprintPayoffs.Leader, result.BlueprintPayoffs.Follower)
	glog.Infof("Resolved payoffs: leader %v, follower %v",
		result.RefinedPayoffs.Leader, result.RefinedPayoffs.Follower)
	return result, nil
}

// buildProblems constructs the bounded problem of every subgame. Building
// only reads the game and the blueprint, so problems are built concurrently.
func (r *Resolver) buildProblems(ctx context.Context, builder *GameBuilder) ([]subproblem, error) {
	problems := make([]subproblem, r.game.NumSubgames())
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(r.params.Parallelism, 1))
	for k := range problems {
		k := k
		eg.Go(func() (err error) {
			if err := ctx.Err(); err != nil {
				return err
			}

			defer assert.Recover(&err)
			sp := &problems[k]
			sp.problem, sp.mapper, sp.feasibleLeader, sp.feasibleFollower = builder.BoundedProblem(k)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "building bounded problems")
	}

	return problems, nil
}

func (r *Resolver) solve(ctx context.Context, sp subproblem) (*Solution, error) {
	ctx, cancel := r.params.Solver.Context(ctx)
	defer cancel()

	sol, err := r.solver.Solve(ctx, sp.problem, sp.feasibleLeader, sp.feasibleFollower)
	if err != nil {
		return nil, err
	}

	if err := sol.Verify(sp.problem); err != nil {
		return nil, errors.Wrap(err, "invalid solution")
	}

	return sol, nil
}

// writeBack replaces the leader's strategy inside one subgame with the
// solution. Skinny infosets are visited top down so the mass of each
// parent sequence is final before its children are scaled by it.
func writeBack(leaderFull treeplex.Vector, written []bool, sp subproblem, sol *Solution) {
	skinnyTp := sp.problem.Game.Treeplex(game.Player1)
	fullTp := leaderFull.Treeplex()
	beh := strategy.BehavioralFromSequenceForm(
		strategy.NewSequenceForm(treeplex.NewVector(skinnyTp, sol.LeaderStrategy)))

	for skinny := skinnyTp.NumInfosets() - 1; skinny >= 0; skinny-- {
		is := skinnyTp.Infoset(skinny)
		full := fullTp.Infoset(sp.mapper.Leader.SkinnyInfosetToInfoset(skinny))
		parentMass := leaderFull.At(full.ParentSequence)

		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			fullSeq := sp.mapper.Leader.SkinnySeqToSeq(seq)
			assert.That(!written[fullSeq], "leader sequence %d written by two subgames", fullSeq)
			leaderFull.Set(fullSeq, beh.At(seq)*parentMass)
			written[fullSeq] = true
		}
	}
}

func evaluate(g *game.ExtensiveFormGame, leader strategy.SequenceForm, br *BlueprintBr) Payoffs {
	return Payoffs{
		Leader:   g.EvaluatePayoffs(leader, br.FollowerSequence(), game.Player1),
		Follower: g.EvaluatePayoffs(leader, br.FollowerSequence(), game.Player2),
	}
}
