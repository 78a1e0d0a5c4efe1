// Package lpsolver solves bounded problems with the simplex method.
//
// The follower is fixed at the response it plays against the blueprint.
// What remains is a linear program over the leader's skinny sequence form:
// maximize the leader's payoff on the trunk subject to the follower's
// response staying a best response and the follower's value at every head
// respecting its bound.
package lpsolver

import (
	"context"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/game"
)

const (
	defaultTolerance = 1e-10
	// Head bounds are relaxed by the tolerance the blueprint is checked with.
	boundRelaxation = 1e-7
	// Largest flow violation accepted in the simplex output.
	flowTolerance = 1e-6
)

// Solver implements sse.Solver. Whenever the simplex method fails or runs
// past its deadline the feasible witness is returned instead.
type Solver struct {
	// Passed to lp.Simplex.
	Tolerance float64
}

// New returns a Solver with the default tolerance.
func New() *Solver {
	return &Solver{Tolerance: defaultTolerance}
}

// Solve implements sse.Solver.
func (s *Solver) Solve(ctx context.Context, p *sse.BoundedProblem, feasibleLeader, feasibleFollower []float64) (*sse.Solution, error) {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			glog.Warningf("No time left to solve, keeping the blueprint")
			return sse.BlueprintSolver{}.Solve(ctx, p, feasibleLeader, feasibleFollower)
		}
		return nil, err
	}

	prog := newProgram(p, feasibleFollower)
	glog.V(1).Infof("Solving LP with %d rows and %d columns", len(prog.b), len(prog.c))

	type result struct {
		x   []float64
		err error
	}

	done := make(chan result, 1)
	go func() {
		_, x, err := lp.Simplex(prog.c, prog.a, prog.b, s.Tolerance, nil)
		done <- result{x, err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		glog.Warningf("Simplex did not finish in time, keeping the blueprint")
	case r := <-done:
		if r.err != nil {
			glog.Warningf("Simplex failed, keeping the blueprint: %v", r.err)
			break
		}

		sol, err := prog.solution(r.x)
		if err == nil {
			return sol, nil
		}
		glog.Warningf("Discarding simplex solution, keeping the blueprint: %v", err)
	}

	return sse.BlueprintSolver{}.Solve(ctx, p, feasibleLeader, feasibleFollower)
}

// program is the LP in standard form: minimize c·x subject to Ax = b and
// x >= 0. The columns are, in order:
//
//	x1[s]  leader sequence form
//	w[I]   follower value at infoset I, shifted by big to be nonnegative
//	σ[s]   follower regret of each sequence it does not play
//	τ[h]   bound slack of each bounded head
//
// The follower plays its fixed response, so regret variables only exist for
// the sequences it does not play and the regret of the others is zero.
type program struct {
	problem  *sse.BoundedProblem
	follower []float64

	numLeaderSeqs int
	valueCol      int
	slackCols     []int
	big           float64

	c []float64
	a *mat.Dense
	b []float64
}

func newProgram(p *sse.BoundedProblem, follower []float64) *program {
	leaderTp := p.Game.Treeplex(game.Player1)
	followerTp := p.Game.Treeplex(game.Player2)

	prog := &program{
		problem:       p,
		follower:      follower,
		numLeaderSeqs: leaderTp.NumSequences(),
		valueCol:      leaderTp.NumSequences(),
		slackCols:     make([]int, followerTp.NumSequences()),
		big:           1,
	}

	for _, e := range p.Game.PayoffMatrix().Entries() {
		prog.big += math.Abs(e.ChanceFactor * e.PayoffPl2)
	}

	numCols := prog.valueCol + followerTp.NumInfosets()
	for seq := range prog.slackCols {
		prog.slackCols[seq] = -1
		if seq != followerTp.EmptySequence() && follower[seq] < 0.5 {
			prog.slackCols[seq] = numCols
			numCols++
		}
	}

	var bounds []sse.HeadBound
	for _, hb := range p.Bounds {
		if hb.Bound.Kind != sse.NoBound && !math.IsInf(hb.Bound.Value, 0) {
			bounds = append(bounds, hb)
		}
	}
	boundCol := numCols
	numCols += len(bounds)

	prog.c = make([]float64, numCols)
	for _, i := range p.LeavesWithinTrunk {
		e := p.Game.PayoffEntry(i)
		prog.c[e.SeqPl1] -= e.ChanceFactor * e.PayoffPl1 * follower[e.SeqPl2]
	}

	var rows [][]float64
	addRow := func(row []float64, rhs float64) {
		if rhs < 0 {
			for i := range row {
				row[i] = -row[i]
			}
			rhs = -rhs
		}
		rows = append(rows, row)
		prog.b = append(prog.b, rhs)
	}

	// Leader sequence form.
	row := make([]float64, numCols)
	row[leaderTp.EmptySequence()] = 1
	addRow(row, 1)
	for _, is := range leaderTp.Infosets() {
		row := make([]float64, numCols)
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			row[seq] = 1
		}
		row[is.ParentSequence] = -1
		addRow(row, 0)
	}

	// Regret of every follower sequence: the value of its infoset minus the
	// payoff of the leaves at the sequence and the values of the infosets
	// following it.
	tools := p.FollowerTools
	for seq := 0; seq < followerTp.EmptySequence(); seq++ {
		row := make([]float64, numCols)
		infoset, _ := tools.ParentInfoset(seq)
		row[prog.valueCol+infoset] = -1

		start, end := tools.SeqToInfosetRange(seq)
		for j := start; j < end; j++ {
			row[prog.valueCol+j] = 1
		}

		for _, i := range p.GameTools.LeafIndicesAtSequence(game.Player2, seq) {
			e := p.Game.PayoffEntry(i)
			row[e.SeqPl1] += e.ChanceFactor * e.PayoffPl2
		}

		if col := prog.slackCols[seq]; col >= 0 {
			row[col] = 1
		}

		addRow(row, prog.big*float64(end-start-1))
	}

	for k, hb := range bounds {
		row := make([]float64, numCols)
		row[prog.valueCol+hb.Infoset] = 1
		if hb.Bound.Kind == sse.LowerBound {
			row[boundCol+k] = -1
			addRow(row, hb.Bound.Value+prog.big-boundRelaxation)
		} else {
			row[boundCol+k] = 1
			addRow(row, hb.Bound.Value+prog.big+boundRelaxation)
		}
	}

	prog.a = mat.NewDense(len(rows), numCols, nil)
	for i, row := range rows {
		prog.a.SetRow(i, row)
	}

	return prog
}

// solution extracts the strategies and follower values from an optimal
// point of the program.
func (prog *program) solution(x []float64) (*sse.Solution, error) {
	p := prog.problem
	leaderTp := p.Game.Treeplex(game.Player1)
	followerTp := p.Game.Treeplex(game.Player2)

	leader := make([]float64, prog.numLeaderSeqs)
	for seq := range leader {
		leader[seq] = math.Max(x[seq], 0)
	}

	if math.Abs(leader[leaderTp.EmptySequence()]-1) > flowTolerance {
		return nil, errors.Errorf("empty sequence holds %v", leader[leaderTp.EmptySequence()])
	}
	for i, is := range leaderTp.Infosets() {
		var total float64
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			total += leader[seq]
		}
		if math.Abs(total-leader[is.ParentSequence]) > flowTolerance {
			return nil, errors.Errorf("leader infoset %d holds %v under a parent holding %v",
				i, total, leader[is.ParentSequence])
		}
	}

	follower := append([]float64(nil), prog.follower...)
	values := make([]float64, followerTp.NumInfosets())
	for i := range values {
		values[i] = x[prog.valueCol+i] - prog.big
	}

	slack := make([]float64, followerTp.NumSequences())
	for seq, col := range prog.slackCols {
		if col >= 0 {
			slack[seq] = x[col]
		}
	}

	leaves := make([]float64, len(p.LeavesWithinTrunk))
	for k, i := range p.LeavesWithinTrunk {
		e := p.Game.PayoffEntry(i)
		leaves[k] = leader[e.SeqPl1] * follower[e.SeqPl2]
	}

	return &sse.Solution{
		LeaderStrategy:    leader,
		FollowerStrategy:  follower,
		LeafProbabilities: leaves,
		ObjectiveValue:    sse.TrunkObjective(p, leader, follower),
		FollowerSlack:     slack,
		FollowerValue:     values,
	}, nil
}
