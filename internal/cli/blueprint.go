package cli

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/lingchunkai/SafeSearchSSE/blueprint"
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/store"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/tree"
)

// Names of the blueprint vectors written by sse-gen.
const (
	LeaderBlueprint   = "leader-blueprint"
	FollowerBlueprint = "follower-blueprint"
)

// ComputeBlueprint runs nIter iterations of CFR on g. With no iterations
// both players play uniformly.
func ComputeBlueprint(g *game.ExtensiveFormGame, nIter int, params blueprint.DiscountParams) (leader, follower strategy.SequenceForm) {
	if nIter <= 0 {
		return strategy.UniformSequenceForm(g.Treeplex(game.Player1)),
			strategy.UniformSequenceForm(g.Treeplex(game.Player2))
	}

	glog.Infof("Running %d iterations of CFR", nIter)
	return blueprint.New(g, params).Run(nIter)
}

// LoadBlueprint reads the leader blueprint of g from s. A missing
// blueprint is replaced by the uniform strategy.
func LoadBlueprint(s store.Store, g *game.ExtensiveFormGame) (sf strategy.SequenceForm, err error) {
	tp := g.Treeplex(game.Player1)
	v, err := s.Vector(LeaderBlueprint, tp)
	if errors.Is(err, store.ErrNotFound) {
		glog.Warningf("No %s in store, using uniform leader blueprint", LeaderBlueprint)
		return strategy.UniformSequenceForm(tp), nil
	} else if err != nil {
		return strategy.SequenceForm{}, err
	}

	defer assert.Recover(&err)
	return strategy.NewSequenceForm(v), nil
}

// LogStrategy logs each sequence probability of sf at verbosity 1.
func LogStrategy(title string, sf strategy.SequenceForm, ann *tree.TreeplexAnnotations) {
	if !glog.V(1) {
		return
	}

	glog.Infof("%s:", title)
	for seq, x := range sf.Entries() {
		glog.Infof("  %-24s %.4f", ann.SequenceName(seq), x)
	}
}
