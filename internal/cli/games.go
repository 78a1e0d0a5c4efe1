package cli

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/kuhn"
	"github.com/lingchunkai/SafeSearchSSE/rps"
	"github.com/lingchunkai/SafeSearchSSE/synthetic"
	"github.com/lingchunkai/SafeSearchSSE/tree"
)

// Names of the games NewGameTree can construct.
const (
	KuhnGame         = "kuhn"
	KuhnSubgamesGame = "kuhn_subgames"
	RPSGame          = "rps"
	SyntheticGame    = "synthetic"
)

// GameParams selects and configures a game.
type GameParams struct {
	Name      string
	Synthetic synthetic.Config
	Seed      int64
}

// NewGameTree returns the root of the named game tree.
func NewGameTree(params GameParams) (tree.GameTreeNode, error) {
	switch params.Name {
	case KuhnGame:
		return kuhn.NewGame(), nil
	case KuhnSubgamesGame:
		return kuhn.NewSubgameGame(), nil
	case RPSGame:
		return rps.NewGame(), nil
	case SyntheticGame:
		g, err := synthetic.New(params.Synthetic, params.Seed)
		if err != nil {
			return nil, err
		}
		return g.Root(), nil
	}

	return nil, errors.Errorf("unknown game %q", params.Name)
}

// BuildGame constructs and builds the named game.
func BuildGame(params GameParams) (*game.ExtensiveFormGame, *tree.Annotations, error) {
	root, err := NewGameTree(params)
	if err != nil {
		return nil, nil, err
	}
	defer root.Close()

	g, ann, err := tree.NewBuilder().BuildWithAnnotations(root)
	if err != nil {
		return nil, nil, errors.Wrap(err, params.Name)
	}

	glog.Infof("Built %s: %v", params.Name, g)
	return g, ann, nil
}
