// Command sse-gen builds a game, computes a leader blueprint for it and
// writes both to an artifact store for sse-resolve.
package main

import (
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/lingchunkai/SafeSearchSSE/blueprint"
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/cli"
	"github.com/lingchunkai/SafeSearchSSE/synthetic"
)

func main() {
	params := cli.GameParams{Synthetic: synthetic.DefaultConfig()}
	flag.StringVar(&params.Name, "game", cli.KuhnSubgamesGame,
		"Game to generate: kuhn, kuhn_subgames, rps or synthetic")
	flag.Int64Var(&params.Seed, "seed", 123, "Random seed of synthetic games")
	sc := &params.Synthetic
	flag.IntVar(&sc.NumSubgames, "synthetic.num_subgames", sc.NumSubgames,
		"Number of subgames the main game transitions into")
	flag.IntVar(&sc.MainGameSize[0], "synthetic.main_leader_actions", sc.MainGameSize[0],
		"Number of leader actions in the main game")
	flag.IntVar(&sc.MainGameSize[1], "synthetic.main_follower_actions", sc.MainGameSize[1],
		"Number of follower actions in the main game")
	flag.IntVar(&sc.SubgameSize[0], "synthetic.subgame_leader_actions", sc.SubgameSize[0],
		"Number of leader actions in each subgame")
	flag.IntVar(&sc.SubgameSize[1], "synthetic.subgame_follower_actions", sc.SubgameSize[1],
		"Number of follower actions in each subgame")
	flag.Float64Var(&sc.Influence, "synthetic.influence", sc.Influence,
		"How much the leader's main action shifts the subgame transition")
	flag.Float64Var(&sc.MainPayoffRange[0], "synthetic.main_payoff_min", sc.MainPayoffRange[0],
		"Smallest payoff in the main game")
	flag.Float64Var(&sc.MainPayoffRange[1], "synthetic.main_payoff_max", sc.MainPayoffRange[1],
		"Largest payoff in the main game")
	flag.Float64Var(&sc.SubgamePayoffRange[0], "synthetic.subgame_payoff_min", sc.SubgamePayoffRange[0],
		"Smallest payoff in the subgames")
	flag.Float64Var(&sc.SubgamePayoffRange[1], "synthetic.subgame_payoff_max", sc.SubgamePayoffRange[1],
		"Largest payoff in the subgames")
	flag.BoolVar(&sc.SpecifySubgames, "synthetic.specify_subgames", sc.SpecifySubgames,
		"Tag each subgame separately (otherwise one subgame below the root)")

	var discounts blueprint.DiscountParams
	iters := flag.Int("blueprint.iters", 10000,
		"Number of CFR iterations for the blueprint (0 for uniform)")
	flag.BoolVar(&discounts.UseRegretMatchingPlus, "blueprint.rm_plus", true,
		"Use regret matching+")
	flag.BoolVar(&discounts.LinearWeighting, "blueprint.linear_weighting", true,
		"Use linear weighting of the average strategy")
	flag.Float64Var(&discounts.DiscountAlpha, "blueprint.alpha", 0,
		"Discounted CFR alpha (0 for none)")
	flag.Float64Var(&discounts.DiscountBeta, "blueprint.beta", 0,
		"Discounted CFR beta (0 for none)")
	flag.Float64Var(&discounts.DiscountGamma, "blueprint.gamma", 0,
		"Discounted CFR gamma (0 for none)")
	flag.Float64Var(&discounts.PurificationThreshold, "blueprint.purification_threshold", 0,
		"Zero out average action probabilities below this threshold")

	backend := flag.String("store.backend", cli.DirBackend, "Artifact store backend: dir, leveldb or rocksdb")
	path := flag.String("store.path", "artifacts", "Path of the artifact store")
	name := flag.String("game_name", "game", "Name of the game in the artifact store")
	flag.Parse()

	g, ann, err := cli.BuildGame(params)
	if err != nil {
		glog.Fatal(err)
	}

	start := time.Now()
	leader, follower := cli.ComputeBlueprint(g, *iters, discounts)
	glog.Infof("Computed blueprint in %v", time.Since(start))
	glog.Infof("Blueprint payoffs: leader %v, follower %v",
		g.EvaluatePayoffs(leader, follower, game.Player1),
		g.EvaluatePayoffs(leader, follower, game.Player2))
	cli.LogStrategy("Leader blueprint", leader, ann.Player(game.Player1))

	s, err := cli.OpenStore(*backend, *path)
	if err != nil {
		glog.Fatal(err)
	}
	defer s.Close()

	if err := s.PutGame(*name, g); err != nil {
		glog.Fatal(err)
	}

	if err := s.PutVector(cli.LeaderBlueprint, leader.Vector); err != nil {
		glog.Fatal(err)
	}

	if err := s.PutVector(cli.FollowerBlueprint, follower.Vector); err != nil {
		glog.Fatal(err)
	}

	glog.Infof("Wrote %s and blueprint to %s", *name, *path)
}
