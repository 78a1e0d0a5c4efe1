// Command sse-resolve refines the leader blueprint of a stored game by
// safely resolving each of its subgames, and stores the resulting
// strategies and best-response values next to the game.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/internal/cli"
	"github.com/lingchunkai/SafeSearchSSE/store"
)

func main() {
	config := cli.DefaultResolveConfig()
	config.StorePath = "artifacts"
	config.RegisterFlags(flag.CommandLine)
	configFile := flag.String("config", "", "YAML file with defaults for the flags above")
	flag.Parse()

	if *configFile != "" {
		if err := config.LoadFile(*configFile, flag.CommandLine); err != nil {
			glog.Fatal(err)
		}
	}

	solver, err := config.NewSolver()
	if err != nil {
		glog.Fatal(err)
	}

	s, err := cli.OpenStore(config.StoreBackend, config.StorePath)
	if err != nil {
		glog.Fatal(err)
	}
	defer s.Close()

	g, err := s.Game(config.GameName)
	if err != nil {
		glog.Fatal(err)
	}
	glog.Infof("Loaded %s: %v", config.GameName, g)

	leader, err := cli.LoadBlueprint(s, g)
	if err != nil {
		glog.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	resolver := sse.NewResolver(g, leader, config.Resolve, solver)
	result, err := resolver.Resolve(ctx)
	if err != nil {
		glog.Fatal(err)
	}

	for k, obj := range result.ObjectiveValues {
		glog.Infof("Subgame %d objective: %v", k, obj)
	}

	if err := store.PutAll(s, result.Artifacts()); err != nil {
		glog.Fatal(err)
	}

	glog.Infof("Wrote %d artifacts to %s", len(result.Artifacts()), config.StorePath)
}
