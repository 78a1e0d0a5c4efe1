package cli

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/blueprint"
	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/lpsolver"
	"github.com/lingchunkai/SafeSearchSSE/store"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/synthetic"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "sse-cli-test-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestBuildGame(t *testing.T) {
	testCases := []struct {
		params      GameParams
		numSubgames int
	}{
		{GameParams{Name: KuhnGame}, 0},
		{GameParams{Name: KuhnSubgamesGame}, 2},
		{GameParams{Name: RPSGame}, 0},
		{GameParams{Name: SyntheticGame, Synthetic: synthetic.DefaultConfig(), Seed: 7}, 8},
	}

	for _, tc := range testCases {
		g, ann, err := BuildGame(tc.params)
		require.NoError(t, err, tc.params.Name)
		assert.Equal(t, tc.numSubgames, g.NumSubgames(), tc.params.Name)
		assert.Len(t, ann.Player(game.Player1).SequenceInfosets,
			g.Treeplex(game.Player1).NumSequences(), tc.params.Name)
	}

	_, _, err := BuildGame(GameParams{Name: "chess"})
	assert.Error(t, err)

	_, _, err = BuildGame(GameParams{Name: SyntheticGame})
	assert.Error(t, err, "zero synthetic config")
}

func TestOpenStore(t *testing.T) {
	dir := tempDir(t)
	for _, backend := range []string{DirBackend, LevelDBBackend} {
		s, err := OpenStore(backend, filepath.Join(dir, backend))
		require.NoError(t, err, backend)
		require.NoError(t, s.Close(), backend)
	}

	_, err := OpenStore("s3", dir)
	assert.Error(t, err)
}

func TestComputeBlueprint_Uniform(t *testing.T) {
	g, _, err := BuildGame(GameParams{Name: RPSGame})
	require.NoError(t, err)

	leader, follower := ComputeBlueprint(g, 0, blueprint.DiscountParams{})
	for seq := 0; seq < 3; seq++ {
		assert.InDelta(t, 1.0/3, leader.At(seq), 1e-12)
		assert.InDelta(t, 1.0/3, follower.At(seq), 1e-12)
	}
}

func TestLoadBlueprint(t *testing.T) {
	g, _, err := BuildGame(GameParams{Name: KuhnSubgamesGame})
	require.NoError(t, err)
	tp := g.Treeplex(game.Player1)

	s, err := store.NewDir(tempDir(t))
	require.NoError(t, err)

	// Missing blueprints fall back to uniform.
	sf, err := LoadBlueprint(s, g)
	require.NoError(t, err)
	assert.True(t, sf.Equal(strategy.UniformSequenceForm(tp).Vector))

	leader, _ := ComputeBlueprint(g, 100, blueprint.DiscountParams{})
	require.NoError(t, s.PutVector(LeaderBlueprint, leader.Vector))
	sf, err = LoadBlueprint(s, g)
	require.NoError(t, err)
	assert.InDeltaSlice(t, leader.Entries(), sf.Entries(), 0)

	// A vector that is not a sequence-form strategy is rejected.
	require.NoError(t, s.PutVector(LeaderBlueprint, treeplex.ConstantVector(tp, 2)))
	_, err = LoadBlueprint(s, g)
	assert.Error(t, err)
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(tempDir(t), "resolve.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(`
store_backend: leveldb
store_path: /tmp/artifacts
resolve:
  splitting_ratio: 0.25
  gift_factor: 0.5
  solver:
    time_limit: 3s
solver: blueprint
`), 0644))

	c := DefaultResolveConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-resolve.gift_factor=0.75", "-game_name=kuhn"}))
	require.NoError(t, c.LoadFile(path, fs))

	assert.Equal(t, LevelDBBackend, c.StoreBackend)
	assert.Equal(t, "/tmp/artifacts", c.StorePath)
	assert.Equal(t, "kuhn", c.GameName)
	assert.Equal(t, 0.25, c.Resolve.SplittingRatio)
	assert.Equal(t, 0.75, c.Resolve.GiftFactor)
	assert.Equal(t, 3*time.Second, c.Resolve.Solver.TimeLimit)
	assert.Equal(t, 1, c.Resolve.Parallelism, "default kept")

	solver, err := c.NewSolver()
	require.NoError(t, err)
	assert.Equal(t, sse.BlueprintSolver{}, solver)
}

func TestResolveConfig_Errors(t *testing.T) {
	dir := tempDir(t)
	c := DefaultResolveConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	assert.Error(t, c.LoadFile(filepath.Join(dir, "missing.yaml"), fs))

	path := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("splitting_ratio: 0.3\n"), 0644))
	assert.Error(t, c.LoadFile(path, fs), "unknown top-level field")

	c = DefaultResolveConfig()
	solver, err := c.NewSolver()
	require.NoError(t, err)
	assert.IsType(t, &lpsolver.Solver{}, solver)

	c.Solver = "gurobi"
	_, err = c.NewSolver()
	assert.Error(t, err)
}

func TestStoreBackends(t *testing.T) {
	backends := StoreBackends()
	assert.Contains(t, backends, DirBackend)
	assert.Contains(t, backends, LevelDBBackend)
}
