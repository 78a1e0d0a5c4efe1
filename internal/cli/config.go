package cli

import (
	"bytes"
	"flag"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/lpsolver"
)

// Solvers selectable by ResolveConfig.Solver.
const (
	LPSolver        = "lp"
	BlueprintSolver = "blueprint"
)

// ResolveConfig is the configuration of sse-resolve.
type ResolveConfig struct {
	StoreBackend string `yaml:"store_backend"`
	StorePath    string `yaml:"store_path"`
	GameName     string `yaml:"game_name"`

	Resolve sse.Params `yaml:"resolve"`
	Solver  string     `yaml:"solver"`
	// Passed to lp.Simplex when Solver is "lp".
	LPTolerance float64 `yaml:"lp_tolerance"`
}

// DefaultResolveConfig returns the configuration used when no file or
// flags override it.
func DefaultResolveConfig() ResolveConfig {
	return ResolveConfig{
		StoreBackend: DirBackend,
		GameName:     "game",
		Resolve:      sse.DefaultParams(),
		Solver:       LPSolver,
		LPTolerance:  lpsolver.New().Tolerance,
	}
}

// RegisterFlags binds the fields of c to flags in fs.
func (c *ResolveConfig) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.StoreBackend, "store.backend", c.StoreBackend,
		"Artifact store backend: dir, leveldb or rocksdb")
	fs.StringVar(&c.StorePath, "store.path", c.StorePath,
		"Path of the artifact store")
	fs.StringVar(&c.GameName, "game_name", c.GameName,
		"Name of the game in the artifact store")
	fs.Float64Var(&c.Resolve.SplittingRatio, "resolve.splitting_ratio", c.Resolve.SplittingRatio,
		"Where trunk thresholds sit between the second-best (0) and best (1) follower values")
	fs.Float64Var(&c.Resolve.GiftFactor, "resolve.gift_factor", c.Resolve.GiftFactor,
		"Fraction of the follower's slack passed down to child infosets")
	fs.IntVar(&c.Resolve.Parallelism, "resolve.parallelism", c.Resolve.Parallelism,
		"Number of bounded problems to build concurrently")
	fs.DurationVar(&c.Resolve.Solver.TimeLimit, "resolve.time_limit", c.Resolve.Solver.TimeLimit,
		"Time limit per subgame (0 for none)")
	fs.StringVar(&c.Solver, "solver", c.Solver,
		"Subgame solver: lp or blueprint")
	fs.Float64Var(&c.LPTolerance, "lp.tolerance", c.LPTolerance,
		"Tolerance of the simplex method")
}

// LoadFile replaces c with the YAML configuration in path and then
// reapplies every flag explicitly set in fs, so flags take precedence.
func (c *ResolveConfig) LoadFile(path string, fs *flag.FlagSet) error {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	set := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = f.Value.String()
	})

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return errors.Wrapf(err, "parsing %s", path)
	}

	for name, value := range set {
		if err := fs.Set(name, value); err != nil {
			return errors.Wrapf(err, "flag -%s", name)
		}
	}

	return nil
}

// NewSolver returns the configured subgame solver.
func (c *ResolveConfig) NewSolver() (sse.Solver, error) {
	switch c.Solver {
	case LPSolver:
		return &lpsolver.Solver{Tolerance: c.LPTolerance}, nil
	case BlueprintSolver:
		return sse.BlueprintSolver{}, nil
	}

	return nil, errors.Errorf("unknown solver %q", c.Solver)
}
