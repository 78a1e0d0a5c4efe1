package sse

// Params are the configuration options for safe resolving.
type Params struct {
	// Where each trunk threshold is placed between the second-best (0)
	// and best (1) follower action values.
	SplittingRatio float64 `yaml:"splitting_ratio"`
	// Fraction of the follower's slack passed down to child infosets.
	GiftFactor float64 `yaml:"gift_factor"`
	// Maximum number of bounded problems built concurrently. Zero or
	// negative means one at a time.
	Parallelism int `yaml:"parallelism"`
	// Passed to the solver of each subgame.
	Solver SolverConfig `yaml:"solver"`
}

// DefaultParams returns the parameters used when none are specified.
func DefaultParams() Params {
	return Params{
		SplittingRatio: 0.5,
		GiftFactor:     1.0,
		Parallelism:    1,
	}
}
