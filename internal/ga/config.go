package ga

import "math/rand"

// Config is the immutable per-run configuration of the engine.
type Config struct {
	// PopulationSize is N, the fixed number of individuals per generation.
	PopulationSize int

	// EliteCount is E, the number of top-fitness individuals carried
	// unmodified into the next generation. Must be < PopulationSize.
	EliteCount int

	// MutationProb is the independent per-individual mutation probability
	// applied to offspring each generation.
	MutationProb float64

	// MutateElites also subjects elites to mutation. Off by default since it
	// breaks the monotonic best-fitness guarantee elitism exists for.
	MutateElites bool

	// Generations is G, the generation budget.
	Generations int

	// Convergence optionally stops a run early when the best fitness stops
	// improving. Generations still caps the run when enabled.
	Convergence ConvergenceConfig

	// Seed initializes the engine's random stream. Runs with the same seed
	// and config are bit-identical.
	Seed int64

	// Workers is the number of goroutines used for fitness evaluation.
	// 0 or 1 means sequential. Evaluation order never touches the random
	// stream, so parallel runs stay deterministic.
	Workers int

	// NewGenome samples a random genome for the initial population.
	NewGenome func(rng *rand.Rand) Genome

	// Objective scores genomes. Higher is better.
	Objective Objective

	// OnGeneration, if set, is invoked after every completed generation
	// with that generation's statistics.
	OnGeneration func(GenerationStats)
}

// DefaultConfig returns engine defaults mirroring the original heuristic's
// parameters. NewGenome and Objective must still be supplied.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 60,
		EliteCount:     6,
		MutationProb:   0.05,
		Generations:    15,
		Seed:           42,
	}
}

// Validate fails fast on configurations that cannot produce a valid run.
func (c *Config) Validate() error {
	if c.PopulationSize < 2 {
		return &ConfigError{Field: "PopulationSize", Reason: "must be at least 2"}
	}
	if c.EliteCount < 0 {
		return &ConfigError{Field: "EliteCount", Reason: "cannot be negative"}
	}
	if c.EliteCount >= c.PopulationSize {
		return &ConfigError{Field: "EliteCount", Reason: "must be less than PopulationSize"}
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return &ConfigError{Field: "MutationProb", Reason: "must be in [0,1]"}
	}
	if c.Generations <= 0 {
		return &ConfigError{Field: "Generations", Reason: "must be positive"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "Workers", Reason: "cannot be negative"}
	}
	if c.NewGenome == nil {
		return &ConfigError{Field: "NewGenome", Reason: "is required"}
	}
	if c.Objective == nil {
		return &ConfigError{Field: "Objective", Reason: "is required"}
	}
	if c.Convergence.Enabled {
		if c.Convergence.Window <= 0 {
			return &ConfigError{Field: "Convergence.Window", Reason: "must be positive when enabled"}
		}
		if c.Convergence.Epsilon < 0 {
			return &ConfigError{Field: "Convergence.Epsilon", Reason: "cannot be negative"}
		}
	}
	return nil
}
