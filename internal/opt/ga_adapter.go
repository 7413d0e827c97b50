package opt

import (
	"log/slog"

	"github.com/cwbudde/evomax/internal/ga"
	"github.com/cwbudde/evomax/internal/realvec"
)

// GAAdapter runs the in-house rank-selection genetic engine behind the
// Optimizer interface. The interface minimizes, the engine maximizes, so the
// objective is negated on the way in.
type GAAdapter struct {
	generations   int
	popSize       int
	eliteCount    int
	mutationProb  float64
	mutationScale float64
	seed          int64
}

// NewGA creates a genetic-algorithm optimizer with engine defaults for
// elitism and mutation.
func NewGA(generations, popSize int, seed int64) Optimizer {
	return &GAAdapter{
		generations:   generations,
		popSize:       popSize,
		eliteCount:    popSize / 10,
		mutationProb:  0.3,
		mutationScale: 1.0,
		seed:          seed,
	}
}

// Run executes the genetic search.
func (a *GAAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64) {
	engineCfg := ga.DefaultConfig()
	engineCfg.PopulationSize = a.popSize
	engineCfg.EliteCount = a.eliteCount
	engineCfg.MutationProb = a.mutationProb
	engineCfg.Generations = a.generations
	engineCfg.Seed = a.seed

	res, err := realvec.Minimize(eval, realvec.RunConfig{
		Bounds:        realvec.NewBounds(lower[:dim], upper[:dim]),
		MutationScale: a.mutationScale,
		Engine:        engineCfg,
	})
	if err != nil {
		// Same fallback contract as the mayfly adapter: zero vector.
		slog.Error("GA optimization failed", "error", err)
		zero := make([]float64, dim)
		return zero, eval(zero)
	}

	return res.Position, res.Fitness
}
