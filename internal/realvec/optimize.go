package realvec

import (
	"github.com/cwbudde/evomax/internal/ga"
)

// ObjectiveFunc is the caller-facing objective contract: a pure scalar
// function over a fixed-dimensional position. Return NaN (or -Inf) for
// positions where the function is undefined; such evaluations are tolerated
// and never selected.
type ObjectiveFunc func(position []float64) float64

// Objective adapts a position function to the engine's genome contract.
func Objective(fn ObjectiveFunc) ga.Objective {
	return func(g ga.Genome) float64 {
		return fn(g.(*Vector).Coords)
	}
}

// RunConfig configures a continuous maximization or minimization run.
type RunConfig struct {
	Bounds        *Bounds
	MutationScale float64

	// Engine carries population size, elitism, mutation probability,
	// generation budget, convergence, seed and workers. NewGenome and
	// Objective are filled in by Maximize/Minimize.
	Engine ga.Config

	// OnGeneration, if set, receives per-generation statistics.
	OnGeneration func(ga.GenerationStats)
}

// RunResult is the continuous-domain view of an engine result.
type RunResult struct {
	Position    []float64
	Fitness     float64
	Generations int
	Anomalies   int64
	History     []ga.GenerationStats
}

// Maximize searches for the maximum of fn over the configured bounds.
func Maximize(fn ObjectiveFunc, cfg RunConfig) (*RunResult, error) {
	domain, err := NewDomain(cfg.Bounds, cfg.MutationScale)
	if err != nil {
		return nil, err
	}

	engineCfg := cfg.Engine
	engineCfg.NewGenome = domain.NewGenome
	engineCfg.Objective = Objective(fn)
	engineCfg.OnGeneration = cfg.OnGeneration

	engine, err := ga.New(engineCfg)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run()
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Position:    res.Best.Genome.(*Vector).Coords,
		Fitness:     res.Best.Fitness,
		Generations: res.Generations,
		Anomalies:   res.Anomalies,
		History:     res.History,
	}, nil
}

// Minimize searches for the minimum of fn by maximizing its negation. The
// returned fitness is reported un-negated, i.e. the actual minimum value.
func Minimize(fn ObjectiveFunc, cfg RunConfig) (*RunResult, error) {
	res, err := Maximize(func(position []float64) float64 {
		return -fn(position)
	}, cfg)
	if err != nil {
		return nil, err
	}
	res.Fitness = fn(res.Position)
	return res, nil
}
