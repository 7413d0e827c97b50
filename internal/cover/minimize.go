package cover

import (
	"gonum.org/v1/gonum/graph"

	"github.com/cwbudde/evomax/internal/ga"
)

// Result is the outcome of a vertex-cover search.
type Result struct {
	// Vertices is the best cover found, as sorted node IDs.
	Vertices []int64

	// Size is len(Vertices).
	Size int

	Generations int
	History     []ga.GenerationStats
}

// MinimumCover searches for a small vertex cover of g using the shared
// evolutionary engine. cfg carries the engine parameters; the genome factory
// and objective are supplied here.
func MinimumCover(g graph.Undirected, cfg ga.Config) (*Result, error) {
	problem, err := NewProblem(g)
	if err != nil {
		return nil, err
	}

	cfg.NewGenome = problem.NewGenome
	cfg.Objective = problem.Objective

	engine, err := ga.New(cfg)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run()
	if err != nil {
		return nil, err
	}

	best := res.Best.Genome.(*Chromosome)
	vertices := best.Cover()
	return &Result{
		Vertices:    vertices,
		Size:        len(vertices),
		Generations: res.Generations,
		History:     res.History,
	}, nil
}
