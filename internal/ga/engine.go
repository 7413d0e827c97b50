package ga

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"
)

// GenerationStats summarizes one completed generation. The engine exposes
// the full history as plain data; rendering it is a caller concern.
type GenerationStats struct {
	Generation    int     `json:"generation"`
	BestFitness   float64 `json:"bestFitness"`
	MeanFitness   float64 `json:"meanFitness"`
	MeanDiversity float64 `json:"meanDiversity"`
}

// Result is the outcome of a run.
type Result struct {
	// Best is the best individual observed across all generations, not just
	// the final population: stochastic mutation can regress a population, so
	// the running best is tracked separately.
	Best *Individual

	// Generations is the number of generation transitions actually run.
	Generations int

	// Anomalies counts objective evaluations that returned NaN or -Inf.
	Anomalies int64

	// History holds per-generation statistics, one entry per evaluated
	// generation including generation zero.
	History []GenerationStats
}

// Engine drives a population through generations of evaluation, ranking,
// breeding, mutation and elitist replacement.
//
// All stochastic decisions route through the single engine-owned seeded
// random stream in a fixed order: initial sampling, then per generation the
// parent-selection draws interleaved with crossover draws, then the mutation
// draws. Fitness evaluation never touches the stream, so the worker count
// does not affect reproducibility.
type Engine struct {
	cfg       Config
	rng       *rand.Rand
	best      *Individual
	anomalies int64
	history   []GenerationStats
}

// New validates the configuration and returns an engine ready to run.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Run executes the configured number of generations (or stops early on
// convergence) and returns the best individual found. Engines are single
// use; create a new one per run.
func (e *Engine) Run() (*Result, error) {
	pop := e.initialPopulation()
	diversity := e.observe(pop)

	tracker := newConvergenceTracker(e.cfg.Convergence)
	generations := 0

	for g := 0; g < e.cfg.Generations; g++ {
		next, err := e.step(pop, diversity)
		if err != nil {
			return nil, e.abort(pop.Generation, err)
		}
		pop = next
		generations++

		diversity = e.observe(pop)
		if tracker.update(e.best.Fitness) {
			break
		}
	}

	slog.Info("Run complete",
		"generations", generations,
		"best_fitness", e.best.Fitness,
		"anomalies", e.anomalies,
	)

	return &Result{
		Best:        e.best.Clone(),
		Generations: generations,
		Anomalies:   e.anomalies,
		History:     e.history,
	}, nil
}

// initialPopulation samples N genomes from the configured factory.
func (e *Engine) initialPopulation() *Population {
	individuals := make([]*Individual, e.cfg.PopulationSize)
	for i := range individuals {
		individuals[i] = NewIndividual(e.cfg.NewGenome(e.rng))
	}
	return newPopulation(individuals, 0)
}

// observe evaluates any stale individuals, updates the running best and
// appends history. It is the barrier between generations: ranking in the
// next step only ever sees fully evaluated populations. The diversity
// scores are returned so the following step can rank from the same
// snapshot without recomputing the quadratic metric.
func (e *Engine) observe(pop *Population) []float64 {
	e.anomalies += pop.evaluate(e.cfg.Objective, e.cfg.Workers)

	if gen := pop.best(); e.best == nil || gen.Fitness > e.best.Fitness {
		e.best = gen.Clone()
	}

	diversity := pop.diversityScores()
	stats := pop.stats(diversity)
	e.history = append(e.history, stats)
	if e.cfg.OnGeneration != nil {
		e.cfg.OnGeneration(stats)
	}

	slog.Debug("Generation evaluated",
		"generation", stats.Generation,
		"best_fitness", stats.BestFitness,
		"mean_fitness", stats.MeanFitness,
		"mean_diversity", stats.MeanDiversity,
	)
	return diversity
}

// step produces the next generation from a fully evaluated population:
// rank, carry elites, breed the remainder, mutate.
func (e *Engine) step(pop *Population, diversity []float64) (*Population, error) {
	ranking, err := computeRanking(fitnessOf(pop), diversity, pop.Generation)
	if err != nil {
		return nil, err
	}

	elites := e.selectElites(pop)
	offspring := breedOffspring(pop, ranking, pop.Size()-len(elites), e.rng)

	// Mutation applies to offspring; elites stay untouched unless
	// explicitly configured, preserving the monotonic best-fitness
	// guarantee.
	e.mutate(offspring)
	if e.cfg.MutateElites {
		e.mutate(elites)
	}

	next := make([]*Individual, 0, pop.Size())
	next = append(next, elites...)
	next = append(next, offspring...)
	return newPopulation(next, pop.Generation+1), nil
}

// selectElites clones the top-E individuals by fitness, ties broken by
// insertion order. Individuals with -Inf fitness (evaluation anomalies) are
// never elite; if fewer than E finite individuals exist the elite set is
// short and the gap is refilled with offspring.
func (e *Engine) selectElites(pop *Population) []*Individual {
	order := make([]int, pop.Size())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pop.Individuals[order[a]].Fitness > pop.Individuals[order[b]].Fitness
	})

	elites := make([]*Individual, 0, e.cfg.EliteCount)
	for _, idx := range order {
		if len(elites) == e.cfg.EliteCount {
			break
		}
		if math.IsInf(pop.Individuals[idx].Fitness, -1) {
			break
		}
		elites = append(elites, pop.Individuals[idx].Clone())
	}
	return elites
}

// mutate replaces each individual's genome with a perturbed copy with
// independent probability MutationProb, invalidating its cached fitness.
func (e *Engine) mutate(individuals []*Individual) {
	for i, ind := range individuals {
		if e.rng.Float64() < e.cfg.MutationProb {
			individuals[i] = NewIndividual(ind.Genome.Mutate(e.rng))
		}
	}
}

// abort wraps a fatal error with the generation index and last known best.
func (e *Engine) abort(generation int, err error) error {
	var best *Individual
	if e.best != nil {
		best = e.best.Clone()
	}
	return &RunError{Generation: generation, Best: best, Err: err}
}

func fitnessOf(pop *Population) []float64 {
	fitness := make([]float64, pop.Size())
	for i, ind := range pop.Individuals {
		fitness[i] = ind.Fitness
	}
	return fitness
}
