package ga

import (
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/stat"
)

// Population is one generation's worth of individuals. A population is
// treated as an immutable snapshot once evaluated: breeding and mutation
// allocate the next generation rather than editing this one in place, which
// keeps parallel evaluation lock-free.
type Population struct {
	Individuals []*Individual
	Generation  int
}

func newPopulation(individuals []*Individual, generation int) *Population {
	return &Population{Individuals: individuals, Generation: generation}
}

// Size returns the number of individuals.
func (p *Population) Size() int {
	return len(p.Individuals)
}

// evaluate computes fitness for every individual lacking a cached value and
// returns the number of evaluation anomalies encountered. With workers > 1
// the objective calls fan out across goroutines; the WaitGroup is the
// deterministic barrier the ranking step requires.
func (p *Population) evaluate(objective Objective, workers int) int64 {
	pending := make([]*Individual, 0, len(p.Individuals))
	for _, ind := range p.Individuals {
		if !ind.Evaluated() {
			pending = append(pending, ind)
		}
	}
	if len(pending) == 0 {
		return 0
	}

	if workers <= 1 || len(pending) == 1 {
		var anomalies int64
		for _, ind := range pending {
			if ind.setFitness(objective(ind.Genome)) {
				anomalies++
			}
		}
		return anomalies
	}

	if workers > len(pending) {
		workers = len(pending)
	}

	var anomalies atomic.Int64
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(pending) {
					return
				}
				if pending[i].setFitness(objective(pending[i].Genome)) {
					anomalies.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	return anomalies.Load()
}

// diversityScores computes, for each individual, the sum of genome distances
// to all other members of the population. This is the O(N^2 * D) pairwise
// metric; it is an accepted cost for population sizes in the hundreds, and a
// known scaling limit for very large N.
func (p *Population) diversityScores() []float64 {
	n := len(p.Individuals)
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := p.Individuals[i].Genome.Distance(p.Individuals[j].Genome)
			scores[i] += d
			scores[j] += d
		}
	}
	return scores
}

// best returns the highest-fitness individual, ties broken by insertion order.
func (p *Population) best() *Individual {
	best := p.Individuals[0]
	for _, ind := range p.Individuals[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}

// stats summarizes the evaluated population for the history surface.
func (p *Population) stats(diversity []float64) GenerationStats {
	fitness := make([]float64, len(p.Individuals))
	for i, ind := range p.Individuals {
		fitness[i] = ind.Fitness
	}
	return GenerationStats{
		Generation:    p.Generation,
		BestFitness:   p.best().Fitness,
		MeanFitness:   stat.Mean(fitness, nil),
		MeanDiversity: stat.Mean(diversity, nil),
	}
}
