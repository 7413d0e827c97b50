package ga

import "math/rand"

// weightedIndex draws one index from a normalized weight distribution.
// Weights are assumed to sum to 1; the final positive-weight index absorbs
// any floating point remainder.
func weightedIndex(weights []float64, rng *rand.Rand) int {
	r := rng.Float64()
	acc := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		acc += w
		if r < acc {
			return i
		}
	}
	return last
}

// selectParents draws one parent pair by weighted sampling. Sampling is with
// replacement across pairs (a strong parent may father many offspring in one
// generation) but the two parents of a single offspring are always distinct
// individuals. computeRanking guarantees at least two selectable indices, so
// the redraw loop terminates.
func selectParents(ranking *Ranking, rng *rand.Rand) (int, int) {
	a := weightedIndex(ranking.Weights, rng)
	b := weightedIndex(ranking.Weights, rng)
	for b == a {
		b = weightedIndex(ranking.Weights, rng)
	}
	return a, b
}

// breedOffspring produces count offspring by repeated parent selection and
// crossover. Offspring are returned unevaluated.
func breedOffspring(pop *Population, ranking *Ranking, count int, rng *rand.Rand) []*Individual {
	offspring := make([]*Individual, 0, count)
	for len(offspring) < count {
		a, b := selectParents(ranking, rng)
		child := pop.Individuals[a].Genome.Crossover(pop.Individuals[b].Genome, rng)
		offspring = append(offspring, NewIndividual(child))
	}
	return offspring
}
