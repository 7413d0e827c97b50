package ga

import (
	"math"
	"sort"
)

// Ranking holds per-individual fitness ranks, diversity ranks and the
// normalized selection weights derived from them. Ranks are 1-based, with
// rank 1 being the best fitness / highest diversity. Ties keep insertion
// order, so a ranking is deterministic for a fixed population.
type Ranking struct {
	FitnessRank   []int
	DiversityRank []int
	Weights       []float64

	// selectable counts individuals with a positive selection weight.
	selectable int
}

// selectionWeight is the raw dual-rank weight before normalization. It is
// strictly decreasing in both ranks: either rank getting worse lowers the
// weight. The dual-rank scheme exists to counter premature convergence;
// diversity rank keeps structurally different candidates in play even when
// they are currently less fit.
func selectionWeight(fitnessRank, diversityRank int) float64 {
	return 1.0 / float64(fitnessRank+diversityRank)
}

// rankDescending assigns 1-based ranks by descending score with stable tie
// ordering. ranks[i] is the rank of individual i in insertion order.
func rankDescending(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	ranks := make([]int, len(scores))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}
	return ranks
}

// computeRanking turns raw fitness and diversity scores into a selection
// distribution. Individuals with -Inf fitness (evaluation anomalies) get
// zero weight so they are never chosen as parents. If all fitnesses are
// equal the fitness ranks contribute a uniform offset and selection degrades
// to diversity-only pressure, which is the intended behavior for a
// degenerate objective.
func computeRanking(fitness, diversity []float64, generation int) (*Ranking, error) {
	n := len(fitness)
	if n == 0 {
		return nil, &DegenerateError{Generation: generation, Reason: "empty population"}
	}

	r := &Ranking{
		FitnessRank:   rankDescending(fitness),
		DiversityRank: rankDescending(diversity),
		Weights:       make([]float64, n),
	}

	var total float64
	for i := 0; i < n; i++ {
		if math.IsInf(fitness[i], -1) {
			continue
		}
		w := selectionWeight(r.FitnessRank[i], r.DiversityRank[i])
		r.Weights[i] = w
		r.selectable++
		total += w
	}

	if r.selectable < 2 {
		return nil, &DegenerateError{Generation: generation, Reason: "fewer than two selectable parents"}
	}
	if total <= 0 || math.IsNaN(total) {
		return nil, &DegenerateError{Generation: generation, Reason: "selection weights sum to zero or NaN"}
	}

	for i := range r.Weights {
		r.Weights[i] /= total
	}
	return r, nil
}
