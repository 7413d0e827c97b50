package ga

import "math"

// Individual pairs a genome with its cached fitness. The fitness cache is
// only valid while evaluated is set; any operation that derives a new genome
// produces a fresh, unevaluated Individual.
type Individual struct {
	Genome    Genome
	Fitness   float64
	evaluated bool
}

// NewIndividual wraps a genome with no fitness evaluated yet.
func NewIndividual(g Genome) *Individual {
	return &Individual{Genome: g, Fitness: math.Inf(-1)}
}

// Clone deep-copies the individual including its cached fitness, so elites
// carry over without re-evaluation.
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Genome:    ind.Genome.Clone(),
		Fitness:   ind.Fitness,
		evaluated: ind.evaluated,
	}
}

// Evaluated reports whether the cached fitness matches the current genome.
func (ind *Individual) Evaluated() bool {
	return ind.evaluated
}

// setFitness caches an objective result. NaN is mapped to negative infinity
// so undefined pockets of the domain rank last instead of poisoning sorts.
// It reports whether the raw value was an evaluation anomaly (NaN or an
// explicit -Inf signalling undefined input).
func (ind *Individual) setFitness(raw float64) bool {
	anomaly := false
	if math.IsNaN(raw) {
		raw = math.Inf(-1)
		anomaly = true
	} else if math.IsInf(raw, -1) {
		anomaly = true
	}
	ind.Fitness = raw
	ind.evaluated = true
	return anomaly
}
