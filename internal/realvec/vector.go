package realvec

import (
	"math"
	"math/rand"

	"github.com/cwbudde/evomax/internal/ga"
)

// Domain bundles the bounds with the mutation scale shared by every vector
// genome of a run.
type Domain struct {
	Bounds *Bounds

	// MutationScale is the half-width of the uniform perturbation applied
	// to a single coordinate on mutation.
	MutationScale float64
}

// NewDomain creates a domain with validated bounds.
func NewDomain(bounds *Bounds, mutationScale float64) (*Domain, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if mutationScale <= 0 || math.IsNaN(mutationScale) {
		return nil, &BoundsError{Reason: "mutation scale must be positive"}
	}
	return &Domain{Bounds: bounds, MutationScale: mutationScale}, nil
}

// NewGenome samples a vector uniformly at random within the bounds. It is
// the ga.Config factory for continuous runs.
func (d *Domain) NewGenome(rng *rand.Rand) ga.Genome {
	coords := make([]float64, d.Bounds.Dim())
	for i := range coords {
		lo, hi := d.Bounds.Lower[i], d.Bounds.Upper[i]
		coords[i] = lo + rng.Float64()*(hi-lo)
	}
	return &Vector{domain: d, Coords: coords}
}

// Vector is a point in a bounded real domain.
type Vector struct {
	domain *Domain
	Coords []float64
}

// Clone implements ga.Genome.
func (v *Vector) Clone() ga.Genome {
	coords := make([]float64, len(v.Coords))
	copy(coords, v.Coords)
	return &Vector{domain: v.domain, Coords: coords}
}

// Crossover combines two parents by a single-point coordinate split: the
// child takes the leading segment from the receiver and the tail from the
// other parent. The split point lies in [1, D], so a child may equal one
// parent outright in low dimensions.
func (v *Vector) Crossover(other ga.Genome, rng *rand.Rand) ga.Genome {
	o := other.(*Vector)
	split := 1 + rng.Intn(len(v.Coords))

	coords := make([]float64, len(v.Coords))
	copy(coords[:split], v.Coords[:split])
	copy(coords[split:], o.Coords[split:])
	return &Vector{domain: v.domain, Coords: coords}
}

// Mutate perturbs one random coordinate by uniform(-scale, +scale) and
// clamps it back into the domain, returning a new vector.
func (v *Vector) Mutate(rng *rand.Rand) ga.Genome {
	mutant := v.Clone().(*Vector)
	i := rng.Intn(len(mutant.Coords))
	delta := (rng.Float64()*2 - 1) * v.domain.MutationScale
	mutant.Coords[i] = v.domain.Bounds.Clamp(i, mutant.Coords[i]+delta)
	return mutant
}

// Distance implements ga.Genome as the L1 distance in position space.
func (v *Vector) Distance(other ga.Genome) float64 {
	o := other.(*Vector)
	var sum float64
	for i := range v.Coords {
		sum += math.Abs(v.Coords[i] - o.Coords[i])
	}
	return sum
}
