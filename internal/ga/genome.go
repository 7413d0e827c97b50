package ga

import "math/rand"

// Genome is a candidate solution representation. Implementations exist for
// bounded real vectors (realvec) and vertex-cover decision sequences (cover).
//
// All three derivation methods return new genomes and must leave the receiver
// untouched, so a population snapshot stays immutable while it is being
// ranked and bred from.
type Genome interface {
	// Clone returns a deep copy.
	Clone() Genome

	// Crossover combines the receiver with another genome of the same
	// concrete type and returns one offspring.
	Crossover(other Genome, rng *rand.Rand) Genome

	// Mutate returns a randomly perturbed copy.
	Mutate(rng *rand.Rand) Genome

	// Distance is the representation's diversity metric: L1 distance in
	// position space for vectors, Hamming distance for chromosomes.
	Distance(other Genome) float64
}

// Objective scores a genome. Higher is better; the engine maximizes.
// It must be pure: safe to call concurrently, identical output for
// identical input. A NaN return is treated as negative infinity.
type Objective func(Genome) float64
