package cover

import (
	"math/rand"

	"github.com/cwbudde/evomax/internal/ga"
)

// Chromosome is the indirect encoding of a vertex subset: one include
// decision per vertex in the problem's canonical ordering. The decisions are
// a preference, not the cover itself; Decode applies a deterministic repair
// pass, so any chromosome produced by crossover or mutation still decodes to
// a valid cover.
type Chromosome struct {
	problem   *Problem
	decisions []bool
}

// NewGenome samples a chromosome with uniformly random decisions. It is the
// ga.Config factory for cover runs.
func (p *Problem) NewGenome(rng *rand.Rand) ga.Genome {
	decisions := make([]bool, len(p.order))
	for i := range decisions {
		decisions[i] = rng.Intn(2) == 1
	}
	return &Chromosome{problem: p, decisions: decisions}
}

// Clone implements ga.Genome.
func (c *Chromosome) Clone() ga.Genome {
	decisions := make([]bool, len(c.decisions))
	copy(decisions, c.decisions)
	return &Chromosome{problem: c.problem, decisions: decisions}
}

// Crossover recombines two decision sequences at a single split point in
// [1, V], mirroring the continuous representation's structural crossover.
func (c *Chromosome) Crossover(other ga.Genome, rng *rand.Rand) ga.Genome {
	o := other.(*Chromosome)
	split := 1 + rng.Intn(len(c.decisions))

	decisions := make([]bool, len(c.decisions))
	copy(decisions[:split], c.decisions[:split])
	copy(decisions[split:], o.decisions[split:])
	return &Chromosome{problem: c.problem, decisions: decisions}
}

// Mutate flips one random decision, returning a new chromosome.
func (c *Chromosome) Mutate(rng *rand.Rand) ga.Genome {
	mutant := c.Clone().(*Chromosome)
	i := rng.Intn(len(mutant.decisions))
	mutant.decisions[i] = !mutant.decisions[i]
	return mutant
}

// Distance implements ga.Genome as the Hamming distance between decision
// sequences.
func (c *Chromosome) Distance(other ga.Genome) float64 {
	o := other.(*Chromosome)
	var d float64
	for i := range c.decisions {
		if c.decisions[i] != o.decisions[i] {
			d++
		}
	}
	return d
}

// decode resolves the decisions into an include mask that covers every edge.
// The repair walks the sorted edge list and, for any edge with both
// endpoints excluded, includes the endpoint that comes later in the
// canonical ordering. Each edge is visited once and violations are fixed
// immediately, so the resulting mask is always a valid cover.
func (c *Chromosome) decode() []bool {
	include := make([]bool, len(c.decisions))
	copy(include, c.decisions)
	for _, e := range c.problem.edges {
		if !include[e.u] && !include[e.v] {
			include[e.v] = true
		}
	}
	return include
}

// Cover returns the decoded vertex cover as sorted node IDs.
func (c *Chromosome) Cover() []int64 {
	include := c.decode()
	var cover []int64
	for i, in := range include {
		if in {
			cover = append(cover, c.problem.order[i])
		}
	}
	return cover
}

// coverSize counts the decoded cover without materializing the ID slice.
func (c *Chromosome) coverSize() int {
	size := 0
	for _, in := range c.decode() {
		if in {
			size++
		}
	}
	return size
}

// Objective scores chromosomes by negated cover size, so maximization
// minimizes the cover.
func (p *Problem) Objective(g ga.Genome) float64 {
	return -float64(g.(*Chromosome).coverSize())
}
