package realvec

import (
	"fmt"
	"math"
	"sort"
)

// Benchmark objective functions for CLI demos, server jobs and tests. All
// are written for maximization: each has its global maximum of 0 at the
// origin.

// NegSquare is -sum(x_i^2), the smooth sanity-check objective.
func NegSquare(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return -sum
}

// NegRastrigin is the negated Rastrigin function, highly multimodal.
func NegRastrigin(x []float64) float64 {
	sum := 10 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return -sum
}

// NegAckley is the negated Ackley function.
func NegAckley(x []float64) float64 {
	n := float64(len(x))
	var sq, cs float64
	for _, v := range x {
		sq += v * v
		cs += math.Cos(2 * math.Pi * v)
	}
	return 20*math.Exp(-0.2*math.Sqrt(sq/n)) + math.Exp(cs/n) - 20 - math.E
}

var benchmarks = map[string]ObjectiveFunc{
	"negsquare": NegSquare,
	"rastrigin": NegRastrigin,
	"ackley":    NegAckley,
}

// Benchmark looks up a named benchmark objective.
func Benchmark(name string) (ObjectiveFunc, error) {
	fn, ok := benchmarks[name]
	if !ok {
		return nil, fmt.Errorf("unknown objective %q (have %v)", name, BenchmarkNames())
	}
	return fn, nil
}

// BenchmarkNames lists the available benchmark objectives in stable order.
func BenchmarkNames() []string {
	names := make([]string, 0, len(benchmarks))
	for name := range benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
