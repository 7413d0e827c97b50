package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cwbudde/evomax/internal/ga"
	"github.com/cwbudde/evomax/internal/opt"
	"github.com/cwbudde/evomax/internal/realvec"
	"github.com/spf13/cobra"
)

var (
	objectiveName string
	optimizerName string
	dim           int
	lowerBound    float64
	upperBound    float64
	popSize       int
	eliteCount    int
	generations   int
	mutationProb  float64
	mutationScale float64
	seed          int64
	workers       int
	convEpsilon   float64
	convWindow    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run single-shot optimization of a benchmark objective",
	Long: `Maximizes a named benchmark objective over a uniform bounded domain and
prints the best point found. The mayfly backend is available for comparison
against the genetic engine.`,
	RunE: runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&objectiveName, "objective", "negsquare", "Objective function: "+strings.Join(realvec.BenchmarkNames(), ", "))
	runCmd.Flags().StringVar(&optimizerName, "optimizer", "ga", "Optimizer backend: ga, mayfly")
	runCmd.Flags().IntVar(&dim, "dim", 2, "Search space dimensionality")
	runCmd.Flags().Float64Var(&lowerBound, "lower", -10, "Lower bound (all dimensions)")
	runCmd.Flags().Float64Var(&upperBound, "upper", 10, "Upper bound (all dimensions)")
	runCmd.Flags().IntVar(&popSize, "pop", 60, "Population size")
	runCmd.Flags().IntVar(&eliteCount, "elite", 6, "Elite count carried over unmodified")
	runCmd.Flags().IntVar(&generations, "gens", 100, "Generation budget")
	runCmd.Flags().Float64Var(&mutationProb, "mutation-prob", 0.3, "Per-individual mutation probability")
	runCmd.Flags().Float64Var(&mutationScale, "mutation-scale", 1.0, "Mutation perturbation half-width")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	runCmd.Flags().IntVar(&workers, "workers", 1, "Parallel fitness evaluation workers")
	runCmd.Flags().Float64Var(&convEpsilon, "epsilon", 0, "Convergence epsilon (0 disables early stopping)")
	runCmd.Flags().IntVar(&convWindow, "window", 10, "Convergence window in generations")

	rootCmd.AddCommand(runCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {
	objective, err := realvec.Benchmark(objectiveName)
	if err != nil {
		return err
	}

	slog.Info("Starting optimization",
		"objective", objectiveName,
		"optimizer", optimizerName,
		"dim", dim,
		"pop", popSize,
		"gens", generations,
	)

	start := time.Now()

	switch optimizerName {
	case "ga":
		engineCfg := ga.DefaultConfig()
		engineCfg.PopulationSize = popSize
		engineCfg.EliteCount = eliteCount
		engineCfg.MutationProb = mutationProb
		engineCfg.Generations = generations
		engineCfg.Seed = seed
		engineCfg.Workers = workers
		if convEpsilon > 0 {
			engineCfg.Convergence = ga.ConvergenceConfig{
				Enabled: true,
				Window:  convWindow,
				Epsilon: convEpsilon,
			}
		}

		result, err := realvec.Maximize(objective, realvec.RunConfig{
			Bounds:        realvec.NewUniformBounds(dim, lowerBound, upperBound),
			MutationScale: mutationScale,
			Engine:        engineCfg,
		})
		if err != nil {
			return err
		}

		elapsed := time.Since(start)
		slog.Info("Optimization complete",
			"elapsed", elapsed,
			"best_fitness", result.Fitness,
			"generations", result.Generations,
			"anomalies", result.Anomalies,
		)
		fmt.Printf("Best fitness %.6g at %v (%d generations, %s)\n",
			result.Fitness, result.Position, result.Generations, elapsed.Round(time.Millisecond))

	case "mayfly":
		// The mayfly library minimizes; feed it the negated objective.
		optimizer := opt.NewMayfly(generations, popSize, seed)
		lower := make([]float64, dim)
		upper := make([]float64, dim)
		for i := 0; i < dim; i++ {
			lower[i] = lowerBound
			upper[i] = upperBound
		}
		best, cost := optimizer.Run(func(x []float64) float64 {
			return -objective(x)
		}, lower, upper, dim)

		elapsed := time.Since(start)
		slog.Info("Optimization complete", "elapsed", elapsed, "best_fitness", -cost)
		fmt.Printf("Best fitness %.6g at %v (%s)\n", -cost, best, elapsed.Round(time.Millisecond))

	default:
		return fmt.Errorf("unknown optimizer: %s", optimizerName)
	}

	return nil
}
