package ga

import (
	"log/slog"
	"math"
)

// ConvergenceConfig defines parameters for detecting search convergence.
type ConvergenceConfig struct {
	// Enabled controls whether convergence detection is active.
	Enabled bool

	// Window is the number of consecutive generations with no significant
	// best-fitness improvement before the run stops early.
	Window int

	// Epsilon is the minimum absolute best-fitness improvement required to
	// count as progress.
	Epsilon float64
}

// DefaultConvergenceConfig returns sensible defaults for convergence detection.
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Enabled: true,
		Window:  10,
		Epsilon: 1e-6,
	}
}

// convergenceTracker watches the running best fitness and detects when a
// configured window of generations has passed without improvement.
type convergenceTracker struct {
	config          ConvergenceConfig
	lastSignificant float64
	staleCount      int
}

func newConvergenceTracker(config ConvergenceConfig) *convergenceTracker {
	return &convergenceTracker{
		config:          config,
		lastSignificant: math.Inf(-1),
	}
}

// update records the best fitness after a generation and returns true once
// convergence is detected.
func (c *convergenceTracker) update(best float64) bool {
	if !c.config.Enabled {
		return false
	}

	improvement := best - c.lastSignificant
	if math.IsInf(c.lastSignificant, -1) || improvement > c.config.Epsilon {
		c.lastSignificant = best
		c.staleCount = 0
		return false
	}

	c.staleCount++
	if c.staleCount >= c.config.Window {
		slog.Info("Convergence detected - stopping early",
			"stale_generations", c.staleCount,
			"window", c.config.Window,
			"best_fitness", best,
		)
		return true
	}
	return false
}
