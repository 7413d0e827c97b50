package ga

import "fmt"

// ConfigError reports an invalid engine configuration. It is returned by
// Config.Validate before any generation runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Reason
}

// DegenerateError reports that ranking could not produce a valid selection
// distribution (zero weight mass, NaN weights, or fewer than two selectable
// parents). It carries the generation index at which it occurred.
type DegenerateError struct {
	Generation int
	Reason     string
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate selection distribution at generation %d: %s", e.Generation, e.Reason)
}

// RunError wraps any fatal error during a run with the originating generation
// index and the last known-good best individual.
type RunError struct {
	Generation int
	Best       *Individual
	Err        error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run aborted at generation %d: %v", e.Generation, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
