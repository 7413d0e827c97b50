package store

import (
	"fmt"
	"time"
)

// RunConfig holds the configuration of an optimization run as submitted to
// the server or CLI. It lives here rather than in the server package so the
// persisted record and the API payload share one definition without an
// import cycle.
type RunConfig struct {
	// Objective names a benchmark objective (negsquare, rastrigin, ackley).
	Objective string `json:"objective"`

	// Dim is the search-space dimensionality; Lower/Upper bound every
	// dimension uniformly.
	Dim   int     `json:"dim"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`

	PopSize       int     `json:"popSize"`
	EliteCount    int     `json:"eliteCount"`
	Generations   int     `json:"generations"`
	MutationProb  float64 `json:"mutationProb"`
	MutationScale float64 `json:"mutationScale"`
	Seed          int64   `json:"seed"`
	Workers       int     `json:"workers,omitempty"`
}

// Validate checks the config before a run is created.
func (c *RunConfig) Validate() error {
	if c.Objective == "" {
		return &ValidationError{Field: "Objective", Reason: "cannot be empty"}
	}
	if c.Dim <= 0 {
		return &ValidationError{Field: "Dim", Reason: "must be positive"}
	}
	if c.Lower >= c.Upper {
		return &ValidationError{Field: "Lower", Reason: "must be less than Upper"}
	}
	if c.PopSize < 2 {
		return &ValidationError{Field: "PopSize", Reason: "must be at least 2"}
	}
	if c.EliteCount < 0 || c.EliteCount >= c.PopSize {
		return &ValidationError{Field: "EliteCount", Reason: "must be in [0, PopSize)"}
	}
	if c.Generations <= 0 {
		return &ValidationError{Field: "Generations", Reason: "must be positive"}
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return &ValidationError{Field: "MutationProb", Reason: "must be in [0,1]"}
	}
	if c.MutationScale <= 0 {
		return &ValidationError{Field: "MutationScale", Reason: "must be positive"}
	}
	return nil
}

// RunRecord is the persisted result of a completed run. Only the outcome is
// stored; live search state (population, random stream) is deliberately not
// persisted and runs cannot be resumed across process restarts.
type RunRecord struct {
	// RunID is the unique identifier for this run
	RunID string `json:"runId"`

	// BestPosition is the best point found in the search domain
	BestPosition []float64 `json:"bestPosition"`

	// BestFitness is the objective value at BestPosition
	BestFitness float64 `json:"bestFitness"`

	// Generations is the number of generation transitions completed
	Generations int `json:"generations"`

	// Anomalies counts objective evaluations that returned NaN or -Inf
	Anomalies int64 `json:"anomalies"`

	// Timestamp records when this record was created
	Timestamp time.Time `json:"timestamp"`

	// Config holds the run configuration for provenance
	Config RunConfig `json:"config"`
}

// RunInfo contains metadata about a persisted run without the full position
// data. Used for listing runs efficiently.
type RunInfo struct {
	RunID       string    `json:"runId"`
	Objective   string    `json:"objective"`
	Dim         int       `json:"dim"`
	BestFitness float64   `json:"bestFitness"`
	Generations int       `json:"generations"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewRunRecord creates a record from run results.
func NewRunRecord(runID string, bestPosition []float64, bestFitness float64, generations int, anomalies int64, config RunConfig) *RunRecord {
	return &RunRecord{
		RunID:        runID,
		BestPosition: bestPosition,
		BestFitness:  bestFitness,
		Generations:  generations,
		Anomalies:    anomalies,
		Timestamp:    time.Now(),
		Config:       config,
	}
}

// ToInfo converts a full RunRecord to RunInfo (metadata only).
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		RunID:       r.RunID,
		Objective:   r.Config.Objective,
		Dim:         r.Config.Dim,
		BestFitness: r.BestFitness,
		Generations: r.Generations,
		Timestamp:   r.Timestamp,
	}
}

// Validate checks if the record has consistent data.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if len(r.BestPosition) == 0 {
		return &ValidationError{Field: "BestPosition", Reason: "cannot be empty"}
	}
	if r.Generations < 0 {
		return &ValidationError{Field: "Generations", Reason: "cannot be negative"}
	}
	if r.Anomalies < 0 {
		return &ValidationError{Field: "Anomalies", Reason: "cannot be negative"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if err := r.Config.Validate(); err != nil {
		return err
	}
	if len(r.BestPosition) != r.Config.Dim {
		return &ValidationError{
			Field:  "BestPosition",
			Reason: fmt.Sprintf("length mismatch: expected %d coordinates, got %d", r.Config.Dim, len(r.BestPosition)),
		}
	}
	return nil
}

// ValidationError represents a record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
