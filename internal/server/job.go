package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/evomax/internal/ga"
	"github.com/cwbudde/evomax/internal/store"
	"github.com/google/uuid"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// JobConfig is an alias to avoid duplication with store.RunConfig
type JobConfig = store.RunConfig

// Job represents an optimization job
type Job struct {
	ID            string               `json:"id"`
	State         JobState             `json:"state"`
	Config        JobConfig            `json:"config"`
	BestPosition  []float64            `json:"bestPosition,omitempty"`
	BestFitness   float64              `json:"bestFitness"`
	Generation    int                  `json:"generation"`
	MeanFitness   float64              `json:"meanFitness"`
	MeanDiversity float64              `json:"meanDiversity"`
	Anomalies     int64                `json:"anomalies"`
	History       []ga.GenerationStats `json:"-"`
	StartTime     time.Time            `json:"startTime"`
	EndTime       *time.Time           `json:"endTime,omitempty"`
	Error         string               `json:"error,omitempty"`
}

// snapshot deep-copies the job so callers can read it without holding the
// manager lock while the worker keeps mutating the stored instance.
func (j *Job) snapshot() *Job {
	copied := *j
	if j.BestPosition != nil {
		copied.BestPosition = append([]float64(nil), j.BestPosition...)
	}
	if j.History != nil {
		copied.History = append([]ga.GenerationStats(nil), j.History...)
	}
	if j.EndTime != nil {
		endTime := *j.EndTime
		copied.EndTime = &endTime
	}
	return &copied
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *EventBroadcaster
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob creates a new job with the given configuration
func (jm *JobManager) CreateJob(config JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	return job.snapshot()
}

// GetJob retrieves a snapshot of a job by ID
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return nil, false
	}
	return job.snapshot(), true
}

// ListJobs returns snapshots of all jobs
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, job.snapshot())
	}
	return jobs
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// GetRunningJobs returns snapshots of all jobs currently in the running state
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	runningJobs := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			runningJobs = append(runningJobs, job.snapshot())
		}
	}
	return runningJobs
}
