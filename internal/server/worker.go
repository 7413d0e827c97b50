package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/evomax/internal/ga"
	"github.com/cwbudde/evomax/internal/realvec"
	"github.com/cwbudde/evomax/internal/store"
)

// runJob executes an optimization job in the background. If resultStore is
// not nil, the per-generation trace and the final run record are persisted.
func runJob(ctx context.Context, jm *JobManager, resultStore *store.FSStore, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "objective", job.Config.Objective, "dim", job.Config.Dim)

	objective, err := realvec.Benchmark(job.Config.Objective)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	// Check for cancellation before starting the long-running search
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	var traceWriter *store.TraceWriter
	if resultStore != nil {
		traceWriter, err = store.NewTraceWriter(resultStore.BaseDir(), jobID, false)
		if err != nil {
			slog.Warn("Failed to create trace writer", "job_id", jobID, "error", err)
			traceWriter = nil
		} else {
			defer traceWriter.Close()
		}
	}

	// The engine invokes this hook after every generation; it feeds both
	// the SSE stream and the durable trace.
	onGeneration := func(stats ga.GenerationStats) {
		jm.UpdateJob(jobID, func(j *Job) {
			j.Generation = stats.Generation
			j.BestFitness = stats.BestFitness
			j.MeanFitness = stats.MeanFitness
			j.MeanDiversity = stats.MeanDiversity
			j.History = append(j.History, stats)
		})

		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:         jobID,
			State:         StateRunning,
			Generation:    stats.Generation,
			BestFitness:   stats.BestFitness,
			MeanFitness:   stats.MeanFitness,
			MeanDiversity: stats.MeanDiversity,
			Timestamp:     time.Now(),
		})

		if traceWriter != nil {
			entry := store.TraceEntry{
				Generation:    stats.Generation,
				BestFitness:   stats.BestFitness,
				MeanFitness:   stats.MeanFitness,
				MeanDiversity: stats.MeanDiversity,
				Timestamp:     time.Now(),
			}
			if err := traceWriter.Write(entry); err != nil {
				slog.Warn("Failed to write trace entry", "job_id", jobID, "error", err)
			}
		}
	}

	engineCfg := ga.DefaultConfig()
	engineCfg.PopulationSize = job.Config.PopSize
	engineCfg.EliteCount = job.Config.EliteCount
	engineCfg.MutationProb = job.Config.MutationProb
	engineCfg.Generations = job.Config.Generations
	engineCfg.Seed = job.Config.Seed
	engineCfg.Workers = job.Config.Workers

	start := time.Now()
	result, err := realvec.Maximize(objective, realvec.RunConfig{
		Bounds:        realvec.NewUniformBounds(job.Config.Dim, job.Config.Lower, job.Config.Upper),
		MutationScale: job.Config.MutationScale,
		Engine:        engineCfg,
		OnGeneration:  onGeneration,
	})
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}
	elapsed := time.Since(start)

	// Check for cancellation after the search
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.BestPosition = result.Position
		j.BestFitness = result.Fitness
		j.Generation = result.Generations
		j.Anomalies = result.Anomalies
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"best_fitness", result.Fitness,
		"generations", result.Generations,
		"anomalies", result.Anomalies,
	)

	if traceWriter != nil {
		if err := traceWriter.Flush(); err != nil {
			slog.Warn("Failed to flush trace", "job_id", jobID, "error", err)
		}
	}

	if resultStore != nil {
		record := store.NewRunRecord(jobID, result.Position, result.Fitness, result.Generations, result.Anomalies, job.Config)
		if err := resultStore.SaveRecord(jobID, record); err != nil {
			slog.Warn("Failed to persist run record", "job_id", jobID, "error", err)
		}
	}

	// Broadcast final completion event
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:       jobID,
		State:       StateCompleted,
		Generation:  result.Generations,
		BestFitness: result.Fitness,
		Timestamp:   time.Now(),
	})

	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
