package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"scenario-hq/criterion/pkg/sdl/ast"
)

// Recorder writes one run and its tick records through a Storage
// backend. It is not safe for concurrent use; the evaluation loop is
// single-threaded.
type Recorder struct {
	storage Storage
	logger  *slog.Logger
	run     *Run
}

// New creates a recorder over the given storage backend.
func New(storage Storage, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		storage: storage,
		logger:  logger.With("component", "recorder"),
	}
}

// Begin starts a new run for the given scenario path and persists it.
func (r *Recorder) Begin(ctx context.Context, scenarioPath string) error {
	if r.run != nil {
		return fmt.Errorf("run %s already in progress", r.run.ID)
	}

	run := &Run{
		ID:        uuid.NewString(),
		Scenario:  scenarioPath,
		StartedAt: time.Now().UTC(),
		Verdict:   "running",
	}
	if err := r.storage.BeginRun(ctx, run); err != nil {
		return err
	}
	r.run = run

	r.logger.Info("run started",
		"run_id", run.ID,
		"scenario", scenarioPath,
	)
	return nil
}

// RunID returns the UUID of the run in progress, or empty.
func (r *Recorder) RunID() string {
	if r.run == nil {
		return ""
	}
	return r.run.ID
}

// RecordTick persists the outcome of one evaluation tick.
func (r *Recorder) RecordTick(ctx context.Context, tick int, verdict string, success, failure ast.Report, duration time.Duration) error {
	if r.run == nil {
		return fmt.Errorf("no run in progress")
	}

	successJSON, err := json.Marshal(success)
	if err != nil {
		return fmt.Errorf("encoding success report: %w", err)
	}
	failureJSON, err := json.Marshal(failure)
	if err != nil {
		return fmt.Errorf("encoding failure report: %w", err)
	}

	return r.storage.RecordTick(ctx, &TickRecord{
		RunID:         r.run.ID,
		Tick:          tick,
		Verdict:       verdict,
		SuccessReport: string(successJSON),
		FailureReport: string(failureJSON),
		Duration:      duration,
		RecordedAt:    time.Now().UTC(),
	})
}

// Finish marks the run finished with its final verdict.
func (r *Recorder) Finish(ctx context.Context, verdict string, ticks int) error {
	if r.run == nil {
		return fmt.Errorf("no run in progress")
	}

	finishedAt := time.Now().UTC()
	if err := r.storage.FinishRun(ctx, r.run.ID, verdict, ticks, finishedAt); err != nil {
		return err
	}

	r.logger.Info("run finished",
		"run_id", r.run.ID,
		"verdict", verdict,
		"ticks", ticks,
	)
	r.run = nil
	return nil
}
