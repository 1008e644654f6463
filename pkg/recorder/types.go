package recorder

import (
	"context"
	"fmt"
	"time"
)

// Run is one evaluation session of a scenario, from the first tick to
// the terminal verdict (or an abort).
type Run struct {
	// ID is the run's UUID.
	ID string

	// Scenario is the path of the scenario document evaluated.
	Scenario string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run ended. Zero while the run is still
	// in progress.
	FinishedAt time.Time

	// Verdict is the final verdict, or "running" while in progress.
	Verdict string

	// Ticks is the number of evaluation ticks performed.
	Ticks int
}

// TickRecord is the outcome of a single evaluation tick.
type TickRecord struct {
	// RunID is the UUID of the run this tick belongs to.
	RunID string

	// Tick is the 1-based tick number within the run.
	Tick int

	// Verdict is the verdict after this tick.
	Verdict string

	// SuccessReport and FailureReport are the JSON-encoded criteria
	// reports from this tick.
	SuccessReport string
	FailureReport string

	// Duration is how long the tick's evaluation took.
	Duration time.Duration

	// RecordedAt is when the record was written.
	RecordedAt time.Time
}

// Storage is the persistence interface for runs and ticks.
type Storage interface {
	// BeginRun persists a new run in the running state.
	BeginRun(ctx context.Context, run *Run) error

	// RecordTick appends a tick record to its run.
	RecordTick(ctx context.Context, record *TickRecord) error

	// FinishRun marks a run finished with its final verdict and tick
	// count.
	FinishRun(ctx context.Context, runID, verdict string, ticks int, finishedAt time.Time) error

	// Run retrieves a single run by ID.
	Run(ctx context.Context, runID string) (*Run, error)

	// Runs retrieves the most recent runs, newest first.
	Runs(ctx context.Context, limit int) ([]*Run, error)

	// Ticks retrieves all tick records of a run in tick order.
	Ticks(ctx context.Context, runID string) ([]*TickRecord, error)

	// CountRuns returns the total number of stored runs.
	CountRuns(ctx context.Context) (int64, error)

	// DeleteRunsBefore deletes runs that started before the cutoff,
	// with their ticks. Returns the number of runs deleted.
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteRunsBeyond deletes the oldest runs so at most max remain.
	// Returns the number of runs deleted.
	DeleteRunsBeyond(ctx context.Context, max int64) (int64, error)

	// Close releases backend resources.
	Close() error
}

// StorageError wraps a backend failure with the backend name and the
// operation that failed.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

// NewStorageError creates a storage error.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}
