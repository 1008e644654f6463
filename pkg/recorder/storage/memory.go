package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"scenario-hq/criterion/pkg/recorder"
)

// MemoryStorage implements recorder.Storage in memory. It is used in
// tests and when persistence is disabled.
type MemoryStorage struct {
	mu    sync.RWMutex
	runs  map[string]*recorder.Run
	ticks map[string][]*recorder.TickRecord
}

// NewMemoryStorage creates an empty in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs:  make(map[string]*recorder.Run),
		ticks: make(map[string][]*recorder.TickRecord),
	}
}

// BeginRun persists a new run in the running state.
func (s *MemoryStorage) BeginRun(_ context.Context, run *recorder.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return recorder.NewStorageError("memory", "begin_run",
			fmt.Errorf("run %s already exists", run.ID))
	}
	clone := *run
	s.runs[run.ID] = &clone
	return nil
}

// RecordTick appends a tick record to its run.
func (s *MemoryStorage) RecordTick(_ context.Context, record *recorder.TickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[record.RunID]; !ok {
		return recorder.NewStorageError("memory", "record_tick",
			fmt.Errorf("run %s not found", record.RunID))
	}
	clone := *record
	s.ticks[record.RunID] = append(s.ticks[record.RunID], &clone)
	return nil
}

// FinishRun marks a run finished.
func (s *MemoryStorage) FinishRun(_ context.Context, runID, verdict string, ticks int, finishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return recorder.NewStorageError("memory", "finish_run",
			fmt.Errorf("run %s not found", runID))
	}
	run.Verdict = verdict
	run.Ticks = ticks
	run.FinishedAt = finishedAt
	return nil
}

// Run retrieves a single run by ID.
func (s *MemoryStorage) Run(_ context.Context, runID string) (*recorder.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, recorder.NewStorageError("memory", "run",
			fmt.Errorf("run %s not found", runID))
	}
	clone := *run
	return &clone, nil
}

// Runs retrieves the most recent runs, newest first.
func (s *MemoryStorage) Runs(_ context.Context, limit int) ([]*recorder.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*recorder.Run, 0, len(s.runs))
	for _, run := range s.runs {
		clone := *run
		runs = append(runs, &clone)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Ticks retrieves all tick records of a run in tick order.
func (s *MemoryStorage) Ticks(_ context.Context, runID string) ([]*recorder.TickRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*recorder.TickRecord, 0, len(s.ticks[runID]))
	for _, record := range s.ticks[runID] {
		clone := *record
		records = append(records, &clone)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Tick < records[j].Tick
	})
	return records, nil
}

// CountRuns returns the total number of stored runs.
func (s *MemoryStorage) CountRuns(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.runs)), nil
}

// DeleteRunsBefore deletes runs that started before the cutoff.
func (s *MemoryStorage) DeleteRunsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, run := range s.runs {
		if run.StartedAt.Before(cutoff) {
			delete(s.runs, id)
			delete(s.ticks, id)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteRunsBeyond deletes the oldest runs so at most max remain.
func (s *MemoryStorage) DeleteRunsBeyond(_ context.Context, max int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int64(len(s.runs)) <= max {
		return 0, nil
	}

	runs := make([]*recorder.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})

	var deleted int64
	for _, run := range runs[:int64(len(runs))-max] {
		delete(s.runs, run.ID)
		delete(s.ticks, run.ID)
		deleted++
	}
	return deleted, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
