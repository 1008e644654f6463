package recorder_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"scenario-hq/criterion/pkg/recorder"
	"scenario-hq/criterion/pkg/recorder/storage"
	"scenario-hq/criterion/pkg/sdl/ast"
)

func TestRecorderRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	rec := recorder.New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := rec.Begin(ctx, "scenario.yaml"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	runID := rec.RunID()
	if _, err := uuid.Parse(runID); err != nil {
		t.Errorf("RunID() = %q, not a valid UUID: %v", runID, err)
	}

	success := ast.Group([]ast.Report{ast.Leaf("All(0)/Timeout(0)", false)})
	failure := ast.Report{}
	if err := rec.RecordTick(ctx, 1, "running", success, failure, 42*time.Microsecond); err != nil {
		t.Fatalf("RecordTick() error = %v", err)
	}
	if err := rec.RecordTick(ctx, 2, "succeeded", success, failure, 37*time.Microsecond); err != nil {
		t.Fatalf("RecordTick() error = %v", err)
	}

	if err := rec.Finish(ctx, "succeeded", 2); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if rec.RunID() != "" {
		t.Errorf("RunID() = %q after Finish, want empty", rec.RunID())
	}

	run, err := store.Run(ctx, runID)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Verdict != "succeeded" || run.Ticks != 2 {
		t.Errorf("run = verdict %q ticks %d, want succeeded/2", run.Verdict, run.Ticks)
	}
	if run.FinishedAt.IsZero() {
		t.Error("run.FinishedAt is zero after Finish")
	}

	ticks, err := store.Ticks(ctx, runID)
	if err != nil {
		t.Fatalf("Ticks() error = %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("len(ticks) = %d, want 2", len(ticks))
	}
	if !strings.Contains(ticks[0].SuccessReport, "Timeout(0)") {
		t.Errorf("SuccessReport = %q, want encoded report", ticks[0].SuccessReport)
	}
	if ticks[1].Verdict != "succeeded" {
		t.Errorf("ticks[1].Verdict = %q, want succeeded", ticks[1].Verdict)
	}
}

func TestRecorderDoubleBegin(t *testing.T) {
	ctx := context.Background()
	rec := recorder.New(storage.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := rec.Begin(ctx, "scenario.yaml"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := rec.Begin(ctx, "scenario.yaml"); err == nil {
		t.Error("second Begin() succeeded, want error")
	}
}

func TestRecorderTickWithoutRun(t *testing.T) {
	ctx := context.Background()
	rec := recorder.New(storage.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := rec.RecordTick(ctx, 1, "running", ast.Report{}, ast.Report{}, time.Microsecond)
	if err == nil {
		t.Error("RecordTick() without Begin succeeded, want error")
	}
	if err := rec.Finish(ctx, "failed", 0); err == nil {
		t.Error("Finish() without Begin succeeded, want error")
	}
}
