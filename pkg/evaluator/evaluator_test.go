package evaluator

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"scenario-hq/criterion/pkg/expression"
)

// scriptedProc returns a scripted sequence of results, repeating the
// last entry once the script runs out.
type scriptedProc struct {
	typ     string
	name    string
	script  []bool
	err     error
	updates int
}

func (p *scriptedProc) Type() string       { return p.typ }
func (p *scriptedProc) Name() string       { return p.name }
func (p *scriptedProc) Rename(name string) { p.name = name }

func (p *scriptedProc) Result() bool {
	if p.updates == 0 {
		return false
	}
	i := p.updates - 1
	if i >= len(p.script) {
		i = len(p.script) - 1
	}
	return p.script[i]
}

func (p *scriptedProc) Update(_ *expression.Context) (bool, error) {
	p.updates++
	if p.err != nil {
		return false, p.err
	}
	return p.Result(), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerdictProgression(t *testing.T) {
	success := &scriptedProc{typ: "ReachPosition", script: []bool{false, false, true}}
	ev := New(expression.NewProcedure(success), expression.Expression{}, testLogger())
	ctx := expression.NewContext(nil, nil, nil)

	for tick, want := range []Verdict{VerdictRunning, VerdictRunning, VerdictSucceeded} {
		got, err := ev.Tick(ctx)
		if err != nil {
			t.Fatalf("tick %d: unexpected error: %v", tick+1, err)
		}
		if got != want {
			t.Errorf("tick %d: expected %s, got %s", tick+1, want, got)
		}
	}
	if ev.Ticks() != 3 {
		t.Errorf("expected 3 ticks, got %d", ev.Ticks())
	}
}

func TestFailureWins(t *testing.T) {
	// Both trees become true on the same tick; failure takes
	// precedence.
	success := &scriptedProc{typ: "ReachPosition", script: []bool{true}}
	failure := &scriptedProc{typ: "Timeout", script: []bool{true}}
	ev := New(expression.NewProcedure(success), expression.NewProcedure(failure), testLogger())

	got, err := ev.Tick(expression.NewContext(nil, nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != VerdictFailed {
		t.Errorf("expected failed, got %s", got)
	}
}

func TestBothTreesEvaluateEveryTick(t *testing.T) {
	success := &scriptedProc{typ: "ReachPosition", script: []bool{false}}
	failure := &scriptedProc{typ: "Timeout", script: []bool{false}}
	ev := New(expression.NewProcedure(success), expression.NewProcedure(failure), testLogger())
	ctx := expression.NewContext(nil, nil, nil)

	for i := 0; i < 3; i++ {
		if _, err := ev.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success.updates != 3 || failure.updates != 3 {
		t.Errorf("expected 3 updates each, got success=%d failure=%d", success.updates, failure.updates)
	}
}

func TestTickAfterTerminalVerdict(t *testing.T) {
	success := &scriptedProc{typ: "ReachPosition", script: []bool{true}}
	ev := New(expression.NewProcedure(success), expression.Expression{}, testLogger())
	ctx := expression.NewContext(nil, nil, nil)

	if _, err := ev.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ev.Tick(ctx)
	var terminated *TerminatedError
	if !errors.As(err, &terminated) {
		t.Fatalf("expected TerminatedError, got %v", err)
	}
	if terminated.Verdict != VerdictSucceeded || terminated.Ticks != 1 {
		t.Errorf("unexpected error detail: %+v", terminated)
	}
	if got != VerdictSucceeded {
		t.Errorf("verdict should be preserved, got %s", got)
	}
	if success.updates != 1 {
		t.Errorf("terminated scenario must not re-evaluate, got %d updates", success.updates)
	}
}

func TestEvaluationErrorKeepsVerdict(t *testing.T) {
	boom := errors.New("telemetry gap")
	success := &scriptedProc{typ: "Speed", err: boom}
	ev := New(expression.NewProcedure(success), expression.Expression{}, testLogger())

	got, err := ev.Tick(expression.NewContext(nil, nil, nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if got != VerdictRunning {
		t.Errorf("error must not change the verdict, got %s", got)
	}
	if ev.Ticks() != 0 {
		t.Errorf("aborted tick must not count, got %d", ev.Ticks())
	}
}

func TestEmptyTreesRunForever(t *testing.T) {
	ev := New(expression.Expression{}, expression.Expression{}, testLogger())
	ctx := expression.NewContext(nil, nil, nil)

	for i := 0; i < 5; i++ {
		got, err := ev.Tick(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != VerdictRunning {
			t.Fatalf("empty criteria should never terminate, got %s", got)
		}
	}
}

func TestReportsTrackLastTick(t *testing.T) {
	success := &scriptedProc{typ: "ReachPosition", script: []bool{false, true}}
	ev := New(expression.NewProcedure(success), expression.Expression{}, testLogger())
	ctx := expression.NewContext(nil, nil, nil)

	if _, err := ev.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report, _ := ev.Reports()
	leaves := report.Flatten()
	if len(leaves) != 1 || leaves[0].Value {
		t.Fatalf("first tick should report false, got %+v", leaves)
	}

	if _, err := ev.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report, _ = ev.Reports()
	leaves = report.Flatten()
	if len(leaves) != 1 || !leaves[0].Value {
		t.Fatalf("second tick should report true, got %+v", leaves)
	}
	if leaves[0].Name != "ReachPosition(0)" {
		t.Errorf("unexpected auto-generated name %q", leaves[0].Name)
	}
}

func TestVerdictIsTerminal(t *testing.T) {
	if VerdictRunning.IsTerminal() {
		t.Error("running is not terminal")
	}
	if !VerdictSucceeded.IsTerminal() || !VerdictFailed.IsTerminal() {
		t.Error("succeeded and failed are terminal")
	}
}
