package expression

import (
	"errors"
	"testing"
)

// fakeProc is a test procedure with a scripted result and an update
// counter.
type fakeProc struct {
	typ     string
	name    string
	result  bool
	err     error
	updates int
}

func (p *fakeProc) Type() string      { return p.typ }
func (p *fakeProc) Name() string      { return p.name }
func (p *fakeProc) Rename(name string) { p.name = name }
func (p *fakeProc) Result() bool      { return p.result }

func (p *fakeProc) Update(_ *Context) (bool, error) {
	p.updates++
	if p.err != nil {
		return false, p.err
	}
	return p.result, nil
}

func TestEmptyExpression(t *testing.T) {
	var e Expression

	if e.Kind() != KindEmpty {
		t.Errorf("expected KindEmpty, got %s", e.Kind())
	}
	if e.Bool() {
		t.Error("empty expression should convert to false")
	}

	r, err := e.Evaluate(NewContext(nil, nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind() != KindEmpty {
		t.Errorf("empty expression should evaluate to itself, got %s", r.Kind())
	}
}

func TestBooleanLiteral(t *testing.T) {
	if !Boolean(true).Bool() {
		t.Error("Boolean(true) should convert to true")
	}
	if Boolean(false).Bool() {
		t.Error("Boolean(false) should convert to false")
	}
}

func TestAllEvaluatesEveryOperand(t *testing.T) {
	// The first operand is already false; the rest must still be
	// evaluated so stateful conditions see every tick.
	procs := []*fakeProc{
		{typ: "Speed", result: false},
		{typ: "Speed", result: true},
		{typ: "Timeout", result: true},
	}
	e := NewAll(NewProcedure(procs[0]), NewProcedure(procs[1]), NewProcedure(procs[2]))

	r, err := e.Evaluate(NewContext(nil, nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Bool() {
		t.Error("All with a false operand should be false")
	}
	for i, p := range procs {
		if p.updates != 1 {
			t.Errorf("operand %d: expected 1 update, got %d", i, p.updates)
		}
	}
}

func TestAnyEvaluatesEveryOperand(t *testing.T) {
	procs := []*fakeProc{
		{typ: "Speed", result: true},
		{typ: "Timeout", result: false},
	}
	e := NewAny(NewProcedure(procs[0]), NewProcedure(procs[1]))

	r, err := e.Evaluate(NewContext(nil, nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Bool() {
		t.Error("Any with a true operand should be true")
	}
	if procs[1].updates != 1 {
		t.Errorf("later operand must still be evaluated, got %d updates", procs[1].updates)
	}
}

func TestEmptyCombinators(t *testing.T) {
	ctx := NewContext(nil, nil, nil)

	r, err := NewAll().Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Bool() {
		t.Error("All with no operands should be true")
	}

	r, err = NewAny().Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Bool() {
		t.Error("Any with no operands should be false")
	}
}

func TestNotNegates(t *testing.T) {
	ctx := NewContext(nil, nil, nil)

	r, err := NewNot(Boolean(true)).Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Bool() {
		t.Error("Not(true) should be false")
	}

	r, err = NewNot(NewNot(Boolean(true))).Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Bool() {
		t.Error("Not(Not(true)) should be true")
	}
}

func TestProcedureErrorAborts(t *testing.T) {
	boom := errors.New("sensor offline")
	inner := NewProcedure(&fakeProc{typ: "Speed", err: boom})
	sibling := &fakeProc{typ: "Timeout", result: true}
	e := NewAll(inner, NewProcedure(sibling))

	_, err := e.Evaluate(NewContext(nil, nil, nil))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped procedure error, got %v", err)
	}
}

func TestCopySharesBacking(t *testing.T) {
	proc := &fakeProc{typ: "Speed", result: true}
	original := NewProcedure(proc)
	copied := original

	copied.Report("", 0)
	if proc.name == "" {
		t.Fatal("report should auto-name the procedure")
	}
	// Naming through the copy must be visible through the original.
	got := original.Report("", 0).Name
	if got != proc.name {
		t.Errorf("expected shared name %q, got %q", proc.name, got)
	}
}

func TestReportAutoNaming(t *testing.T) {
	speed1 := &fakeProc{typ: "Speed", result: true}
	speed2 := &fakeProc{typ: "Speed", result: false}
	timeout := &fakeProc{typ: "Timeout", result: true}

	e := NewAll(
		NewProcedure(speed1),
		NewProcedure(speed2),
		NewAny(NewProcedure(timeout)),
	)

	report := e.Report("", 0)
	leaves := report.Flatten()
	want := []string{
		"All(0)/Speed(0)",
		"All(0)/Speed(1)",
		"All(0)/Any(0)/Timeout(0)",
	}
	if len(leaves) != len(want) {
		t.Fatalf("expected %d leaves, got %d", len(want), len(leaves))
	}
	for i, name := range want {
		if leaves[i].Name != name {
			t.Errorf("leaf %d: expected %q, got %q", i, name, leaves[i].Name)
		}
	}
	if !leaves[0].Value || leaves[1].Value {
		t.Error("leaf values should carry the last procedure results")
	}
}

func TestReportExplicitNameSticks(t *testing.T) {
	proc := &fakeProc{typ: "Speed", name: "ego too fast", result: true}
	e := NewAll(NewProcedure(proc))

	leaves := e.Report("", 0).Flatten()
	if len(leaves) != 1 || leaves[0].Name != "ego too fast" {
		t.Fatalf("explicit name should survive reporting, got %+v", leaves)
	}
}

func TestReportLiteralIsSpliced(t *testing.T) {
	// Boolean literals have no name and no children; they disappear
	// from the flattened condition list.
	e := NewAll(Boolean(true), NewProcedure(&fakeProc{typ: "Speed", result: true}))

	leaves := e.Report("", 0).Flatten()
	if len(leaves) != 1 {
		t.Fatalf("expected 1 leaf, got %d", len(leaves))
	}
}

func TestContextMissingCollaborators(t *testing.T) {
	ctx := NewContext(nil, nil, nil)

	var missing *MissingCollaboratorError
	if _, err := ctx.API(); !errors.As(err, &missing) {
		t.Errorf("expected MissingCollaboratorError, got %v", err)
	}
	if _, err := ctx.Entities(); !errors.As(err, &missing) {
		t.Errorf("expected MissingCollaboratorError, got %v", err)
	}
	if _, err := ctx.Intersections(); !errors.As(err, &missing) {
		t.Errorf("expected MissingCollaboratorError, got %v", err)
	}
}
