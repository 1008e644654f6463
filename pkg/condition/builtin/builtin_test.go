package builtin

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/entity"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/intersection"
	"scenario-hq/criterion/pkg/simulator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testIntersections(t *testing.T, sim simulator.API) *intersection.Registry {
	t.Helper()

	cfg := intersection.Config{
		Name:    "crossing_east",
		Initial: "Stop",
		States: map[string][]intersection.Signal{
			"Stop": {{ID: 1, Color: intersection.ColorRed}},
			"Go":   {{ID: 1, Color: intersection.ColorGreen}},
		},
	}
	controller, err := intersection.NewController(cfg, sim, testLogger())
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	registry := intersection.NewRegistry()
	if err := registry.Add(controller); err != nil {
		t.Fatalf("registry: %v", err)
	}
	return registry
}

func TestRegister(t *testing.T) {
	r := condition.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, typ := range []string{"Timeout", "Speed", "ReachPosition", "Signal", "Intersection"} {
		if _, err := r.ResolveType(typ); err != nil {
			t.Errorf("type %s should resolve: %v", typ, err)
		}
	}
}

func TestTimeout(t *testing.T) {
	sim := simulator.NewMemory("ego")
	ctx := expression.NewContext(sim, nil, nil)

	timeout := NewTimeout()
	if err := timeout.Configure(map[string]any{"Limit": 1}, sim); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := timeout.Update(ctx)
	if err != nil || got {
		t.Errorf("before the limit: got %v, %v", got, err)
	}

	sim.Advance(time.Second)
	if got, _ := timeout.Update(ctx); !got {
		t.Error("at the limit: expected true")
	}
}

func TestTimeoutConfigure(t *testing.T) {
	sim := simulator.NewMemory("ego")
	tests := []struct {
		name string
		cfg  map[string]any
	}{
		{"missing limit", map[string]any{}},
		{"negative limit", map[string]any{"Limit": -1}},
		{"bad limit type", map[string]any{"Limit": []any{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewTimeout().Configure(tt.cfg, sim); err == nil {
				t.Error("expected configuration error")
			}
		})
	}

	if err := NewTimeout().Configure(map[string]any{"Limit": 1}, nil); err == nil {
		t.Error("nil API should fail")
	}
}

func TestTimeoutKeepLatch(t *testing.T) {
	sim := simulator.NewMemory("ego")
	ctx := expression.NewContext(sim, nil, nil)

	// Without Keep the result tracks the clock each tick; with Keep a
	// true result latches. Simulation time is monotonic, so force the
	// distinction through a second, longer timeout.
	latched := NewTimeout()
	if err := latched.Configure(map[string]any{"Limit": "500ms", "Keep": true}, sim); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sim.Advance(time.Second)
	if got, _ := latched.Update(ctx); !got {
		t.Fatal("expected true after limit")
	}
	if !latched.Latched() {
		t.Error("true result with Keep should latch")
	}
	if got, _ := latched.Update(ctx); !got {
		t.Error("latched result should stay true")
	}
}

func TestSpeedEgo(t *testing.T) {
	sim := simulator.NewMemory("ego")
	sim.SetVelocity("ego", 12.0)
	ctx := expression.NewContext(sim, nil, nil)

	speed := NewSpeed()
	err := speed.Configure(map[string]any{
		"Trigger": "ego",
		"Value":   10.0,
		"Rule":    ">",
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, err := speed.Update(ctx); err != nil || !got {
		t.Errorf("12 > 10: got %v, %v", got, err)
	}

	sim.SetVelocity("ego", 8.0)
	if got, _ := speed.Update(ctx); got {
		t.Error("8 > 10: expected false")
	}
}

func TestSpeedNPC(t *testing.T) {
	sim := simulator.NewMemory("ego")
	sim.SetVelocity("npc_1", 3.0)
	ctx := expression.NewContext(sim, nil, nil)

	speed := NewSpeed()
	err := speed.Configure(map[string]any{
		"Trigger": "npc_1",
		"Value":   5.0,
		"Rule":    "<",
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, err := speed.Update(ctx); err != nil || !got {
		t.Errorf("3 < 5: got %v, %v", got, err)
	}
}

func TestSpeedUnknownTriggerScoresFalse(t *testing.T) {
	sim := simulator.NewMemory("ego")
	ctx := expression.NewContext(sim, nil, nil)

	speed := NewSpeed()
	err := speed.Configure(map[string]any{
		"Trigger": "ghost",
		"Value":   5.0,
		"Rule":    "<",
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An unknown trigger at runtime scores false instead of aborting
	// the tick.
	got, err := speed.Update(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("unknown trigger should score false")
	}
}

func TestSpeedValidate(t *testing.T) {
	sim := simulator.NewMemory("ego")
	entities := entity.NewRegistry()
	if err := entities.Add(entity.Entity{Name: "ego", Kind: entity.KindEgo}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	speed := NewSpeed()
	err := speed.Configure(map[string]any{
		"Trigger": "ghost",
		"Value":   5.0,
		"Rule":    "<",
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := speed.Validate(expression.NewContext(sim, entities, nil)); err == nil {
		t.Error("undeclared trigger should fail validation")
	}
	// Without an entity registry there is nothing to check against.
	if err := speed.Validate(expression.NewContext(sim, nil, nil)); err != nil {
		t.Errorf("nil registry should skip validation, got %v", err)
	}
}

func TestReachPosition(t *testing.T) {
	sim := simulator.NewMemory("ego")
	sim.SetPose("ego", simulator.Pose{X: 10, Y: 10})
	ctx := expression.NewContext(sim, nil, nil)

	reach := NewReachPosition()
	err := reach.Configure(map[string]any{
		"Trigger":   "ego",
		"X":         12.0,
		"Y":         10.0,
		"Tolerance": 2.5,
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, err := reach.Update(ctx); err != nil || !got {
		t.Errorf("distance 2 <= tolerance 2.5: got %v, %v", got, err)
	}

	sim.SetPose("ego", simulator.Pose{X: 20, Y: 20})
	if got, _ := reach.Update(ctx); got {
		t.Error("far away: expected false")
	}
}

func TestReachPositionDefaults(t *testing.T) {
	sim := simulator.NewMemory("ego")
	sim.SetPose("ego", simulator.Pose{X: 0.9, Y: 0})
	ctx := expression.NewContext(sim, nil, nil)

	reach := NewReachPosition()
	err := reach.Configure(map[string]any{
		"Trigger": "ego",
		"X":       0.0,
		"Y":       0.0,
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Default tolerance is 1.0.
	if got, _ := reach.Update(ctx); !got {
		t.Error("distance 0.9 within default tolerance 1.0")
	}
}

func TestReachPositionRejectsBadTolerance(t *testing.T) {
	sim := simulator.NewMemory("ego")
	err := NewReachPosition().Configure(map[string]any{
		"Trigger":   "ego",
		"X":         0.0,
		"Y":         0.0,
		"Tolerance": -1.0,
	}, sim)
	if err == nil {
		t.Error("negative tolerance should fail configuration")
	}
}

func TestSignalObservesController(t *testing.T) {
	sim := simulator.NewMemory("ego")
	intersections := testIntersections(t, sim)
	ctx := expression.NewContext(sim, nil, intersections)

	sig := NewSignal()
	err := sig.Configure(map[string]any{
		"Intersection": "crossing_east",
		"State":        "Go",
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, err := sig.Update(ctx); err != nil || got {
		t.Errorf("initial state Stop: got %v, %v", got, err)
	}

	controller, err := intersections.Resolve("crossing_east")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := controller.TransitionTo("Go"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Transitions made earlier in the same tick are observed.
	if got, _ := sig.Update(ctx); !got {
		t.Error("after transition: expected true")
	}
}

func TestSignalValidate(t *testing.T) {
	sim := simulator.NewMemory("ego")
	intersections := testIntersections(t, sim)
	ctx := expression.NewContext(sim, nil, intersections)

	tests := []struct {
		name         string
		intersection string
		state        string
		wantErr      string
	}{
		{"declared", "crossing_east", "Go", ""},
		{"implicit blank state", "crossing_east", "Blank", ""},
		{"unknown intersection", "nowhere", "Go", "not declared"},
		{"unknown state", "crossing_east", "Purple", "does not declare state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := NewSignal()
			err := sig.Configure(map[string]any{
				"Intersection": tt.intersection,
				"State":        tt.state,
			}, sim)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			err = sig.Validate(ctx)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	// A missing intersection registry is an error for Signal: the
	// reference can never be satisfied.
	sig := NewSignal()
	if err := sig.Configure(map[string]any{"Intersection": "crossing_east", "State": "Go"}, sim); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sig.Validate(expression.NewContext(sim, nil, nil)); err == nil {
		t.Error("nil intersection registry should fail validation")
	}
}

func TestCombinedCriteria(t *testing.T) {
	// All[Timeout(10s), Speed(>= 5)] at t=11s with speed 3: the
	// conjunction is false even though the timeout already fired.
	sim := simulator.NewMemory("ego")
	sim.Advance(11 * time.Second)
	sim.SetVelocity("ego", 3.0)
	ctx := expression.NewContext(sim, nil, nil)

	timeout := NewTimeout()
	if err := timeout.Configure(map[string]any{"Limit": 10}, sim); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	speed := NewSpeed()
	if err := speed.Configure(map[string]any{"Trigger": "ego", "Value": 5.0, "Rule": ">="}, sim); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tree := expression.NewAll(expression.NewProcedure(timeout), expression.NewProcedure(speed))
	result, err := tree.Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Bool() {
		t.Error("conjunction should be false")
	}
	if !timeout.Result() || speed.Result() {
		t.Errorf("per-condition results: timeout=%v speed=%v", timeout.Result(), speed.Result())
	}
}

func TestIntersectionAction(t *testing.T) {
	sim := simulator.NewMemory("ego")
	intersections := testIntersections(t, sim)
	ctx := expression.NewContext(sim, nil, intersections)

	action := NewIntersectionAction()
	err := action.Configure(map[string]any{
		"Intersection": "crossing_east",
		"State":        "Go",
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := action.Update(ctx)
	if err != nil || !got {
		t.Fatalf("transition: got %v, %v", got, err)
	}

	controller, _ := intersections.Resolve("crossing_east")
	if !controller.Is("Go") {
		t.Errorf("expected state Go, got %s", controller.Current())
	}

	// Re-application each tick is idempotent and re-asserts the
	// signal commands.
	before := len(sim.Commands())
	if got, err := action.Update(ctx); err != nil || !got {
		t.Fatalf("repeat transition: got %v, %v", got, err)
	}
	if len(sim.Commands()) <= before {
		t.Error("repeat transition should re-issue commands")
	}
}

func TestIntersectionActionPartialFailure(t *testing.T) {
	sim := simulator.NewMemory("ego")
	sim.FailSignal(1)
	intersections := testIntersections(t, sim)
	ctx := expression.NewContext(sim, nil, intersections)

	action := NewIntersectionAction()
	err := action.Configure(map[string]any{
		"Intersection": "crossing_east",
		"State":        "Go",
	}, sim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Actuator failures are best-effort; the action still reports
	// the transition as made.
	got, err := action.Update(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("partial application should still count as transitioned")
	}
}
