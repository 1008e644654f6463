package condition

import (
	"strings"
	"testing"
	"time"

	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/simulator"
)

type stubModule struct {
	Base
}

func (m *stubModule) Configure(_ map[string]any, _ simulator.API) error { return nil }

func (m *stubModule) Update(_ *expression.Context) (bool, error) { return false, nil }

func TestBaseKeepLatch(t *testing.T) {
	b := NewBase("Timeout")

	if b.Latched() {
		t.Error("fresh base must not be latched")
	}

	b.SetResult(true)
	if b.Latched() {
		t.Error("latch disabled: true result must not latch")
	}

	b.SetKeep(true)
	if !b.Latched() {
		t.Error("keep enabled with true result should latch")
	}

	b.SetResult(false)
	if b.Latched() {
		t.Error("false result clears the latch")
	}
}

func TestBaseNaming(t *testing.T) {
	b := NewBase("Speed")
	if b.Type() != "Speed" {
		t.Errorf("unexpected type %q", b.Type())
	}
	if b.Name() != "" {
		t.Errorf("name should start empty, got %q", b.Name())
	}
	b.Rename("ego over limit")
	if b.Name() != "ego over limit" {
		t.Errorf("unexpected name %q", b.Name())
	}
}

func TestPayloadReaders(t *testing.T) {
	cfg := map[string]any{
		"Entity":    "ego",
		"Limit":     float64(8.5),
		"Count":     3,
		"Keep":      true,
		"BadString": 12,
	}

	if s, err := EssentialString(cfg, "Entity"); err != nil || s != "ego" {
		t.Errorf("EssentialString: got %q, %v", s, err)
	}
	if _, err := EssentialString(cfg, "Missing"); err == nil {
		t.Error("EssentialString: missing key should fail")
	}
	if _, err := EssentialString(cfg, "BadString"); err == nil {
		t.Error("EssentialString: wrong type should fail")
	}

	if s, err := OptionalString(cfg, "Missing", "npc"); err != nil || s != "npc" {
		t.Errorf("OptionalString: got %q, %v", s, err)
	}

	if f, err := EssentialFloat(cfg, "Limit"); err != nil || f != 8.5 {
		t.Errorf("EssentialFloat: got %v, %v", f, err)
	}
	// Integers from the YAML decoder pass as numbers.
	if f, err := EssentialFloat(cfg, "Count"); err != nil || f != 3 {
		t.Errorf("EssentialFloat int: got %v, %v", f, err)
	}
	if f, err := OptionalFloat(cfg, "Missing", 1.5); err != nil || f != 1.5 {
		t.Errorf("OptionalFloat: got %v, %v", f, err)
	}

	if b, err := OptionalBool(cfg, "Keep", false); err != nil || !b {
		t.Errorf("OptionalBool: got %v, %v", b, err)
	}
	if b, err := OptionalBool(cfg, "Missing", true); err != nil || !b {
		t.Errorf("OptionalBool default: got %v, %v", b, err)
	}
}

func TestEssentialDuration(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    time.Duration
		wantErr bool
	}{
		{"bare seconds", 5, 5 * time.Second, false},
		{"fractional seconds", 0.5, 500 * time.Millisecond, false},
		{"duration string", "1m30s", 90 * time.Second, false},
		{"bad string", "soon", 0, true},
		{"bad type", []any{}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EssentialDuration(map[string]any{"Duration": tt.value}, "Duration")
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := EssentialDuration(map[string]any{}, "Duration"); err == nil {
		t.Error("missing key should fail")
	}
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		rule     string
		observed float64
		target   float64
		want     bool
	}{
		{"<", 1, 2, true},
		{"<", 2, 2, false},
		{"<=", 2, 2, true},
		{">", 3, 2, true},
		{">=", 2, 2, true},
		{"==", 2, 2, true},
		{"==", 2.1, 2, false},
		{"!=", 2.1, 2, true},
	}
	for _, tt := range tests {
		cmp, err := ParseRule(tt.rule)
		if err != nil {
			t.Fatalf("ParseRule(%q): %v", tt.rule, err)
		}
		if got := cmp(tt.observed, tt.target); got != tt.want {
			t.Errorf("%v %s %v: got %v, want %v", tt.observed, tt.rule, tt.target, got, tt.want)
		}
	}

	if _, err := ParseRule("~"); err == nil {
		t.Error("unknown rule should fail")
	}
}

func TestRegistryResolveType(t *testing.T) {
	r := NewRegistry()

	mustRegister := func(name string) {
		t.Helper()
		if err := r.Register(name, func() Module { return &stubModule{Base: NewBase(name)} }); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	mustRegister("SpeedCondition")
	mustRegister("IntersectionAction")

	if _, err := r.ResolveType("Speed"); err != nil {
		t.Errorf("condition suffix should resolve: %v", err)
	}
	if _, err := r.ResolveType("Intersection"); err != nil {
		t.Errorf("action suffix should resolve: %v", err)
	}

	_, err := r.ResolveType("TimeOut")
	if err == nil {
		t.Fatal("unknown type should fail")
	}
	if !strings.Contains(err.Error(), "TimeOut") {
		t.Errorf("error should name the type, got %q", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	factory := func() Module { return &stubModule{Base: NewBase("SpeedCondition")} }

	if err := r.Register("SpeedCondition", factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register("SpeedCondition", factory); err == nil {
		t.Error("duplicate registration should fail")
	}
	if err := r.Register("", factory); err == nil {
		t.Error("empty name should fail")
	}
	if err := r.Register("TimeoutCondition", nil); err == nil {
		t.Error("nil factory should fail")
	}
}

func TestRegistryInstancesAreIndependent(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("SpeedCondition", func() Module {
		return &stubModule{Base: NewBase("Speed")}
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := r.Resolve("SpeedCondition")
	b, _ := r.Resolve("SpeedCondition")
	a.Rename("first")
	if b.Name() != "" {
		t.Error("resolved instances must not share state")
	}
}
