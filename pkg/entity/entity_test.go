package entity

import (
	"reflect"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if err := r.Add(Entity{Name: "ego", Kind: KindEgo}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Add(Entity{Name: "npc_1", Kind: KindNPC}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Add(Entity{Name: "ego", Kind: KindNPC}); err == nil {
		t.Error("re-declaring a name should fail")
	}
	if err := r.Add(Entity{Kind: KindNPC}); err == nil {
		t.Error("empty name should fail")
	}

	if !r.Has("npc_1") || r.Has("npc_2") {
		t.Error("unexpected Has results")
	}

	e, err := r.Resolve("ego")
	if err != nil || e.Kind != KindEgo {
		t.Errorf("unexpected resolve result: %+v, %v", e, err)
	}
	if _, err := r.Resolve("ghost"); err == nil {
		t.Error("resolving an undeclared entity should fail")
	}

	if got := r.Names(); !reflect.DeepEqual(got, []string{"ego", "npc_1"}) {
		t.Errorf("unexpected names %v", got)
	}
}

func TestRegistryEgo(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Ego(); ok {
		t.Error("empty registry has no ego")
	}

	if err := r.Add(Entity{Name: "npc_1", Kind: KindNPC}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Ego(); ok {
		t.Error("NPC-only registry has no ego")
	}

	if err := r.Add(Entity{Name: "hero", Kind: KindEgo}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ego, ok := r.Ego()
	if !ok || ego.Name != "hero" {
		t.Errorf("unexpected ego: %+v, %v", ego, ok)
	}
}
