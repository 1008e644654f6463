// Package entity provides the registry of entities declared by a
// scenario: the ego vehicle and any NPCs. Condition modules consult the
// registry to validate trigger names before querying the simulator for
// telemetry.
package entity

import (
	"fmt"
	"sort"
	"sync"
)

// Kind distinguishes the ego vehicle from scripted NPCs.
type Kind string

const (
	KindEgo Kind = "ego"
	KindNPC Kind = "npc"
)

// Entity is one declared scenario participant.
type Entity struct {
	Name string
	Kind Kind
}

// Registry owns all entities declared by a scenario, keyed by name.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]Entity
}

// NewRegistry creates an empty entity registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]Entity),
	}
}

// Add registers an entity. Re-declaring a name is a configuration error.
func (r *Registry) Add(e Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Name == "" {
		return fmt.Errorf("entity name cannot be empty")
	}
	if _, ok := r.entities[e.Name]; ok {
		return fmt.Errorf("entity %q already declared", e.Name)
	}
	r.entities[e.Name] = e
	return nil
}

// Resolve returns the entity with the given name.
func (r *Registry) Resolve(name string) (Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entities[name]
	if !ok {
		return Entity{}, fmt.Errorf("entity %q not declared", name)
	}
	return e, nil
}

// Has reports whether an entity with the given name is declared.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entities[name]
	return ok
}

// Ego returns the declared ego entity, if any.
func (r *Registry) Ego() (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entities {
		if e.Kind == KindEgo {
			return e, true
		}
	}
	return Entity{}, false
}

// Names returns all declared entity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
