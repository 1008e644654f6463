package condition

import (
	"fmt"
	"sort"
	"sync"
)

// Suffixes appended to a node's Type when resolving against the registry.
const (
	ConditionSuffix = "Condition"
	ActionSuffix    = "Action"
)

// Factory creates a fresh, unconfigured module instance. Each procedure
// node gets its own instance so module state is never shared across
// nodes.
type Factory func() Module

// NotDeclaredError indicates a Type that resolves to no declared module.
type NotDeclaredError struct {
	TypeName string
	Declared []string
}

// Error returns the error message.
func (e *NotDeclaredError) Error() string {
	return fmt.Sprintf("no module declared for type %q (tried %q and %q)",
		e.TypeName, e.TypeName+ConditionSuffix, e.TypeName+ActionSuffix)
}

// Registry is the name-keyed module lookup table. The scenario parser
// resolves procedure-call nodes against it at construction time.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register declares a module under its full name, including the
// Condition/Action suffix. Re-declaring a name is an error.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("module %q: factory cannot be nil", name)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("module %q already declared", name)
	}
	r.factories[name] = factory
	return nil
}

// Resolve returns a new instance of the module declared under the exact
// given name.
func (r *Registry) Resolve(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// ResolveType resolves a node's Type against the declared set, trying the
// condition suffix first, then the action suffix. First match wins; no
// match is a configuration error.
func (r *Registry) ResolveType(typeName string) (Module, error) {
	if m, ok := r.Resolve(typeName + ConditionSuffix); ok {
		return m, nil
	}
	if m, ok := r.Resolve(typeName + ActionSuffix); ok {
		return m, nil
	}
	return nil, &NotDeclaredError{TypeName: typeName, Declared: r.DeclaredNames()}
}

// DeclaredNames returns all declared module names in sorted order.
func (r *Registry) DeclaredNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
