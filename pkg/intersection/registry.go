package intersection

import (
	"fmt"
	"sort"
)

// Registry owns all intersection controllers of a scenario, keyed by
// name. It is constructed once from the scenario's intersection
// configuration and destroyed at scenario teardown.
type Registry struct {
	controllers map[string]*Controller
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string]*Controller),
	}
}

// Add registers a controller. Re-declaring a name is a configuration
// error.
func (r *Registry) Add(c *Controller) error {
	if _, ok := r.controllers[c.Name()]; ok {
		return fmt.Errorf("intersection %q already declared", c.Name())
	}
	r.controllers[c.Name()] = c
	return nil
}

// Resolve returns the controller with the given name.
func (r *Registry) Resolve(name string) (*Controller, error) {
	c, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("intersection %q not declared", name)
	}
	return c, nil
}

// Names returns all registered intersection names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered controllers.
func (r *Registry) Len() int {
	return len(r.controllers)
}

// Tick re-asserts every controller's current state. See Controller.Tick.
func (r *Registry) Tick() {
	for _, c := range r.controllers {
		c.Tick()
	}
}

// SetMetrics attaches a metrics sink to every registered controller.
func (r *Registry) SetMetrics(m Metrics) {
	for _, c := range r.controllers {
		c.SetMetrics(m)
	}
}
