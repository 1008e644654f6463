package builtin

import (
	"fmt"
	"slices"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/simulator"
)

// Signal is a predicate over an intersection controller's current state.
// It observes transitions made earlier in the same tick: an action child
// declared before it in the same combinator is seen immediately.
//
// Keys: Intersection (required), State (required), Keep (optional),
// Name (optional).
type Signal struct {
	condition.Base

	intersection string
	state        string
}

// NewSignal creates an unconfigured Signal predicate.
func NewSignal() *Signal {
	return &Signal{Base: condition.NewBase("Signal")}
}

// Configure implements condition.Module.
func (s *Signal) Configure(cfg map[string]any, _ simulator.API) error {
	name, err := condition.EssentialString(cfg, "Intersection")
	if err != nil {
		return err
	}
	s.intersection = name

	state, err := condition.EssentialString(cfg, "State")
	if err != nil {
		return err
	}
	s.state = state

	keep, err := condition.OptionalBool(cfg, "Keep", false)
	if err != nil {
		return err
	}
	s.SetKeep(keep)

	display, err := condition.OptionalString(cfg, "Name", "")
	if err != nil {
		return err
	}
	if display != "" {
		s.Rename(display)
	}
	return nil
}

// Update implements condition.Module.
func (s *Signal) Update(ctx *expression.Context) (bool, error) {
	if s.Latched() {
		return true, nil
	}

	registry, err := ctx.Intersections()
	if err != nil {
		return false, err
	}
	controller, err := registry.Resolve(s.intersection)
	if err != nil {
		return false, err
	}
	return s.SetResult(controller.Is(s.state)), nil
}

// Validate fails construction when the referenced intersection or state
// is not declared.
func (s *Signal) Validate(ctx *expression.Context) error {
	registry, err := ctx.Intersections()
	if err != nil {
		return err
	}
	controller, err := registry.Resolve(s.intersection)
	if err != nil {
		return err
	}
	if !slices.Contains(controller.States(), s.state) {
		return fmt.Errorf("intersection %q does not declare state %q", s.intersection, s.state)
	}
	return nil
}
