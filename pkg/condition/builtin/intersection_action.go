package builtin

import (
	"fmt"
	"log/slog"
	"slices"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/simulator"
)

// IntersectionAction drives an intersection controller to a target state.
// As an action it runs once per tick for the whole scenario run; the
// transition re-asserts every signal command of the target state, which
// keeps repeated application idempotent.
//
// Declared under Type "Intersection". Keys: Intersection (required),
// State (required), Name (optional).
type IntersectionAction struct {
	condition.Base

	logger       *slog.Logger
	intersection string
	state        string
}

// NewIntersectionAction creates an unconfigured IntersectionAction.
func NewIntersectionAction() *IntersectionAction {
	return &IntersectionAction{Base: condition.NewBase("Intersection")}
}

// Configure implements condition.Module.
func (a *IntersectionAction) Configure(cfg map[string]any, _ simulator.API) error {
	a.logger = slog.Default().With("action", a.Type())

	name, err := condition.EssentialString(cfg, "Intersection")
	if err != nil {
		return err
	}
	a.intersection = name

	state, err := condition.EssentialString(cfg, "State")
	if err != nil {
		return err
	}
	a.state = state

	display, err := condition.OptionalString(cfg, "Name", "")
	if err != nil {
		return err
	}
	if display != "" {
		a.Rename(display)
	}
	return nil
}

// Update implements condition.Module. The result is true once the
// controller accepted the transition; partial actuator failures are
// best-effort and do not flip the result.
func (a *IntersectionAction) Update(ctx *expression.Context) (bool, error) {
	registry, err := ctx.Intersections()
	if err != nil {
		return false, err
	}
	controller, err := registry.Resolve(a.intersection)
	if err != nil {
		return false, err
	}

	applied, err := controller.TransitionTo(a.state)
	if err != nil {
		return false, err
	}
	if !applied {
		a.logger.Warn("transition partially applied",
			"intersection", a.intersection,
			"state", a.state,
		)
	}
	return a.SetResult(true), nil
}

// Validate fails construction when the referenced intersection or state
// is not declared.
func (a *IntersectionAction) Validate(ctx *expression.Context) error {
	registry, err := ctx.Intersections()
	if err != nil {
		return err
	}
	controller, err := registry.Resolve(a.intersection)
	if err != nil {
		return err
	}
	if !slices.Contains(controller.States(), a.state) {
		return fmt.Errorf("intersection %q does not declare state %q", a.intersection, a.state)
	}
	return nil
}
