package builtin

import (
	"fmt"
	"log/slog"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/simulator"
)

// Speed is a predicate comparing one entity's velocity against a target
// value.
//
// Keys: Trigger (entity name, required), Value (required), Rule
// (comparator, required), Keep (optional), Name (optional).
type Speed struct {
	condition.Base

	api     simulator.API
	logger  *slog.Logger
	trigger string
	target  float64
	compare condition.Comparator
}

// NewSpeed creates an unconfigured Speed predicate.
func NewSpeed() *Speed {
	return &Speed{Base: condition.NewBase("Speed")}
}

// Configure implements condition.Module.
func (s *Speed) Configure(cfg map[string]any, api simulator.API) error {
	if api == nil {
		return fmt.Errorf("simulator API is required")
	}
	s.api = api
	s.logger = slog.Default().With("condition", s.Type())

	trigger, err := condition.EssentialString(cfg, "Trigger")
	if err != nil {
		return err
	}
	s.trigger = trigger

	target, err := condition.EssentialFloat(cfg, "Value")
	if err != nil {
		return err
	}
	s.target = target

	rule, err := condition.EssentialString(cfg, "Rule")
	if err != nil {
		return err
	}
	compare, err := condition.ParseRule(rule)
	if err != nil {
		return err
	}
	s.compare = compare

	keep, err := condition.OptionalBool(cfg, "Keep", false)
	if err != nil {
		return err
	}
	s.SetKeep(keep)

	name, err := condition.OptionalString(cfg, "Name", "")
	if err != nil {
		return err
	}
	if name != "" {
		s.Rename(name)
	}
	return nil
}

// Update implements condition.Module.
func (s *Speed) Update(ctx *expression.Context) (bool, error) {
	if s.Latched() {
		return true, nil
	}

	if s.api.IsEgoName(s.trigger) {
		return s.SetResult(s.compare(s.api.Velocity(), s.target)), nil
	}

	velocity, err := s.api.NPCVelocity(s.trigger)
	if err != nil {
		// Mirror the invalid-trigger behavior of the simulator bridge:
		// the condition scores false rather than aborting the tick.
		s.logger.Error("invalid trigger name",
			"trigger", s.trigger,
			"name", s.Name(),
			"error", err,
		)
		return s.SetResult(false), nil
	}
	return s.SetResult(s.compare(velocity, s.target)), nil
}

// Validate checks that the trigger names a declared entity when an entity
// registry is available at construction.
func (s *Speed) Validate(ctx *expression.Context) error {
	entities, err := ctx.Entities()
	if err != nil {
		return nil // no registry supplied, nothing to check against
	}
	if !entities.Has(s.trigger) {
		return fmt.Errorf("trigger %q is not a declared entity", s.trigger)
	}
	return nil
}
