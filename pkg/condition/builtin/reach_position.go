package builtin

import (
	"fmt"
	"log/slog"
	"math"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/simulator"
)

// ReachPosition is a predicate that becomes true when an entity is within
// a tolerance radius of a target position.
//
// Keys: Trigger (entity name, required), X and Y (required), Tolerance
// (optional, default 1.0), Keep (optional), Name (optional).
type ReachPosition struct {
	condition.Base

	api       simulator.API
	logger    *slog.Logger
	trigger   string
	x, y      float64
	tolerance float64
}

// NewReachPosition creates an unconfigured ReachPosition predicate.
func NewReachPosition() *ReachPosition {
	return &ReachPosition{Base: condition.NewBase("ReachPosition")}
}

// Configure implements condition.Module.
func (r *ReachPosition) Configure(cfg map[string]any, api simulator.API) error {
	if api == nil {
		return fmt.Errorf("simulator API is required")
	}
	r.api = api
	r.logger = slog.Default().With("condition", r.Type())

	trigger, err := condition.EssentialString(cfg, "Trigger")
	if err != nil {
		return err
	}
	r.trigger = trigger

	if r.x, err = condition.EssentialFloat(cfg, "X"); err != nil {
		return err
	}
	if r.y, err = condition.EssentialFloat(cfg, "Y"); err != nil {
		return err
	}

	if r.tolerance, err = condition.OptionalFloat(cfg, "Tolerance", 1.0); err != nil {
		return err
	}
	if r.tolerance <= 0 {
		return fmt.Errorf("key \"Tolerance\": must be positive, got %v", r.tolerance)
	}

	keep, err := condition.OptionalBool(cfg, "Keep", false)
	if err != nil {
		return err
	}
	r.SetKeep(keep)

	name, err := condition.OptionalString(cfg, "Name", "")
	if err != nil {
		return err
	}
	if name != "" {
		r.Rename(name)
	}
	return nil
}

// Update implements condition.Module.
func (r *ReachPosition) Update(_ *expression.Context) (bool, error) {
	if r.Latched() {
		return true, nil
	}

	pose, err := r.api.EntityPose(r.trigger)
	if err != nil {
		r.logger.Error("invalid trigger name",
			"trigger", r.trigger,
			"name", r.Name(),
			"error", err,
		)
		return r.SetResult(false), nil
	}

	distance := math.Hypot(pose.X-r.x, pose.Y-r.y)
	return r.SetResult(distance <= r.tolerance), nil
}

// Validate checks that the trigger names a declared entity when an entity
// registry is available at construction.
func (r *ReachPosition) Validate(ctx *expression.Context) error {
	entities, err := ctx.Entities()
	if err != nil {
		return nil
	}
	if !entities.Has(r.trigger) {
		return fmt.Errorf("trigger %q is not a declared entity", r.trigger)
	}
	return nil
}
