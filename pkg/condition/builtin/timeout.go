package builtin

import (
	"fmt"
	"time"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/simulator"
)

// Timeout is a predicate that becomes true once the simulation time
// reaches the configured limit.
//
// Keys: Limit (seconds or duration string, required), Keep (optional),
// Name (optional).
type Timeout struct {
	condition.Base

	api   simulator.API
	limit time.Duration
}

// NewTimeout creates an unconfigured Timeout predicate.
func NewTimeout() *Timeout {
	return &Timeout{Base: condition.NewBase("Timeout")}
}

// Configure implements condition.Module.
func (t *Timeout) Configure(cfg map[string]any, api simulator.API) error {
	if api == nil {
		return fmt.Errorf("simulator API is required")
	}
	t.api = api

	limit, err := condition.EssentialDuration(cfg, "Limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("key \"Limit\": must not be negative, got %v", limit)
	}
	t.limit = limit

	keep, err := condition.OptionalBool(cfg, "Keep", false)
	if err != nil {
		return err
	}
	t.SetKeep(keep)

	name, err := condition.OptionalString(cfg, "Name", "")
	if err != nil {
		return err
	}
	if name != "" {
		t.Rename(name)
	}
	return nil
}

// Update implements condition.Module.
func (t *Timeout) Update(_ *expression.Context) (bool, error) {
	if t.Latched() {
		return true, nil
	}
	return t.SetResult(t.api.SimulationTime() >= t.limit), nil
}
