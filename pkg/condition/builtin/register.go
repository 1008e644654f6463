package builtin

import (
	"scenario-hq/criterion/pkg/condition"
)

// Register declares every built-in module in the given registry.
func Register(r *condition.Registry) error {
	modules := map[string]condition.Factory{
		"TimeoutCondition":       func() condition.Module { return NewTimeout() },
		"SpeedCondition":         func() condition.Module { return NewSpeed() },
		"ReachPositionCondition": func() condition.Module { return NewReachPosition() },
		"SignalCondition":        func() condition.Module { return NewSignal() },
		"IntersectionAction":     func() condition.Module { return NewIntersectionAction() },
	}

	for name, factory := range modules {
		if err := r.Register(name, factory); err != nil {
			return err
		}
	}
	return nil
}
