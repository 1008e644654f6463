package intersection

import (
	"fmt"
	"log/slog"
	"sort"

	"scenario-hq/criterion/pkg/simulator"
)

// BlankState is the implicitly declared state that resets every managed
// signal to its off/neutral rendering.
const BlankState = "Blank"

// Config is the declarative description of one intersection, produced by
// the scenario parser.
type Config struct {
	// Name uniquely identifies the intersection within the registry.
	Name string

	// Initial is the state the controller starts in. It must be declared
	// in States (or be the implicit Blank state).
	Initial string

	// States maps each declared state name to its signal command triples,
	// in declaration order.
	States map[string][]Signal
}

// UndeclaredStateError indicates a transition to a state the intersection
// does not declare. It is a configuration error: the controller's current
// state is left unchanged.
type UndeclaredStateError struct {
	Intersection string
	State        string
}

// Error returns the error message.
func (e *UndeclaredStateError) Error() string {
	return fmt.Sprintf("intersection %q: state %q not declared", e.Intersection, e.State)
}

// Metrics receives transition and actuator-failure events. Implemented by
// pkg/telemetry/metrics; a nil Metrics disables recording.
type Metrics interface {
	RecordTransition(intersection, state string)
	RecordActuatorFailure(op string)
}

// Controller is the state machine owning one intersection's signals.
// It is constructed once per scenario run and mutated only through
// TransitionTo.
type Controller struct {
	name    string
	states  map[string][]Signal
	current string

	sim     simulator.API
	logger  *slog.Logger
	metrics Metrics
}

// NewController builds a controller from its configuration. The configured
// initial state must be declared; construction fails otherwise.
func NewController(cfg Config, sim simulator.API, logger *slog.Logger) (*Controller, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("intersection name cannot be empty")
	}
	if sim == nil {
		return nil, fmt.Errorf("intersection %q: simulator API cannot be nil", cfg.Name)
	}
	if logger == nil {
		logger = slog.Default()
	}

	states := make(map[string][]Signal, len(cfg.States)+1)
	for name, signals := range cfg.States {
		if name == "" {
			return nil, fmt.Errorf("intersection %q: state name cannot be empty", cfg.Name)
		}
		states[name] = signals
	}

	// The Blank state is always available; an explicit declaration wins.
	if _, ok := states[BlankState]; !ok {
		states[BlankState] = blankSignals(states)
	}

	initial := cfg.Initial
	if initial == "" {
		initial = BlankState
	}
	if _, ok := states[initial]; !ok {
		return nil, &UndeclaredStateError{Intersection: cfg.Name, State: initial}
	}

	c := &Controller{
		name:    cfg.Name,
		states:  states,
		current: initial,
		sim:     sim,
		logger:  logger.With("intersection", cfg.Name),
	}
	return c, nil
}

// SetMetrics attaches a metrics sink. Safe to leave unset.
func (c *Controller) SetMetrics(m Metrics) {
	c.metrics = m
}

// blankSignals derives the implicit Blank state: one reset triple per
// signal managed by any declared state.
func blankSignals(states map[string][]Signal) []Signal {
	seen := make(map[int]bool)
	var ids []int
	for _, signals := range states {
		for _, s := range signals {
			if !seen[s.ID] {
				seen[s.ID] = true
				ids = append(ids, s.ID)
			}
		}
	}
	sort.Ints(ids)

	blanks := make([]Signal, 0, len(ids))
	for _, id := range ids {
		blanks = append(blanks, Signal{ID: id, Color: ColorBlank})
	}
	return blanks
}

// Name returns the intersection's name.
func (c *Controller) Name() string {
	return c.name
}

// Current returns the current state name.
func (c *Controller) Current() string {
	return c.current
}

// Is reports whether the controller is currently in the given state.
// Pure query, no side effect.
func (c *Controller) Is(state string) bool {
	return c.current == state
}

// States returns the declared state names in sorted order.
func (c *Controller) States() []string {
	names := make([]string, 0, len(c.states))
	for name := range c.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IDs returns the sorted set of signal identifiers this controller
// manages across all of its states.
func (c *Controller) IDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, signals := range c.states {
		for _, s := range signals {
			if !seen[s.ID] {
				seen[s.ID] = true
				ids = append(ids, s.ID)
			}
		}
	}
	sort.Ints(ids)
	return ids
}

// TransitionTo moves the controller to the target state and issues the
// state's actuator commands in declaration order.
//
// An undeclared target is a configuration error and leaves the current
// state unchanged. Individual actuator failures are logged and do not
// stop the remaining commands; the current state always advances to the
// target so the model reflects the intended state even if application
// partially failed. The returned bool reports whether every command was
// acknowledged.
func (c *Controller) TransitionTo(target string) (bool, error) {
	signals, ok := c.states[target]
	if !ok {
		return false, &UndeclaredStateError{Intersection: c.name, State: target}
	}

	applied := true
	for _, s := range signals {
		if !c.apply(s) {
			applied = false
		}
	}

	c.current = target
	if c.metrics != nil {
		c.metrics.RecordTransition(c.name, target)
	}

	c.logger.Debug("intersection transitioned",
		"state", target,
		"fully_applied", applied,
	)
	return applied, nil
}

// Tick re-asserts the current state's signal commands. Called once per
// evaluation tick so actuators converge on the modeled state even after
// transient command failures. The returned bool reports whether every
// command was acknowledged.
func (c *Controller) Tick() bool {
	applied := true
	for _, s := range c.states[c.current] {
		if !c.apply(s) {
			applied = false
		}
	}
	return applied
}

// apply issues one triple's commands: color first, then the arrow reset,
// then each arrow in declared order.
func (c *Controller) apply(s Signal) bool {
	ok := true

	if s.Color == ColorBlank {
		if err := c.sim.ResetTrafficLightColor(s.ID); err != nil {
			c.actuatorFailure(string(simulator.OpResetColor), s.ID, err)
			ok = false
		}
	} else {
		if err := c.sim.SetTrafficLightColor(s.ID, string(s.Color)); err != nil {
			c.actuatorFailure(string(simulator.OpSetColor), s.ID, err)
			ok = false
		}
	}

	// Arrows reset independently of color on every transition.
	if err := c.sim.ResetTrafficLightArrows(s.ID); err != nil {
		c.actuatorFailure(string(simulator.OpResetArrows), s.ID, err)
		ok = false
	}

	for _, arrow := range s.Arrows {
		if arrow == ArrowBlank {
			continue
		}
		if err := c.sim.SetTrafficLightArrow(s.ID, string(arrow)); err != nil {
			c.actuatorFailure(string(simulator.OpSetArrow), s.ID, err)
			ok = false
		}
	}

	return ok
}

func (c *Controller) actuatorFailure(op string, signalID int, err error) {
	c.logger.Warn("actuator command failed",
		"op", op,
		"signal_id", signalID,
		"error", err,
	)
	if c.metrics != nil {
		c.metrics.RecordActuatorFailure(op)
	}
}
