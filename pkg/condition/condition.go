package condition

import (
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/simulator"
)

// Module is a condition or action implementation. It extends the
// expression engine's Procedure contract with one-time configuration from
// the node's opaque payload.
type Module interface {
	expression.Procedure

	// Configure validates and applies the node's configuration payload.
	// It is called exactly once, at tree construction, before the first
	// Update. A configuration failure aborts scenario construction.
	Configure(cfg map[string]any, api simulator.API) error
}

// Validator is implemented by modules whose configuration references
// other scenario objects (entities, intersections, states). The parser
// calls Validate once after Configure, with the construction context, so
// dangling references fail scenario construction instead of the first
// tick.
type Validator interface {
	Validate(ctx *expression.Context) error
}

// Base carries the state shared by every module: type name, resolved
// display name, the keep latch, and the last result. Modules embed Base
// and implement Configure and Update.
type Base struct {
	typeName string
	name     string
	keep     bool
	result   bool
}

// NewBase creates a Base for a module of the given type name.
func NewBase(typeName string) Base {
	return Base{typeName: typeName}
}

// Type returns the module's declared type name.
func (b *Base) Type() string {
	return b.typeName
}

// Name returns the module's display name, empty until renamed.
func (b *Base) Name() string {
	return b.name
}

// Rename sets the module's display name.
func (b *Base) Rename(name string) {
	b.name = name
}

// Result returns the result of the last Update.
func (b *Base) Result() bool {
	return b.result
}

// SetKeep enables or disables the keep latch.
func (b *Base) SetKeep(keep bool) {
	b.keep = keep
}

// Latched reports whether the keep latch holds a previous true result, in
// which case Update returns true without re-examining the simulator.
func (b *Base) Latched() bool {
	return b.keep && b.result
}

// SetResult records the tick's result and returns it.
func (b *Base) SetResult(result bool) bool {
	b.result = result
	return result
}
