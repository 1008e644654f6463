package expression

import (
	"fmt"

	"scenario-hq/criterion/pkg/entity"
	"scenario-hq/criterion/pkg/intersection"
	"scenario-hq/criterion/pkg/simulator"
)

// MissingCollaboratorError indicates that a node required a collaborator
// the execution context was not built with. It is an evaluation error:
// the whole tick aborts rather than scoring a default false.
type MissingCollaboratorError struct {
	Collaborator string
}

// Error returns the error message.
func (e *MissingCollaboratorError) Error() string {
	return fmt.Sprintf("no %s defined, but scenario execution requires it", e.Collaborator)
}

// Context is the per-evaluation bundle passed by reference into every
// node evaluation. Each collaborator is optional at construction but
// required at use: the accessor returns a MissingCollaboratorError when
// the collaborator was not supplied.
type Context struct {
	api           simulator.API
	entities      *entity.Registry
	intersections *intersection.Registry
}

// NewContext creates an execution context. Any collaborator may be nil;
// evaluation fails only when a node actually needs the missing one.
func NewContext(api simulator.API, entities *entity.Registry, intersections *intersection.Registry) *Context {
	return &Context{
		api:           api,
		entities:      entities,
		intersections: intersections,
	}
}

// API returns the simulator handle.
func (c *Context) API() (simulator.API, error) {
	if c.api == nil {
		return nil, &MissingCollaboratorError{Collaborator: "simulator API"}
	}
	return c.api, nil
}

// Entities returns the entity registry.
func (c *Context) Entities() (*entity.Registry, error) {
	if c.entities == nil {
		return nil, &MissingCollaboratorError{Collaborator: "entity registry"}
	}
	return c.entities, nil
}

// Intersections returns the intersection registry.
func (c *Context) Intersections() (*intersection.Registry, error) {
	if c.intersections == nil {
		return nil, &MissingCollaboratorError{Collaborator: "intersection registry"}
	}
	return c.intersections, nil
}
