// Package simulator defines the simulator API consumed by condition
// modules and intersection controllers.
//
// The API is an external collaborator: the real implementation is the
// bridge to a running traffic simulator and is out of scope for this
// module. The package ships an in-memory implementation with a recorded
// command log, used by tests and by the CLI's self-contained run mode.
//
// Actuator methods return an error instead of a bare false so callers can
// log the precise failure; intersection controllers treat such failures as
// best-effort (logged, never rolled back).
package simulator
