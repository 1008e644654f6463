// Package intersection implements the traffic-intersection controller
// state machine and the registry that owns controllers by name.
//
// A controller is constructed once from the scenario's intersection
// configuration and holds a finite set of named states. Each state maps
// to signal commands (color plus arrow lamps per controlled signal).
// Transitions re-assert every declared signal command even when unchanged
// and apply commands best-effort: an individual actuator failure is
// logged and the remaining commands still run, with the controller's
// state bookkeeping always advancing to the intended target.
//
// The state "Blank" is first-class: if not declared explicitly it resets
// every managed signal to its off/neutral rendering.
package intersection
