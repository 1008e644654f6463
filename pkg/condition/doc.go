// Package condition defines the contract between the scenario engine and
// condition/action modules, and the name-keyed registry those modules are
// resolved from.
//
// A module is configured once at tree construction from its node's
// configuration payload and then updated once per tick through the
// expression engine's procedure-call dispatch. Predicates are registered
// under "<Type>Condition", actions under "<Type>Action"; resolution is by
// exact name with the condition suffix tried first.
//
// The engine only depends on this package's interfaces; how module
// implementations are discovered is the caller's concern. The builtin
// subpackage registers the modules shipped with this repository.
package condition
