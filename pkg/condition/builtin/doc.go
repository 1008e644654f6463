// Package builtin provides the condition and action modules shipped with
// this repository and a Register helper that declares them all in a
// module registry.
//
// Predicates: TimeoutCondition, SpeedCondition, ReachPositionCondition,
// SignalCondition. Actions: IntersectionAction (Type "Intersection"),
// which drives an intersection controller's state transitions from
// inside the expression tree.
package builtin
