// Package errors provides rich error types for scenario parsing and
// construction failures.
//
// Every error carries a category, a message, and the source location of
// the offending fragment, and can be enriched with surrounding document
// lines and a suggested fix. An ErrorList accumulates multiple errors so
// a single validation pass reports everything wrong with a scenario
// instead of stopping at the first problem.
//
// These errors are construction-time (configuration) errors: a scenario
// document that produces any of them is never evaluated. Tick-time
// evaluation errors are defined by the packages that raise them
// (pkg/expression, pkg/evaluator).
package errors
