// Package metrics provides Prometheus instrumentation for scenario
// evaluation.
//
// # Metrics
//
//   - criterion_ticks_total{verdict}: evaluation ticks by verdict
//   - criterion_tick_duration_seconds: criteria evaluation latency
//   - criterion_condition_results_total{condition,result}: per-condition
//     outcomes
//   - criterion_intersection_transitions_total{intersection,state}:
//     controller state transitions
//   - criterion_actuator_failures_total{command}: rejected traffic
//     light commands
//
// The Collector owns a private registry and satisfies the metrics
// hooks the evaluator and intersection packages define, keeping
// Prometheus out of their dependency graphs.
package metrics
