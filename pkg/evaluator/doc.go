// Package evaluator drives the per-tick evaluation of a scenario's
// success and failure criteria trees and reduces their results into the
// tri-state verdict.
//
// Each tick evaluates both trees exactly once, success tree first, in a
// single synchronous pass. Failure wins the reduction: a tick where both
// trees are true is a failed scenario. Once a terminal verdict is
// reached, further ticks are a caller error.
package evaluator
