package evaluator

import "fmt"

// Verdict is the tri-state scenario outcome.
type Verdict string

const (
	VerdictRunning   Verdict = "running"
	VerdictSucceeded Verdict = "succeeded"
	VerdictFailed    Verdict = "failed"
)

// IsTerminal reports whether the verdict ends the scenario.
func (v Verdict) IsTerminal() bool {
	return v == VerdictSucceeded || v == VerdictFailed
}

// TerminatedError indicates a tick was requested after the scenario
// reached a terminal verdict. Re-ticking a terminated scenario is a
// caller error, not silently tolerated.
type TerminatedError struct {
	Verdict Verdict
	Ticks   int
}

// Error returns the error message.
func (e *TerminatedError) Error() string {
	return fmt.Sprintf("scenario already terminated with verdict %q after %d tick(s)", e.Verdict, e.Ticks)
}
