package evaluator

import (
	"log/slog"
	"time"

	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/sdl/ast"
)

// Metrics receives per-tick evaluation events. Implemented by
// pkg/telemetry/metrics; a nil Metrics disables recording.
type Metrics interface {
	ObserveTick(verdict string, duration time.Duration)
	RecordCondition(name string, result bool)
}

// Evaluator owns the success and failure criteria trees of one scenario
// and reduces their per-tick results into the overall verdict. The two
// trees share no mutable state beyond the read-only execution context.
type Evaluator struct {
	success expression.Expression
	failure expression.Expression

	verdict Verdict
	ticks   int

	lastSuccessReport ast.Report
	lastFailureReport ast.Report

	logger  *slog.Logger
	metrics Metrics
}

// New creates an evaluator over the given criteria trees. An empty tree
// never becomes true, so a scenario without failure criteria can only
// succeed or keep running.
func New(success, failure expression.Expression, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		success: success,
		failure: failure,
		verdict: VerdictRunning,
		logger:  logger.With("component", "evaluator"),
	}
}

// SetMetrics attaches a metrics sink. Safe to leave unset.
func (e *Evaluator) SetMetrics(m Metrics) {
	e.metrics = m
}

// Verdict returns the current scenario verdict.
func (e *Evaluator) Verdict() Verdict {
	return e.verdict
}

// Ticks returns the number of completed ticks.
func (e *Evaluator) Ticks() int {
	return e.ticks
}

// Reports returns the diagnostic reports of the last completed tick, for
// the success and failure trees respectively.
func (e *Evaluator) Reports() (success, failure ast.Report) {
	return e.lastSuccessReport, e.lastFailureReport
}

// Tick evaluates both criteria trees once and returns the reduced
// verdict.
//
// The success tree is evaluated first, then the failure tree; every
// procedure in both trees runs exactly once. An evaluation error aborts
// the tick and surfaces to the caller without changing the verdict.
// Calling Tick after a terminal verdict returns a TerminatedError.
func (e *Evaluator) Tick(ctx *expression.Context) (Verdict, error) {
	if e.verdict.IsTerminal() {
		return e.verdict, &TerminatedError{Verdict: e.verdict, Ticks: e.ticks}
	}

	start := time.Now()

	successResult, err := e.success.Evaluate(ctx)
	if err != nil {
		return e.verdict, err
	}
	failureResult, err := e.failure.Evaluate(ctx)
	if err != nil {
		return e.verdict, err
	}

	e.ticks++
	e.lastSuccessReport = e.success.Report("", 0)
	e.lastFailureReport = e.failure.Report("", 0)

	switch {
	case failureResult.Bool():
		e.verdict = VerdictFailed
	case successResult.Bool():
		e.verdict = VerdictSucceeded
	default:
		e.verdict = VerdictRunning
	}

	duration := time.Since(start)
	if e.metrics != nil {
		e.metrics.ObserveTick(string(e.verdict), duration)
		for _, leaf := range e.lastSuccessReport.Flatten() {
			e.metrics.RecordCondition(leaf.Name, leaf.Value)
		}
		for _, leaf := range e.lastFailureReport.Flatten() {
			e.metrics.RecordCondition(leaf.Name, leaf.Value)
		}
	}

	e.logger.Debug("tick evaluated",
		"tick", e.ticks,
		"success", successResult.Bool(),
		"failure", failureResult.Bool(),
		"verdict", e.verdict,
		"duration", duration,
	)

	return e.verdict, nil
}
