package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"scenario-hq/criterion/pkg/config"
)

// Collector owns all Prometheus metrics for a scenario run: tick
// counts and durations, per-condition results, intersection state
// transitions, and actuator failures.
//
// It implements the narrow metrics interfaces consumed by the
// evaluator and intersection packages, so those packages never import
// Prometheus directly.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	ticksTotal        *prometheus.CounterVec
	tickDuration      prometheus.Histogram
	conditionResults  *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	actuatorFailures  *prometheus.CounterVec
}

// NewCollector creates a metrics collector with the given
// configuration and Prometheus registry. If registry is nil, a
// private registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "criterion"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		ticksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ticks_total",
				Help:      "Total number of evaluation ticks by verdict",
			},
			[]string{"verdict"},
		),

		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Duration of criteria tree evaluation per tick",
				// Tick evaluation is cheap; buckets span 10µs to ~160ms.
				Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
			},
		),

		conditionResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "condition_results_total",
				Help:      "Per-condition evaluation results by report name",
			},
			[]string{"condition", "result"},
		),

		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "intersection_transitions_total",
				Help:      "Intersection state transitions by intersection and target state",
			},
			[]string{"intersection", "state"},
		),

		actuatorFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "actuator_failures_total",
				Help:      "Traffic light commands rejected by the simulator",
			},
			[]string{"command"},
		),
	}

	registry.MustRegister(
		c.ticksTotal,
		c.tickDuration,
		c.conditionResults,
		c.transitions,
		c.actuatorFailures,
	)

	return c
}

// ObserveTick records a completed evaluation tick. It implements the
// evaluator's metrics hook.
func (c *Collector) ObserveTick(verdict string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.ticksTotal.WithLabelValues(verdict).Inc()
	c.tickDuration.Observe(duration.Seconds())
}

// RecordCondition records one condition's boolean result for a tick.
func (c *Collector) RecordCondition(name string, result bool) {
	if !c.config.Enabled {
		return
	}
	label := "false"
	if result {
		label = "true"
	}
	c.conditionResults.WithLabelValues(name, label).Inc()
}

// RecordTransition records an intersection state transition. It
// implements the intersection package's metrics hook.
func (c *Collector) RecordTransition(intersection, state string) {
	if !c.config.Enabled {
		return
	}
	c.transitions.WithLabelValues(intersection, state).Inc()
}

// RecordActuatorFailure records a traffic light command the simulator
// rejected.
func (c *Collector) RecordActuatorFailure(command string) {
	if !c.config.Enabled {
		return
	}
	c.actuatorFailures.WithLabelValues(command).Inc()
}

// Registry returns the collector's Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
