package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific
// configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "recorder.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any validation rules fail.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateScenario(&cfg.Scenario)...)
	errs = append(errs, validateSimulation(&cfg.Simulation)...)
	errs = append(errs, validateRecorder(&cfg.Recorder)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateScenario(cfg *ScenarioConfig) []FieldError {
	var errs []FieldError
	if cfg.MaxFileSize < 0 {
		errs = append(errs, FieldError{
			Field:   "scenario.max_file_size",
			Message: "must not be negative",
		})
	}
	if cfg.MaxDepth < 1 {
		errs = append(errs, FieldError{
			Field:   "scenario.max_depth",
			Message: "must be at least 1",
		})
	}
	return errs
}

func validateSimulation(cfg *SimulationConfig) []FieldError {
	var errs []FieldError
	if cfg.TickInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   "simulation.tick_interval",
			Message: "must be positive",
		})
	}
	if cfg.MaxTicks < 0 {
		errs = append(errs, FieldError{
			Field:   "simulation.max_ticks",
			Message: "must not be negative",
		})
	}
	if cfg.EgoName == "" {
		errs = append(errs, FieldError{
			Field:   "simulation.ego_name",
			Message: "must not be empty",
		})
	}
	return errs
}

func validateRecorder(cfg *RecorderConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite", "memory", "none":
	default:
		errs = append(errs, FieldError{
			Field:   "recorder.backend",
			Message: fmt.Sprintf("unknown backend %q (expected sqlite, memory, or none)", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "recorder.path",
			Message: "must not be empty with the sqlite backend",
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "recorder.retention_days",
			Message: "must not be negative",
		})
	}
	if cfg.MaxRuns < 0 {
		errs = append(errs, FieldError{
			Field:   "recorder.max_runs",
			Message: "must not be negative",
		})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "recorder.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (expected text or json)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: "must not be empty when metrics are enabled",
		})
	}
	return errs
}
