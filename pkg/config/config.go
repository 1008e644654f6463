package config

import "time"

// Config is the root configuration structure for criterion. It
// contains all configuration sections for scenario evaluation, run
// recording, and telemetry.
type Config struct {
	// Scenario contains the scenario document location and parsing
	// limits.
	Scenario ScenarioConfig `yaml:"scenario"`

	// Simulation contains the evaluation loop configuration: tick
	// interval and tick budget.
	Simulation SimulationConfig `yaml:"simulation"`

	// Recorder contains run recording configuration including backend
	// selection and retention settings.
	Recorder RecorderConfig `yaml:"recorder"`

	// Telemetry contains observability configuration: logging and
	// metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ScenarioConfig contains the scenario document configuration.
type ScenarioConfig struct {
	// Path is the scenario YAML file to evaluate.
	Path string `yaml:"path"`

	// MaxFileSize is the maximum scenario file size in bytes.
	// Default: 1048576 (1MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// MaxDepth is the maximum criteria nesting depth.
	// Default: 16
	MaxDepth int `yaml:"max_depth"`
}

// SimulationConfig contains the evaluation loop configuration.
type SimulationConfig struct {
	// TickInterval is the wall-clock spacing between evaluation
	// ticks, and the amount of simulated time each tick advances.
	// Default: 100ms
	TickInterval time.Duration `yaml:"tick_interval"`

	// MaxTicks is the maximum number of ticks before the run is
	// aborted without a verdict. 0 means unlimited.
	// Default: 0
	MaxTicks int `yaml:"max_ticks"`

	// EgoName is the entity name treated as the ego vehicle by the
	// in-memory simulator.
	// Default: "ego"
	EgoName string `yaml:"ego_name"`
}

// RecorderConfig contains run recording configuration.
type RecorderConfig struct {
	// Backend selects the storage backend: "sqlite", "memory", or
	// "none" to disable recording.
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "data/criterion.db"
	Path string `yaml:"path"`

	// RetentionDays is the number of days to retain runs.
	// 0 keeps runs forever.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// MaxRuns is the maximum number of runs to keep. 0 is unlimited.
	// Default: 0
	MaxRuns int64 `yaml:"max_runs"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables the scheduler.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address of the metrics HTTP endpoint.
	// Default: "127.0.0.1:9091"
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the metrics namespace prefix.
	// Default: "criterion"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metrics subsystem prefix. Empty by default.
	Subsystem string `yaml:"subsystem"`
}
