package config

import "time"

// Default values for configuration fields.
const (
	// Scenario defaults
	DefaultScenarioMaxFileSize = int64(1048576) // 1MB
	DefaultScenarioMaxDepth    = 16

	// Simulation defaults
	DefaultTickInterval = 100 * time.Millisecond
	DefaultMaxTicks     = 0
	DefaultEgoName      = "ego"

	// Recorder defaults
	DefaultRecorderBackend = "sqlite"
	DefaultRecorderPath    = "data/criterion.db"
	DefaultRetentionDays   = 90
	DefaultMaxRuns         = int64(0)
	DefaultPruneSchedule   = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"
	DefaultMetricsEnabled       = false
	DefaultMetricsListenAddress = "127.0.0.1:9091"
	DefaultMetricsNamespace     = "criterion"
)

// ApplyDefaults fills in default values for any unset configuration
// fields. It only sets fields that are at their zero value.
func ApplyDefaults(cfg *Config) {
	if cfg.Scenario.MaxFileSize == 0 {
		cfg.Scenario.MaxFileSize = DefaultScenarioMaxFileSize
	}
	if cfg.Scenario.MaxDepth == 0 {
		cfg.Scenario.MaxDepth = DefaultScenarioMaxDepth
	}

	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = DefaultTickInterval
	}
	if cfg.Simulation.EgoName == "" {
		cfg.Simulation.EgoName = DefaultEgoName
	}

	if cfg.Recorder.Backend == "" {
		cfg.Recorder.Backend = DefaultRecorderBackend
	}
	if cfg.Recorder.Path == "" {
		cfg.Recorder.Path = DefaultRecorderPath
	}
	if cfg.Recorder.RetentionDays == 0 {
		cfg.Recorder.RetentionDays = DefaultRetentionDays
	}
	if cfg.Recorder.PruneSchedule == "" {
		cfg.Recorder.PruneSchedule = DefaultPruneSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
