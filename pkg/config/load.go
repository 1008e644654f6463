package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It applies default values, validates the configuration, and
// returns any errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the default configuration without reading any file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables
// follow the naming convention CRITERION_SECTION_FIELD (e.g.,
// CRITERION_RECORDER_BACKEND) and take precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies CRITERION_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Scenario overrides
	if val := os.Getenv("CRITERION_SCENARIO_PATH"); val != "" {
		cfg.Scenario.Path = val
	}
	if val := os.Getenv("CRITERION_SCENARIO_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Scenario.MaxFileSize = i
		}
	}
	if val := os.Getenv("CRITERION_SCENARIO_MAX_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Scenario.MaxDepth = i
		}
	}

	// Simulation overrides
	if val := os.Getenv("CRITERION_SIMULATION_TICK_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Simulation.TickInterval = d
		}
	}
	if val := os.Getenv("CRITERION_SIMULATION_MAX_TICKS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Simulation.MaxTicks = i
		}
	}
	if val := os.Getenv("CRITERION_SIMULATION_EGO_NAME"); val != "" {
		cfg.Simulation.EgoName = val
	}

	// Recorder overrides
	if val := os.Getenv("CRITERION_RECORDER_BACKEND"); val != "" {
		cfg.Recorder.Backend = val
	}
	if val := os.Getenv("CRITERION_RECORDER_PATH"); val != "" {
		cfg.Recorder.Path = val
	}
	if val := os.Getenv("CRITERION_RECORDER_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Recorder.RetentionDays = i
		}
	}
	if val := os.Getenv("CRITERION_RECORDER_MAX_RUNS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Recorder.MaxRuns = i
		}
	}
	if val := os.Getenv("CRITERION_RECORDER_PRUNE_SCHEDULE"); val != "" {
		cfg.Recorder.PruneSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("CRITERION_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CRITERION_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CRITERION_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CRITERION_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("CRITERION_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
}
