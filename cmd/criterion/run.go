package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/condition/builtin"
	"scenario-hq/criterion/pkg/config"
	"scenario-hq/criterion/pkg/evaluator"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/intersection"
	"scenario-hq/criterion/pkg/recorder"
	"scenario-hq/criterion/pkg/recorder/retention"
	"scenario-hq/criterion/pkg/recorder/storage"
	"scenario-hq/criterion/pkg/sdl/parser"
	"scenario-hq/criterion/pkg/simulator"
	"scenario-hq/criterion/pkg/telemetry/logging"
	"scenario-hq/criterion/pkg/telemetry/metrics"
)

var runFlags struct {
	scenario     string
	logLevel     string
	tickInterval time.Duration
	maxTicks     int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a scenario until it reaches a verdict",
	Long: `Evaluate a scenario's acceptance and failure criteria tick by tick
until one of them becomes true or the tick budget is exhausted.

Each tick advances the simulation, evaluates the success tree and then
the failure tree (every condition exactly once), and records the
outcome. Failure wins when both trees become true on the same tick.

Examples:
  # Evaluate a scenario
  criterion run --scenario scenarios/intersection.yaml

  # Evaluate with a custom config and tick rate
  criterion run --config config.yaml --tick-interval 50ms

  # Abort without a verdict after 1000 ticks
  criterion run --scenario s.yaml --max-ticks 1000`,
	RunE: runScenario,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.scenario, "scenario", "s", "", "scenario file path")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().DurationVar(&runFlags.tickInterval, "tick-interval", 0, "override tick interval")
	runCmd.Flags().IntVar(&runFlags.maxTicks, "max-ticks", 0, "override maximum tick count (0 = unlimited)")
}

// loadConfig loads the configuration file (or the defaults when no
// file is given) and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile == "" {
		cfg = config.Default()
	} else {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, err
		}
	}

	if runFlags.scenario != "" {
		cfg.Scenario.Path = runFlags.scenario
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if runFlags.tickInterval > 0 {
		cfg.Simulation.TickInterval = runFlags.tickInterval
	}
	if runFlags.maxTicks > 0 {
		cfg.Simulation.MaxTicks = runFlags.maxTicks
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Scenario.Path == "" {
		return fmt.Errorf("no scenario file given (use --scenario or the config file)")
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Simulator and module registry.
	sim := simulator.NewMemory(cfg.Simulation.EgoName)
	registry := condition.NewRegistry()
	if err := builtin.Register(registry); err != nil {
		return err
	}

	// Parse the scenario.
	p := parser.NewParser(registry, sim, logger).
		WithMaxFileSize(cfg.Scenario.MaxFileSize).
		WithMaxDepth(cfg.Scenario.MaxDepth)
	scenario, err := p.Parse(cfg.Scenario.Path)
	if err != nil {
		return err
	}
	logger.Info("scenario loaded",
		"path", cfg.Scenario.Path,
		"intersections", scenario.Intersections.Len(),
	)

	// Metrics.
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		scenario.Intersections.SetMetrics(collector)
		go serveMetrics(ctx, cfg.Telemetry.Metrics.ListenAddress, collector, logger)
	}

	// Recorder.
	rec, cleanup, err := buildRecorder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Evaluator.
	ev := evaluator.New(scenario.Success, scenario.Failure, logger)
	if collector != nil {
		ev.SetMetrics(collector)
	}
	ectx := scenario.Context(sim)

	if rec != nil {
		if err := rec.Begin(ctx, cfg.Scenario.Path); err != nil {
			return err
		}
	}

	verdict, err := tickLoop(ctx, cfg, sim, scenario.Intersections, ev, ectx, rec)

	if rec != nil {
		finalVerdict := string(verdict)
		if !verdict.IsTerminal() {
			finalVerdict = "aborted"
		}
		if finishErr := rec.Finish(context.WithoutCancel(ctx), finalVerdict, ev.Ticks()); finishErr != nil {
			logger.Error("failed to finish run", "error", finishErr)
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("Verdict: %s after %d ticks\n", verdict, ev.Ticks())
	if verdict == evaluator.VerdictFailed {
		return fmt.Errorf("scenario failed after %d ticks", ev.Ticks())
	}
	return nil
}

// tickLoop drives the evaluation until a terminal verdict, the tick
// budget, or cancellation.
func tickLoop(ctx context.Context, cfg *config.Config, sim *simulator.Memory, intersections *intersection.Registry, ev *evaluator.Evaluator, ectx *expression.Context, rec *recorder.Recorder) (evaluator.Verdict, error) {
	ticker := time.NewTicker(cfg.Simulation.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ev.Verdict(), nil

		case <-ticker.C:
			sim.Advance(cfg.Simulation.TickInterval)
			intersections.Tick()

			start := time.Now()
			verdict, err := ev.Tick(ectx)
			duration := time.Since(start)
			if err != nil {
				return verdict, err
			}

			if rec != nil {
				success, failure := ev.Reports()
				if err := rec.RecordTick(ctx, ev.Ticks(), string(verdict), success, failure, duration); err != nil {
					slog.Error("failed to record tick", "error", err)
				}
			}

			if verdict.IsTerminal() {
				return verdict, nil
			}
			if cfg.Simulation.MaxTicks > 0 && ev.Ticks() >= cfg.Simulation.MaxTicks {
				return verdict, fmt.Errorf("no verdict after %d ticks (tick budget exhausted)", ev.Ticks())
			}
		}
	}
}

// buildRecorder creates the run recorder for the configured backend.
// The returned cleanup closes the storage backend.
func buildRecorder(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*recorder.Recorder, func(), error) {
	var store recorder.Storage

	switch cfg.Recorder.Backend {
	case "none":
		return nil, func() {}, nil
	case "memory":
		store = storage.NewMemoryStorage()
	case "sqlite":
		sqliteCfg := storage.DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.Recorder.Path
		var err error
		store, err = storage.NewSQLiteStorage(sqliteCfg)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unknown recorder backend %q", cfg.Recorder.Backend)
	}

	pruner := retention.NewPruner(store, &retention.Config{
		RetentionDays: cfg.Recorder.RetentionDays,
		MaxRuns:       cfg.Recorder.MaxRuns,
		PruneSchedule: cfg.Recorder.PruneSchedule,
	})
	if err := pruner.Scheduler().Start(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	cleanup := func() {
		pruner.Scheduler().Stop()
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}
	return recorder.New(store, logger), cleanup, nil
}

// serveMetrics exposes the Prometheus endpoint until the context is
// cancelled.
func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", "address", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
