package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/condition/builtin"
	"scenario-hq/criterion/pkg/config"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/sdl/parser"
	"scenario-hq/criterion/pkg/sdl/watcher"
	"scenario-hq/criterion/pkg/simulator"
	"scenario-hq/criterion/pkg/telemetry/logging"
)

var validateFlags struct {
	watch bool
}

var validateCmd = &cobra.Command{
	Use:   "validate <scenario.yaml>",
	Short: "Validate a scenario file without evaluating it",
	Long: `Parse a scenario file and report every structural and semantic
problem in it: unknown condition types, missing keys, references to
undeclared intersections or states, and malformed criteria trees.

All problems are reported in one pass, each with its line and column.

Examples:
  # Validate a single scenario
  criterion validate scenarios/intersection.yaml

  # Re-validate on every save
  criterion validate scenarios/intersection.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: validateScenario,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVarP(&validateFlags.watch, "watch", "w", false, "re-validate whenever the file changes")
}

func validateScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	path := args[0]
	p, err := newValidationParser(cfg.Scenario.MaxFileSize, cfg.Scenario.MaxDepth, logger)
	if err != nil {
		return err
	}

	if !validateFlags.watch {
		return validateOnce(p, path)
	}

	// Watch mode: report the initial result, then re-validate on
	// every change until interrupted.
	if err := validateOnce(p, path); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	watchCfg := watcher.DefaultConfig()
	watchCfg.Path = path
	fw, err := watcher.New(watchCfg, logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for changes", "path", path)
	return fw.Watch(ctx, func(changed string) error {
		if err := validateOnce(p, changed); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	})
}

func newValidationParser(maxFileSize int64, maxDepth int, logger *slog.Logger) (*parser.Parser, error) {
	registry := condition.NewRegistry()
	if err := builtin.Register(registry); err != nil {
		return nil, err
	}
	sim := simulator.NewMemory(config.DefaultEgoName)
	return parser.NewParser(registry, sim, logger).
		WithMaxFileSize(maxFileSize).
		WithMaxDepth(maxDepth), nil
}

func validateOnce(p *parser.Parser, path string) error {
	scenario, err := p.Parse(path)
	if err != nil {
		return fmt.Errorf("%s: invalid\n%w", path, err)
	}

	fmt.Printf("%s: valid\n", path)
	fmt.Printf("  intersections: %d\n", scenario.Intersections.Len())
	fmt.Printf("  success criteria: %s\n", describeCriteria(scenario.Success))
	fmt.Printf("  failure criteria: %s\n", describeCriteria(scenario.Failure))
	return nil
}

// describeCriteria summarizes a criteria tree for validation output.
func describeCriteria(e expression.Expression) string {
	if e.Kind() == expression.KindEmpty {
		return "none"
	}
	return fmt.Sprintf("%s with %d condition(s)", e.Type(), countConditions(e))
}

func countConditions(e expression.Expression) int {
	if e.Kind() == expression.KindProcedure {
		return 1
	}
	n := 0
	for _, op := range e.Operands() {
		n += countConditions(op)
	}
	return n
}
