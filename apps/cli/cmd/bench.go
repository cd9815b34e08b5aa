package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/bench"
	"github.com/abdul-hamid-achik/hitcheck/packages/core/loader"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure how long a batch takes to evaluate",
	Long: `Evaluate an assertion batch against a snapshot many times and report
latency percentiles.

Examples:
  hitcheck bench -s snapshot.json -a assertions.yaml
  hitcheck bench -s snapshot.json -a assertions.yaml -n 10000 -c 8
  hitcheck bench -s snapshot.json -a assertions.yaml --threshold "p99<1ms,ops>2000"`,
	Args: cobra.NoArgs,
	RunE: benchCommand,
}

var (
	benchSnapshotFlag    string
	benchAssertionsFlag  string
	benchIterationsFlag  int
	benchConcurrencyFlag int
	benchWarmupFlag      int
	benchRateFlag        float64
	benchThresholdFlag   string
	benchJSONFlag        bool
)

func init() {
	benchCmd.Flags().StringVarP(&benchSnapshotFlag, "snapshot", "s", getEnvString("HITCHECK_SNAPSHOT", ""), "Snapshot file (env: HITCHECK_SNAPSHOT)")
	benchCmd.Flags().StringVarP(&benchAssertionsFlag, "assertions", "a", getEnvString("HITCHECK_ASSERTIONS", ""), "Assertion batch file (env: HITCHECK_ASSERTIONS)")
	benchCmd.Flags().IntVarP(&benchIterationsFlag, "iterations", "n", 1000, "Number of evaluations")
	benchCmd.Flags().IntVarP(&benchConcurrencyFlag, "concurrency", "c", 1, "Number of concurrent workers")
	benchCmd.Flags().IntVar(&benchWarmupFlag, "warmup", 10, "Evaluations to run before measuring")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 0, "Evaluations per second (0 for unlimited)")
	benchCmd.Flags().StringVar(&benchThresholdFlag, "threshold", "", "Pass/fail thresholds (e.g., \"p95<200us,ops>5000\")")
	benchCmd.Flags().BoolVar(&benchJSONFlag, "json", false, "Output results as JSON")

	_ = benchCmd.MarkFlagRequired("snapshot")
	_ = benchCmd.MarkFlagRequired("assertions")
}

func benchCommand(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := setupLogger(settings)
	defer func() { _ = log.Sync() }()

	cfg := &bench.Config{
		Iterations:  benchIterationsFlag,
		Concurrency: benchConcurrencyFlag,
		Warmup:      benchWarmupFlag,
		Rate:        benchRateFlag,
	}
	if benchThresholdFlag != "" {
		t, err := bench.ParseThresholds(benchThresholdFlag)
		if err != nil {
			return exitWith(ExitUsageError, fmt.Errorf("invalid thresholds: %w", err))
		}
		cfg.Thresholds = t
	}
	if err := cfg.Validate(); err != nil {
		return exitWith(ExitUsageError, err)
	}

	snap, err := loader.LoadSnapshot(benchSnapshotFlag)
	if err != nil {
		return exitWith(ExitLoadError, err)
	}
	configs, err := loader.LoadAssertions(benchAssertionsFlag)
	if err != nil {
		return exitWith(ExitLoadError, err)
	}

	engine := assertions.NewEngine(assertions.WithRegexTimeout(settings.RegexTimeoutDuration()))
	runner := bench.NewRunner(cfg, bench.WithEngine(engine), bench.WithLogger(log.Named("bench")))
	reporter := bench.NewReporter(bench.WithWriter(cmd.OutOrStdout()), bench.WithNoColor(settings.GetNoColor()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !benchJSONFlag {
		reporter.Header(version, benchAssertionsFlag, cfg)
	}

	result, err := runner.Run(ctx, configs, snap)
	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted, reporting partial results")
	}

	if benchJSONFlag {
		if err := reporter.JSONSummary(result); err != nil {
			return err
		}
	} else {
		reporter.Summary(result)
	}

	if !result.Passed() {
		return exitWith(ExitAssertionFailure, nil)
	}
	return nil
}
