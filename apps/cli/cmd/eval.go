package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/core/config"
	"github.com/abdul-hamid-achik/hitcheck/packages/core/loader"
	"github.com/abdul-hamid-achik/hitcheck/packages/output"
	"github.com/abdul-hamid-achik/hitcheck/packages/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate an assertion batch against a snapshot",
	Long: `Evaluate the assertions in a batch file against a captured request/response
snapshot and report the results.

Examples:
  hitcheck eval --snapshot snapshot.json --assertions assertions.yaml
  hitcheck eval -s snapshot.json -a assertions.json -o junit --output-file report.xml
  hitcheck eval -s snapshot.json -a assertions.yaml --store history.db
  hitcheck eval -s snapshot.json -a assertions.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: evalCommand,
}

var (
	snapshotFlag     string
	assertionsFlag   string
	outputFlag       string
	outputFileFlag   string
	storeFlag        string
	regexTimeoutFlag int
	debounceFlag     int
	watchFlag        bool
	strictFlag       bool
)

func init() {
	evalCmd.Flags().StringVarP(&snapshotFlag, "snapshot", "s", getEnvString("HITCHECK_SNAPSHOT", ""), "Snapshot file (JSON or YAML) (env: HITCHECK_SNAPSHOT)")
	evalCmd.Flags().StringVarP(&assertionsFlag, "assertions", "a", getEnvString("HITCHECK_ASSERTIONS", ""), "Assertion batch file (JSON or YAML) (env: HITCHECK_ASSERTIONS)")
	evalCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("HITCHECK_OUTPUT", "console"), "Output format: console, json, junit, tap, html (env: HITCHECK_OUTPUT)")
	evalCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("HITCHECK_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: HITCHECK_OUTPUT_FILE)")
	evalCmd.Flags().StringVar(&storeFlag, "store", getEnvString("HITCHECK_STORE", ""), "Record the run in this SQLite database (env: HITCHECK_STORE)")
	evalCmd.Flags().IntVar(&regexTimeoutFlag, "regex-timeout", getEnvInt("HITCHECK_REGEX_TIMEOUT", 1000), "Regular expression budget in milliseconds (env: HITCHECK_REGEX_TIMEOUT)")
	evalCmd.Flags().IntVar(&debounceFlag, "debounce", getEnvInt("HITCHECK_WATCH_DEBOUNCE", 300), "Watch mode debounce in milliseconds (env: HITCHECK_WATCH_DEBOUNCE)")
	evalCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the input files and re-evaluate on change")
	evalCmd.Flags().BoolVar(&strictFlag, "strict", getEnvBool("HITCHECK_STRICT", false), "Refuse to evaluate a batch with validation problems (env: HITCHECK_STRICT)")

	_ = evalCmd.MarkFlagRequired("snapshot")
	_ = evalCmd.MarkFlagRequired("assertions")
}

// evalOptions describes one evaluation of a snapshot/assertion pair.
type evalOptions struct {
	Snapshot   string
	Assertions string
	Output     string
	OutputFile string
	Verbose    bool
	NoColor    bool
	Strict     bool
}

// evaluator runs evalOptions with a fixed engine, logger and optional store.
type evaluator struct {
	engine  *assertions.Engine
	history *store.Store
	logger  *zap.Logger
	stdout  io.Writer
}

func evalCommand(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := setupLogger(settings)
	defer func() { _ = log.Sync() }()

	ev := &evaluator{
		engine: assertions.NewEngine(
			assertions.WithLogger(log.Named("engine")),
			assertions.WithRegexTimeout(settings.RegexTimeoutDuration()),
		),
		logger: log,
		stdout: cmd.OutOrStdout(),
	}

	if settings.Store != "" {
		ev.history, err = store.Open(settings.Store)
		if err != nil {
			return exitWith(ExitStoreError, err)
		}
		defer ev.history.Close()
	}

	opts := evalOptions{
		Snapshot:   snapshotFlag,
		Assertions: assertionsFlag,
		Output:     settings.Output,
		OutputFile: settings.OutputFile,
		Verbose:    settings.GetVerbose(),
		NoColor:    settings.GetNoColor(),
		Strict:     strictFlag,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := ev.run(ctx, opts)
	if !watchFlag {
		if err != nil {
			return err
		}
		if !report.Summary.OK() {
			return exitWith(ExitAssertionFailure, nil)
		}
		return nil
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	return watchEval(ctx, cmd.OutOrStdout(), ev, opts, settings)
}

// watchEval re-evaluates whenever the snapshot or assertion file is written.
func watchEval(ctx context.Context, out io.Writer, ev *evaluator, opts evalOptions, settings *config.Config) error {
	fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	w := &watcher{
		debounce:    settings.WatchDebounceDuration(),
		minInterval: time.Second,
		logger:      ev.logger,
	}
	return w.watch(ctx, []string{opts.Snapshot, opts.Assertions}, func(ctx context.Context, name string) {
		fmt.Fprintf(out, "\n\nFile changed: %s\nRe-evaluating...\n\n", name)
		if _, err := ev.run(ctx, opts); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")
	})
}

// run loads both documents, evaluates them and renders the report. Load
// and validation problems come back as exit errors.
func (e *evaluator) run(ctx context.Context, opts evalOptions) (*output.Report, error) {
	var writer io.Writer = e.stdout
	if opts.OutputFile != "" {
		f, err := os.Create(opts.OutputFile)
		if err != nil {
			return nil, exitWith(ExitConfigError, fmt.Errorf("cannot create output file: %w", err))
		}
		defer f.Close()
		writer = f
	}

	formatter, err := output.New(opts.Output, output.Options{Writer: writer, Verbose: opts.Verbose, NoColor: opts.NoColor})
	if err != nil {
		return nil, exitWith(ExitUsageError, err)
	}
	formatter.FormatHeader(version)

	startedAt := time.Now()

	snap, err := loader.LoadSnapshot(opts.Snapshot)
	if err != nil {
		formatter.FormatError(err)
		return nil, exitWith(ExitLoadError, err)
	}
	configs, err := loader.LoadAssertions(opts.Assertions)
	if err != nil {
		formatter.FormatError(err)
		return nil, exitWith(ExitLoadError, err)
	}

	if err := assertions.Validate(configs); err != nil {
		if opts.Strict {
			formatter.FormatError(err)
			return nil, exitWith(ExitLoadError, err)
		}
		e.logger.Warn("assertion batch has problems", zap.String("file", opts.Assertions), zap.Error(err))
	}

	results := e.engine.Execute(configs, snap)
	report := output.NewReport(opts.Snapshot, opts.Assertions, results, startedAt, time.Since(startedAt))

	formatter.FormatReport(report)
	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(report.Duration); err != nil {
			return report, fmt.Errorf("error writing output: %w", err)
		}
	}

	e.logger.Info("evaluation finished",
		zap.String("run", report.ID),
		zap.Int("passed", report.Summary.Passed),
		zap.Int("failed", report.Summary.Failed),
		zap.Int("ignored", report.Summary.Ignored),
		zap.Duration("duration", report.Duration),
	)

	if e.history != nil {
		if err := e.history.SaveRun(ctx, runFromReport(report)); err != nil {
			if errors.Is(err, context.Canceled) {
				return report, nil
			}
			return report, exitWith(ExitStoreError, err)
		}
	}

	return report, nil
}

func runFromReport(r *output.Report) *store.Run {
	return &store.Run{
		ID:             r.ID,
		StartedAt:      r.StartedAt,
		Duration:       r.Duration,
		SnapshotFile:   r.SnapshotFile,
		AssertionsFile: r.AssertionsFile,
		Summary:        r.Summary,
		Results:        r.Results,
	}
}

func reportFromRun(r *store.Run) *output.Report {
	return &output.Report{
		ID:             r.ID,
		SnapshotFile:   r.SnapshotFile,
		AssertionsFile: r.AssertionsFile,
		Results:        r.Results,
		Summary:        r.Summary,
		Duration:       r.Duration,
		StartedAt:      r.StartedAt,
	}
}
