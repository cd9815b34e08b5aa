package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/output"
	"github.com/abdul-hamid-achik/hitcheck/packages/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs recorded with eval --store",
	Long: `List evaluation runs recorded in the history database, newest first.

Examples:
  hitcheck history
  hitcheck history --store ci-history.db --limit 50
  hitcheck history show 3f2a
  hitcheck history prune --keep 100`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the results of a recorded run",
	Long: `Show the results of a recorded run. A unique prefix of the run ID is enough.

Examples:
  hitcheck history show 3f2a9c
  hitcheck history show 3f2a9c -o junit`,
	Args: cobra.ExactArgs(1),
	RunE: historyShowCommand,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest runs",
	Args:  cobra.NoArgs,
	RunE:  historyPruneCommand,
}

var (
	historyLimitFlag int
	historyKeepFlag  int
)

func init() {
	historyCmd.PersistentFlags().StringVar(&storeFlag, "store", getEnvString("HITCHECK_STORE", ""), "History database (default "+defaultStorePath+") (env: HITCHECK_STORE)")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "l", 20, "Number of runs to list")
	historyShowCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("HITCHECK_OUTPUT", "console"), "Output format: console, json, junit, tap, html (env: HITCHECK_OUTPUT)")
	historyPruneCmd.Flags().IntVar(&historyKeepFlag, "keep", 100, "Number of runs to keep")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
}

func openHistory(cmd *cobra.Command) (*store.Store, bool, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, false, err
	}
	s, err := store.Open(storePath(settings))
	if err != nil {
		return nil, false, exitWith(ExitStoreError, err)
	}
	return s, settings.GetNoColor(), nil
}

func historyCommand(cmd *cobra.Command, args []string) error {
	s, noColor, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), historyLimitFlag)
	if err != nil {
		return exitWith(ExitStoreError, err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	if noColor {
		green.DisableColor()
		red.DisableColor()
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tPASSED\tFAILED\tIGNORED\tDURATION\tASSERTIONS")
	for _, run := range runs {
		status := green.Sprint("PASS")
		if !run.Summary.OK() {
			status = red.Sprint("FAIL")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			status,
			run.Summary.Passed,
			run.Summary.Failed,
			run.Summary.Ignored,
			run.Duration.Round(time.Microsecond),
			run.AssertionsFile,
		)
	}
	return tw.Flush()
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	s, noColor, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return exitWith(ExitUsageError, err)
		}
		return exitWith(ExitStoreError, err)
	}

	formatter, err := output.New(outputFlag, output.Options{Writer: cmd.OutOrStdout(), Verbose: true, NoColor: noColor})
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	report := reportFromRun(run)
	formatter.FormatHeader(version)
	formatter.FormatReport(report)
	if flushable, ok := formatter.(output.Flushable); ok {
		return flushable.Flush(report.Duration)
	}
	return nil
}

func historyPruneCommand(cmd *cobra.Command, args []string) error {
	if historyKeepFlag < 0 {
		return exitWith(ExitUsageError, fmt.Errorf("--keep cannot be negative"))
	}
	s, _, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	removed, err := s.Prune(cmd.Context(), historyKeepFlag)
	if err != nil {
		return exitWith(ExitStoreError, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s).\n", removed)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
