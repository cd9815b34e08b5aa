package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatReport(report *Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Evaluating: "+report.Name()))
	if report.SnapshotFile != "" {
		fmt.Fprintf(f.writer, "%s\n", cyan("against "+report.SnapshotFile))
	}
	fmt.Fprintf(f.writer, "\n")

	for i := range report.Results {
		r := &report.Results[i]

		if r.Ignored() {
			fmt.Fprintf(f.writer, "  %s %s", yellow("-"), r.Label())
			if reason := ignoreReason(r); reason != "" {
				fmt.Fprintf(f.writer, " (%s)", reason)
			}
			fmt.Fprintf(f.writer, "\n")
			continue
		}

		if !r.Result.Failure {
			fmt.Fprintf(f.writer, "  %s %s\n", green("✓"), r.Label())
			if f.verbose {
				fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(r.Result.RealValueData, 100))
			}
			continue
		}

		fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), r.Label())
		fmt.Fprintf(f.writer, "    %s %s %s\n", red("→"), subject(r), r.AssertionCondition)
		fmt.Fprintf(f.writer, "      Expected: %s\n", formatValue(r.Result.ExpectedData, 100))
		fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(r.Result.RealValueData, 100))
		if r.Result.Message != "" {
			fmt.Fprintf(f.writer, "      %s\n", r.Result.Message)
		}
		if f.verbose && r.Condition != "" {
			fmt.Fprintf(f.writer, "      Condition: %s (%s = %s)\n", r.Condition, r.ConditionResult.Name, formatValue(r.ConditionResult.Value, 60))
		}
	}

	s := report.Summary
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Assertions: ")
	if s.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", s.Passed)))
	}
	if s.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", s.Failed)))
	}
	if s.Ignored > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d ignored", s.Ignored)))
	}
	fmt.Fprintf(f.writer, "%d total\n", s.Total)
	fmt.Fprintf(f.writer, "Time:       %s\n", report.Duration)
	if f.verbose {
		fmt.Fprintf(f.writer, "Run:        %s\n", report.ID)
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitcheck"), version)
}
