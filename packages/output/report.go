package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/value"
	"github.com/google/uuid"
)

// Report is the outcome of evaluating one assertion batch against one snapshot.
type Report struct {
	ID             string
	SnapshotFile   string
	AssertionsFile string
	Results        []assertions.Result
	Summary        assertions.Summary
	Duration       time.Duration
	StartedAt      time.Time
}

// NewReport assigns the report a fresh run ID.
func NewReport(snapshotFile, assertionsFile string, results []assertions.Result, startedAt time.Time, d time.Duration) *Report {
	return &Report{
		ID:             uuid.NewString(),
		SnapshotFile:   snapshotFile,
		AssertionsFile: assertionsFile,
		Results:        results,
		Summary:        assertions.Summarize(results),
		Duration:       d,
		StartedAt:      startedAt,
	}
}

// Name identifies the report in suite-oriented formats.
func (r *Report) Name() string {
	if r.AssertionsFile != "" {
		return r.AssertionsFile
	}
	return "assertions"
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatReport(report *Report)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Formats lists the accepted format names.
var Formats = []string{"console", "json", "junit", "tap", "html"}

// Options shared by every formatter.
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New returns the formatter for name.
func New(name string, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "console":
		return NewConsoleFormatter(WithWriter(opts.Writer), WithVerbose(opts.Verbose), WithNoColor(opts.NoColor)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(opts.Writer)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(opts.Writer)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(opts.Writer)), nil
	case "html":
		return NewHTMLFormatter(HTMLWithWriter(opts.Writer)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", name, strings.Join(Formats, ", "))
	}
}

// formatValue formats a value for display, truncating large values
func formatValue(p *string, maxLen int) string {
	if p == nil {
		return "null"
	}
	str := fmt.Sprintf("%q", *p)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

// failureText describes a failed result in one line.
func failureText(r *assertions.Result) string {
	return fmt.Sprintf("%s %s: expected %s, got %s. %s",
		subject(r), r.AssertionCondition,
		value.Display(r.Result.ExpectedData), value.Display(r.Result.RealValueData), r.Result.Message)
}

func subject(r *assertions.Result) string {
	if r.ParameterName != "" {
		return fmt.Sprintf("%s %s", r.Type, r.ParameterName)
	}
	return string(r.Type)
}

// ignoreReason explains why a result was ignored.
func ignoreReason(r *assertions.Result) string {
	cr := r.ConditionResult
	parts := []string{}
	if cr.Message != "" {
		parts = append(parts, cr.Message)
	}
	if cr.ConditionMessage != "" {
		parts = append(parts, cr.ConditionMessage)
	}
	if cr.FailureMessage != "" {
		parts = append(parts, cr.FailureMessage)
	}
	return strings.Join(parts, "; ")
}
