package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  assertions.Summary `json:"summary"`
	Reports  []JSONReport       `json:"reports"`
	Duration float64            `json:"duration"`
	Time     string             `json:"time"`
}

// JSONReport represents one evaluated batch
type JSONReport struct {
	ID         string              `json:"id"`
	Snapshot   string              `json:"snapshot,omitempty"`
	Assertions string              `json:"assertions,omitempty"`
	StartedAt  string              `json:"startedAt"`
	Duration   float64             `json:"duration"`
	Summary    assertions.Summary  `json:"summary"`
	Results    []assertions.Result `json:"results"`
}

// JSONFormatter formats reports as JSON
type JSONFormatter struct {
	writer  io.Writer
	reports []JSONReport
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		reports: make([]JSONReport, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *JSONFormatter) FormatReport(report *Report) {
	results := report.Results
	if results == nil {
		results = []assertions.Result{}
	}
	f.reports = append(f.reports, JSONReport{
		ID:         report.ID,
		Snapshot:   report.SnapshotFile,
		Assertions: report.AssertionsFile,
		StartedAt:  report.StartedAt.Format(time.RFC3339),
		Duration:   float64(report.Duration.Microseconds()) / 1000,
		Summary:    report.Summary,
		Results:    results,
	})
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are reported by the command, not in the document
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary assertions.Summary
	for _, r := range f.reports {
		summary.Total += r.Summary.Total
		summary.Passed += r.Summary.Passed
		summary.Failed += r.Summary.Failed
		summary.Ignored += r.Summary.Ignored
	}

	output := JSONOutput{
		Summary:  summary,
		Reports:  f.reports,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}
	f.reports = make([]JSONReport, 0)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
