package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/value"
)

// HTMLOutput represents the complete HTML output structure
type HTMLOutput struct {
	Version        string
	Summary        assertions.Summary
	Reports        []HTMLReport
	Duration       float64
	Time           string
	PassedPercent  float64
	FailedPercent  float64
	IgnoredPercent float64
}

// HTMLReport represents one evaluated batch
type HTMLReport struct {
	ID         string
	Name       string
	Snapshot   string
	Results    []HTMLResult
	Summary    assertions.Summary
	DurationMs float64
}

// HTMLResult represents a single assertion for HTML output
type HTMLResult struct {
	Name        string
	Subject     string
	Operator    string
	Expected    string
	Actual      string
	Message     string
	Condition   string
	StatusClass string
}

// HTMLFormatter formats reports as a standalone HTML page
type HTMLFormatter struct {
	writer  io.Writer
	reports []HTMLReport
	version string
}

// HTMLOption is a functional option for HTMLFormatter
type HTMLOption func(*HTMLFormatter)

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer:  os.Stdout,
		reports: make([]HTMLReport, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HTMLWithWriter sets the output writer
func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

// FormatReport accumulates a report
func (f *HTMLFormatter) FormatReport(report *Report) {
	hr := HTMLReport{
		ID:         report.ID,
		Name:       report.Name(),
		Snapshot:   report.SnapshotFile,
		Summary:    report.Summary,
		DurationMs: float64(report.Duration.Microseconds()) / 1000,
		Results:    make([]HTMLResult, 0, len(report.Results)),
	}

	for i := range report.Results {
		r := &report.Results[i]
		res := HTMLResult{
			Name:      r.Label(),
			Subject:   subject(r),
			Operator:  string(r.AssertionCondition),
			Expected:  value.Display(r.Result.ExpectedData),
			Actual:    value.Display(r.Result.RealValueData),
			Message:   r.Result.Message,
			Condition: r.Condition,
		}

		// Set status class for CSS
		switch {
		case r.Ignored():
			res.StatusClass = "ignored"
			res.Message = ignoreReason(r)
		case r.Result.Failure:
			res.StatusClass = "failed"
		default:
			res.StatusClass = "passed"
		}
		hr.Results = append(hr.Results, res)
	}

	f.reports = append(f.reports, hr)
}

// FormatError handles errors (no-op for HTML)
func (f *HTMLFormatter) FormatError(err error) {
	// Errors are reported by the command, not in the document
}

// FormatHeader captures the version for the HTML report
func (f *HTMLFormatter) FormatHeader(version string) {
	f.version = version
}

// Flush writes the accumulated HTML output
func (f *HTMLFormatter) Flush(totalDuration time.Duration) error {
	var summary assertions.Summary
	for _, r := range f.reports {
		summary.Total += r.Summary.Total
		summary.Passed += r.Summary.Passed
		summary.Failed += r.Summary.Failed
		summary.Ignored += r.Summary.Ignored
	}

	var passedPct, failedPct, ignoredPct float64
	if summary.Total > 0 {
		passedPct = float64(summary.Passed) / float64(summary.Total) * 100
		failedPct = float64(summary.Failed) / float64(summary.Total) * 100
		ignoredPct = float64(summary.Ignored) / float64(summary.Total) * 100
	}

	output := HTMLOutput{
		Version:        f.version,
		Summary:        summary,
		Reports:        f.reports,
		Duration:       float64(totalDuration.Milliseconds()),
		Time:           time.Now().Format("2006-01-02 15:04:05"),
		PassedPercent:  passedPct,
		FailedPercent:  failedPct,
		IgnoredPercent: ignoredPct,
	}
	f.reports = make([]HTMLReport, 0)

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	return tmpl.Execute(f.writer, output)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hitcheck report</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; margin: 2rem; color: #222; }
.bar { display: flex; height: 10px; border-radius: 5px; overflow: hidden; margin: 1rem 0; background: #eee; }
.bar .passed { background: #2e7d32; } .bar .failed { background: #c62828; } .bar .ignored { background: #f9a825; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #eee; font-size: .9rem; vertical-align: top; }
tr.failed td.status { color: #c62828; } tr.passed td.status { color: #2e7d32; } tr.ignored td.status { color: #f9a825; }
code { background: #f5f5f5; padding: 0 .2rem; }
</style>
</head>
<body>
<h1>hitcheck{{if .Version}} <small>{{.Version}}</small>{{end}}</h1>
<p>{{.Summary.Passed}} passed, {{.Summary.Failed}} failed, {{.Summary.Ignored}} ignored, {{.Summary.Total}} total in {{.Duration}}ms ({{.Time}})</p>
<div class="bar">
<div class="passed" style="width: {{printf "%.1f" .PassedPercent}}%"></div>
<div class="failed" style="width: {{printf "%.1f" .FailedPercent}}%"></div>
<div class="ignored" style="width: {{printf "%.1f" .IgnoredPercent}}%"></div>
</div>
{{range .Reports}}
<h2>{{.Name}}</h2>
<p>{{if .Snapshot}}snapshot <code>{{.Snapshot}}</code>, {{end}}run <code>{{.ID}}</code>, {{printf "%.2f" .DurationMs}}ms</p>
<table>
<tr><th></th><th>Assertion</th><th>Subject</th><th>Operator</th><th>Expected</th><th>Actual</th><th>Message</th></tr>
{{range .Results}}
<tr class="{{.StatusClass}}">
<td class="status">{{.StatusClass}}</td>
<td>{{.Name}}{{if .Condition}}<br><small>if <code>{{.Condition}}</code></small>{{end}}</td>
<td>{{.Subject}}</td>
<td>{{.Operator}}</td>
<td><code>{{.Expected}}</code></td>
<td><code>{{.Actual}}</code></td>
<td>{{.Message}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`
