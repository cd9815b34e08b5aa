package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Reporter prints benchmark results
type Reporter struct {
	writer io.Writer

	green *color.Color
	red   *color.Color
	cyan  *color.Color
	bold  *color.Color
}

// ReporterOption configures the reporter
type ReporterOption func(*Reporter)

func WithWriter(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.writer = w
	}
}

// WithNoColor disables colored output
func WithNoColor(noColor bool) ReporterOption {
	return func(r *Reporter) {
		if noColor {
			for _, c := range []*color.Color{r.green, r.red, r.cyan, r.bold} {
				c.DisableColor()
			}
		}
	}
}

func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		writer: os.Stdout,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		cyan:   color.New(color.FgCyan),
		bold:   color.New(color.Bold),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Header prints the run header
func (r *Reporter) Header(version, assertionsFile string, config *Config) {
	fmt.Fprintln(r.writer)
	r.bold.Fprintf(r.writer, "hitcheck bench %s\n", version)
	r.cyan.Fprintf(r.writer, "Benchmarking: %s\n", assertionsFile)

	details := []string{
		fmt.Sprintf("Iterations: %s", formatNumber(int64(config.Iterations))),
		fmt.Sprintf("Concurrency: %d", config.Concurrency),
	}
	if config.Rate > 0 {
		details = append(details, fmt.Sprintf("Rate: %.0f/s", config.Rate))
	}
	fmt.Fprintln(r.writer, strings.Join(details, " | "))
	fmt.Fprintln(r.writer)
}

// Summary prints the final summary
func (r *Reporter) Summary(result *Result) {
	s := result.Summary

	r.bold.Fprintln(r.writer, "BENCHMARK SUMMARY")
	fmt.Fprintln(r.writer, strings.Repeat("─", 40))
	fmt.Fprintf(r.writer, "Duration:    %s\n", formatDuration(s.Duration))
	fmt.Fprintf(r.writer, "Iterations:  ")
	r.bold.Fprintf(r.writer, "%s", formatNumber(s.Iterations))
	fmt.Fprintf(r.writer, " (%.1f/s)\n", s.OpsPerSec)
	fmt.Fprintf(r.writer, "Assertions:  %d passed, %d failed, %d ignored per iteration\n",
		result.Batch.Passed, result.Batch.Failed, result.Batch.Ignored)
	if result.Unstable {
		r.red.Fprintln(r.writer, "Warning: results differed between iterations")
	}

	fmt.Fprintln(r.writer)
	r.bold.Fprintln(r.writer, "LATENCY")
	fmt.Fprintf(r.writer, "  p50: %-8s | p95: %-8s | p99: %-8s | max: %s\n",
		formatLatency(s.P50), formatLatency(s.P95), formatLatency(s.P99), formatLatency(s.Max))
	fmt.Fprintf(r.writer, "  min: %-8s | mean: %-7s | stddev: %s\n",
		formatLatency(s.Min), formatLatency(s.Mean), formatLatency(s.StdDev))

	if len(result.Thresholds) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "THRESHOLDS")
		for _, tr := range result.Thresholds {
			if tr.Passed {
				r.green.Fprintf(r.writer, "  ✓ ")
			} else {
				r.red.Fprintf(r.writer, "  ✗ ")
			}
			fmt.Fprintf(r.writer, "%s %s    (actual: %s)\n", tr.Name, tr.Expected, tr.Actual)
		}
	}
	fmt.Fprintln(r.writer)
}

type jsonThreshold struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

type jsonSummary struct {
	Duration   string             `json:"duration"`
	Iterations int64              `json:"iterations"`
	OpsPerSec  float64            `json:"opsPerSec"`
	Unstable   bool               `json:"unstable"`
	LatencyUs  map[string]float64 `json:"latencyUs"`
	Thresholds []jsonThreshold    `json:"thresholds,omitempty"`
}

// JSONSummary outputs the summary as JSON, latencies in microseconds
func (r *Reporter) JSONSummary(result *Result) error {
	s := result.Summary
	us := func(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1e3 }

	out := jsonSummary{
		Duration:   s.Duration.String(),
		Iterations: s.Iterations,
		OpsPerSec:  s.OpsPerSec,
		Unstable:   result.Unstable,
		LatencyUs: map[string]float64{
			"p50":    us(s.P50),
			"p95":    us(s.P95),
			"p99":    us(s.P99),
			"min":    us(s.Min),
			"max":    us(s.Max),
			"mean":   us(s.Mean),
			"stddev": us(s.StdDev),
		},
	}
	for _, tr := range result.Thresholds {
		out.Thresholds = append(out.Thresholds, jsonThreshold(tr))
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

func formatLatency(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1e3)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// formatNumber formats a number with commas
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}

	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	start := len(s) % 3
	if start == 0 {
		start = 3
	}
	result = append(result, s[:start]...)
	for i := start; i < len(s); i += 3 {
		result = append(result, ',')
		result = append(result, s[i:i+3]...)
	}
	return string(result)
}
