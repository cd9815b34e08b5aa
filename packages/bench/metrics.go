package bench

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// latencies are recorded in nanoseconds, 1ns to one minute
const maxLatency = int64(time.Minute)

// Metrics collects evaluation latencies
type Metrics struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram

	iterations atomic.Int64
	failures   atomic.Int64 // iterations whose batch had a failed assertion

	startTime time.Time
	endTime   time.Time
}

// NewMetrics creates a new Metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		histogram: hdrhistogram.New(1, maxLatency, 3),
	}
}

func (m *Metrics) Start() {
	m.startTime = time.Now()
}

func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record records one evaluation
func (m *Metrics) Record(d time.Duration, failed bool) {
	m.iterations.Add(1)
	if failed {
		m.failures.Add(1)
	}

	ns := d.Nanoseconds()
	if ns < 1 {
		ns = 1
	}
	if ns > maxLatency {
		ns = maxLatency
	}

	m.mu.Lock()
	_ = m.histogram.RecordValue(ns)
	m.mu.Unlock()
}

// Summary is the final result of a benchmark
type Summary struct {
	Duration   time.Duration
	Iterations int64
	Failures   int64
	OpsPerSec  float64

	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
}

// GetSummary returns the metrics summary
func (m *Metrics) GetSummary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	total := m.iterations.Load()
	ops := float64(0)
	if duration > 0 {
		ops = float64(total) / duration.Seconds()
	}

	return &Summary{
		Duration:   duration,
		Iterations: total,
		Failures:   m.failures.Load(),
		OpsPerSec:  ops,
		P50:        time.Duration(m.histogram.ValueAtQuantile(50)),
		P95:        time.Duration(m.histogram.ValueAtQuantile(95)),
		P99:        time.Duration(m.histogram.ValueAtQuantile(99)),
		Min:        time.Duration(m.histogram.Min()),
		Max:        time.Duration(m.histogram.Max()),
		Mean:       time.Duration(m.histogram.Mean()),
		StdDev:     time.Duration(m.histogram.StdDev()),
	}
}

// EvaluateThresholds checks a summary against the configured thresholds.
func EvaluateThresholds(s *Summary, t Thresholds) []ThresholdResult {
	var results []ThresholdResult

	latency := func(name string, limit, actual time.Duration) {
		if limit <= 0 {
			return
		}
		results = append(results, ThresholdResult{
			Name:     name,
			Passed:   actual <= limit,
			Expected: "< " + limit.String(),
			Actual:   actual.String(),
		})
	}
	latency("p50", t.P50, s.P50)
	latency("p95", t.P95, s.P95)
	latency("p99", t.P99, s.P99)
	latency("max", t.MaxLatency, s.Max)

	if t.MinOps > 0 {
		results = append(results, ThresholdResult{
			Name:     "ops",
			Passed:   s.OpsPerSec >= t.MinOps,
			Expected: fmt.Sprintf("> %.1f/s", t.MinOps),
			Actual:   fmt.Sprintf("%.1f/s", s.OpsPerSec),
		})
	}

	return results
}
