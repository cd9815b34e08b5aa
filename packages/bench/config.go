// Package bench measures how long the engine takes to evaluate a batch.
// Iterations are spread over a pool of workers, optionally throttled to a
// fixed rate, and their latencies are collected in an HDR histogram.
package bench

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings of a benchmark run
type Config struct {
	Iterations  int
	Concurrency int
	Warmup      int     // iterations run before measuring
	Rate        float64 // iterations per second, 0 for unlimited
	Thresholds  Thresholds
}

// Thresholds defines pass/fail criteria for a benchmark
type Thresholds struct {
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
	MaxLatency time.Duration
	MinOps     float64 // minimum evaluations per second
}

// ThresholdResult holds the result of evaluating a threshold
type ThresholdResult struct {
	Name     string
	Passed   bool
	Expected string
	Actual   string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Iterations:  1000,
		Concurrency: 1,
		Warmup:      10,
	}
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup cannot be negative")
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate cannot be negative")
	}
	return nil
}

var thresholdPart = regexp.MustCompile(`^(\w+)\s*([<>]=?)\s*(.+)$`)

// ParseThresholds parses a threshold string like "p95<200us,ops>5000"
func ParseThresholds(s string) (Thresholds, error) {
	var t Thresholds

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := parseThresholdPart(part, &t); err != nil {
			return t, err
		}
	}

	return t, nil
}

func parseThresholdPart(part string, t *Thresholds) error {
	matches := thresholdPart.FindStringSubmatch(part)
	if len(matches) != 4 {
		return fmt.Errorf("invalid threshold format: %s", part)
	}

	metric := strings.ToLower(matches[1])
	op := matches[2]
	raw := strings.TrimSpace(matches[3])

	var target *time.Duration
	switch metric {
	case "p50":
		target = &t.P50
	case "p95":
		target = &t.P95
	case "p99":
		target = &t.P99
	case "max", "maxlatency":
		target = &t.MaxLatency
	case "ops", "rate":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid ops/sec: %s", raw)
		}
		if op != ">" && op != ">=" {
			return fmt.Errorf("%s threshold must use > or >=", metric)
		}
		t.MinOps = f
		return nil
	default:
		return fmt.Errorf("unknown threshold metric: %s", metric)
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %s", metric, raw)
	}
	if op != "<" && op != "<=" {
		return fmt.Errorf("%s threshold must use < or <=", metric)
	}
	*target = d
	return nil
}

// HasThresholds returns true if any thresholds are configured
func (t *Thresholds) HasThresholds() bool {
	return t.P50 > 0 || t.P95 > 0 || t.P99 > 0 || t.MaxLatency > 0 || t.MinOps > 0
}
