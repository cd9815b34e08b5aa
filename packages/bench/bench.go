package bench

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/interaction"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Result is the outcome of a benchmark run
type Result struct {
	Summary    *Summary
	Thresholds []ThresholdResult
	// Batch is the evaluation summary of the batch, identical across iterations.
	Batch assertions.Summary
	// Unstable is set when an iteration summarized differently from the first.
	Unstable bool
}

// Passed reports whether every threshold held
func (r *Result) Passed() bool {
	for _, t := range r.Thresholds {
		if !t.Passed {
			return false
		}
	}
	return true
}

// Runner evaluates one batch repeatedly
type Runner struct {
	config  *Config
	engine  *assertions.Engine
	logger  *zap.Logger
	limiter *rate.Limiter
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithEngine sets the engine under test
func WithEngine(e *assertions.Engine) RunnerOption {
	return func(r *Runner) {
		r.engine = e
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

func NewRunner(config *Config, opts ...RunnerOption) *Runner {
	r := &Runner{
		config: config,
		engine: assertions.NewEngine(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if config.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(config.Rate), 1)
	}
	return r
}

// Run evaluates configs against snap Iterations times. A cancelled context
// stops the run early and the partial summary is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, configs []assertions.Config, snap *interaction.Snapshot) (*Result, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	for i := 0; i < r.config.Warmup; i++ {
		r.engine.Execute(configs, snap)
	}

	baseline := assertions.Summarize(r.engine.Execute(configs, snap))
	metrics := NewMetrics()

	jobs := make(chan struct{})
	var (
		wg      sync.WaitGroup
		drifted atomic.Bool
	)

	metrics.Start()
	for w := 0; w < r.config.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				start := time.Now()
				results := r.engine.Execute(configs, snap)
				elapsed := time.Since(start)

				s := assertions.Summarize(results)
				metrics.Record(elapsed, !s.OK())
				if s != baseline {
					drifted.Store(true)
				}
			}
		}()
	}

	var runErr error
feed:
	for i := 0; i < r.config.Iterations; i++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				runErr = err
				break
			}
		}
		select {
		case jobs <- struct{}{}:
		case <-ctx.Done():
			runErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	metrics.Stop()

	summary := metrics.GetSummary()
	r.logger.Debug("benchmark finished",
		zap.Int64("iterations", summary.Iterations),
		zap.Duration("p50", summary.P50),
		zap.Duration("p99", summary.P99),
		zap.Bool("unstable", drifted.Load()),
	)

	return &Result{
		Summary:    summary,
		Thresholds: EvaluateThresholds(summary, r.config.Thresholds),
		Batch:      baseline,
		Unstable:   drifted.Load(),
	}, runErr
}
