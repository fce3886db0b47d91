// Package health runs liveness and readiness checks with a consecutive
// failure threshold, so one flaky probe doesn't mark the service unhealthy.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
)

// Check is a single health check.
type Check interface {
	Name() string

	// Check returns nil if healthy.
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to the Check interface.
type CheckFunc struct {
	name string
	fn   func(context.Context) error
}

// NewCheckFunc creates a CheckFunc with the given name and function.
func NewCheckFunc(name string, fn func(context.Context) error) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

func (c *CheckFunc) Name() string                    { return c.name }
func (c *CheckFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// CheckResult is the outcome of a single check execution.
type CheckResult struct {
	Name    string
	Healthy bool
	Error   string
	Latency time.Duration
}

// Status is the aggregate outcome of a probe.
type Status struct {
	Healthy bool
	Checks  []CheckResult
}

// Checker manages and executes liveness and readiness checks.
type Checker struct {
	livenessChecks   []Check
	readinessChecks  []Check
	timeout          time.Duration
	failureCount     map[string]int
	failureThreshold int
	logger           logger.Logger
	mu               sync.RWMutex
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout sets the per-check timeout. Default is 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for check execution.
func WithLogger(l logger.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// WithFailureThreshold sets how many consecutive failures a check needs
// before it is reported unhealthy. Default is 3.
func WithFailureThreshold(threshold int) Option {
	return func(c *Checker) {
		if threshold > 0 {
			c.failureThreshold = threshold
		}
	}
}

// New creates a Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		timeout:          5 * time.Second,
		failureThreshold: 3,
		failureCount:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddLivenessCheck adds a check that decides whether the process should be
// restarted.
func (c *Checker) AddLivenessCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.livenessChecks = append(c.livenessChecks, check)
}

// AddReadinessCheck adds a check that decides whether the service can take
// traffic.
func (c *Checker) AddReadinessCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readinessChecks = append(c.readinessChecks, check)
}

// CheckLiveness executes all liveness checks.
func (c *Checker) CheckLiveness(ctx context.Context) (*Status, error) {
	c.mu.RLock()
	checks := c.livenessChecks
	c.mu.RUnlock()
	return c.execute(ctx, checks)
}

// CheckReadiness executes all readiness checks.
func (c *Checker) CheckReadiness(ctx context.Context) (*Status, error) {
	c.mu.RLock()
	checks := c.readinessChecks
	c.mu.RUnlock()
	return c.execute(ctx, checks)
}

// execute runs checks concurrently and aggregates the results. No checks
// configured means healthy.
func (c *Checker) execute(ctx context.Context, checks []Check) (*Status, error) {
	if len(checks) == 0 {
		return &Status{Healthy: true, Checks: []CheckResult{}}, nil
	}

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(idx int, chk Check) {
			defer wg.Done()
			results[idx] = c.executeOne(ctx, chk)
		}(i, check)
	}
	wg.Wait()

	status := &Status{Healthy: true, Checks: results}
	var failed []string
	for _, result := range results {
		if !result.Healthy {
			status.Healthy = false
			failed = append(failed, result.Name)
		}
	}
	if !status.Healthy {
		return status, fmt.Errorf("health checks failed: %v", failed)
	}
	return status, nil
}

func (c *Checker) executeOne(parentCtx context.Context, check Check) CheckResult {
	ctx, cancel := context.WithTimeout(parentCtx, c.timeout)
	defer cancel()

	start := time.Now()
	err := check.Check(ctx)
	latency := time.Since(start)

	result := CheckResult{Name: check.Name(), Latency: latency}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.failureCount[check.Name()] = 0
		result.Healthy = true
		return result
	}

	c.failureCount[check.Name()]++
	if c.failureCount[check.Name()] < c.failureThreshold {
		// Below the threshold the check still reports healthy.
		result.Healthy = true
		if c.logger != nil {
			c.logger.Debug("Health check failed but below threshold",
				logger.StringField("check", check.Name()),
				logger.StringField("error", err.Error()),
				logger.IntField("failures", c.failureCount[check.Name()]),
				logger.IntField("threshold", c.failureThreshold),
			)
		}
		return result
	}

	result.Healthy = false
	result.Error = err.Error()
	if c.logger != nil {
		c.logger.Warn("Health check failed",
			logger.StringField("check", check.Name()),
			logger.StringField("error", err.Error()),
			logger.IntField("failures", c.failureCount[check.Name()]),
			logger.DurationField("latency", latency),
		)
	}
	return result
}
