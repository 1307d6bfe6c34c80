package stress

import "time"

// Option defines a functional option for configuring a Coordinator.
type Option func(*Coordinator) error

// WithMaxWorkers caps the number of workers a run may launch.
// The cap must be between 1 and HardMaxWorkers; the effective ceiling of a run is
// the smaller of this cap and the available parallelism.
func WithMaxWorkers(maxWorkers int) Option {
	return func(c *Coordinator) error {
		if maxWorkers < 1 || maxWorkers > HardMaxWorkers {
			return ErrInvalidMaxWorkers
		}

		c.maxWorkers = maxWorkers

		return nil
	}
}

// WithAvailableParallelism replaces the probe for the host's available parallelism.
// It defaults to DefaultAvailableParallelism.
func WithAvailableParallelism(probe func() int) Option {
	return func(c *Coordinator) error {
		if probe == nil {
			return ErrNilAvailableParallelism
		}

		c.availableParallelism = probe

		return nil
	}
}

// WithAttemptTimeout bounds every executor call. Zero, the default, disables the timeout,
// in which case a hung executor call blocks its worker and therefore the whole run.
// An attempt that runs into the timeout is recorded as a failure wrapping ErrAttemptTimedOut.
//
// The worker moves on without waiting for the timed-out call. That call keeps its goroutine until the
// executor returns, so an executor that ignores context cancellation leaks one goroutine per timed-out attempt.
func WithAttemptTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) error {
		if timeout < 0 {
			return ErrInvalidAttemptTimeout
		}

		c.attemptTimeout = timeout

		return nil
	}
}

// WithLogger sets the logger for the Coordinator and its workers.
//
// Debug level: every attempt with its duration
// Info level: run start and completion with the error count
// Warn level: every failed attempt with worker, iteration and error
// Error level: coordination faults.
func WithLogger(logger Logger) Option {
	return func(c *Coordinator) error {
		c.instr.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(c *Coordinator) error {
		c.instr.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector, which receives attempt counts, failure counts,
// attempt and run durations and the effective worker count.
func WithMetrics(collector MetricsCollector) Option {
	return func(c *Coordinator) error {
		c.instr.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector, which receives one span per run and one per worker.
func WithTracing(collector TracingCollector) Option {
	return func(c *Coordinator) error {
		c.instr.tracingCollector = collector
		return nil
	}
}
