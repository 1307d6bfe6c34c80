package stress

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// HardMaxWorkers is the upper bound for the number of workers of a single run, whatever the host offers.
const HardMaxWorkers = 1024

// Coordinator launches workers against a shared QueryExecutor, waits for all of them and produces the Report.
//
// A Coordinator holds no state between runs: every Run gets a fresh FaultAggregator and a fresh run ID,
// so it can be reused and even used for concurrent runs.
type Coordinator struct {
	executor             QueryExecutor
	query                string
	maxWorkers           int
	availableParallelism func() int
	attemptTimeout       time.Duration
	instr                instrumentation
}

// DefaultAvailableParallelism returns the number of goroutines that can execute simultaneously on this host.
func DefaultAvailableParallelism() int {
	return runtime.GOMAXPROCS(0)
}

// ClampWorkerCount bounds requested to [1, ceiling]. A ceiling below 1 is treated as 1.
func ClampWorkerCount(requested int, ceiling int) int {
	if ceiling < 1 {
		ceiling = 1
	}

	switch {
	case requested < 1:
		return 1
	case requested > ceiling:
		return ceiling
	default:
		return requested
	}
}

// NewCoordinator creates a Coordinator that runs query against executor.
func NewCoordinator(executor QueryExecutor, query string, options ...Option) (*Coordinator, error) {
	if executor == nil {
		return nil, ErrNilExecutor
	}

	if query == "" {
		return nil, ErrEmptyQuery
	}

	c := &Coordinator{
		executor:             executor,
		query:                query,
		maxWorkers:           HardMaxWorkers,
		availableParallelism: DefaultAvailableParallelism,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// WorkerCeiling returns the largest worker count a run may use right now.
func (c *Coordinator) WorkerCeiling() int {
	return min(c.availableParallelism(), c.maxWorkers)
}

// Run launches workerCount workers, each performing attemptsPerWorker attempts, and blocks until the last one has finished.
//
// workerCount is clamped to [1, WorkerCeiling()]. Failed attempts never make Run fail; they are reported
// in the returned Report. An error is only returned for coordination faults, and it always wraps
// ErrCoordinationFault. Cancelling ctx while workers are running is such a fault: the workers stop
// before their next attempt and the Report returned together with the error is incomplete.
func (c *Coordinator) Run(ctx context.Context, workerCount int, attemptsPerWorker int) (Report, error) {
	if attemptsPerWorker < 0 {
		return Report{}, c.abort(ctx, ErrNegativeAttempts)
	}

	if err := ctx.Err(); err != nil {
		return Report{}, c.abort(ctx, err)
	}

	runUUID, uuidErr := uuid.NewV7()
	if uuidErr != nil {
		return Report{}, c.abort(ctx, uuidErr)
	}
	runID := runUUID.String()

	workers := ClampWorkerCount(workerCount, c.WorkerCeiling())
	if workers != workerCount {
		c.instr.logInfo(ctx, logMsgWorkersClamped, logAttrRequested, workerCount, logAttrWorkers, workers)
	}

	runCtx, span := c.instr.startSpan(ctx, spanNameRun, map[string]string{
		logAttrRunID:    runID,
		logAttrWorkers:  itoa(workers),
		logAttrAttempts: itoa(attemptsPerWorker),
	})

	c.instr.recordValue(runCtx, metricWorkers, float64(workers), nil)
	c.instr.logInfo(runCtx, logMsgRunStarted,
		logAttrRunID, runID,
		logAttrWorkers, workers,
		logAttrAttempts, attemptsPerWorker)

	aggregator := NewFaultAggregator()
	worker := Worker{
		runID:          runID,
		executor:       c.executor,
		query:          c.query,
		aggregator:     aggregator,
		attemptTimeout: c.attemptTimeout,
		instr:          c.instr,
	}

	start := time.Now()
	group := new(errgroup.Group)
	group.SetLimit(workers)

	for workerID := 0; workerID < workers; workerID++ {
		workerID := workerID // per-iteration copy; go.mod targets go 1.21 loop semantics
		group.Go(func() (err error) {
			defer func() {
				if recovered := recover(); recovered != nil {
					err = fmt.Errorf("worker %d crashed: %v", workerID, recovered)
				}
			}()

			worker.Run(runCtx, workerID, attemptsPerWorker)

			return nil
		})
	}

	waitErr := group.Wait()
	duration := time.Since(start)

	report := aggregator.Report()
	report.RunID = runID
	report.Workers = workers
	report.AttemptsPerWorker = attemptsPerWorker
	report.Duration = duration

	if waitErr != nil {
		c.instr.finishSpan(span, statusError, nil)
		return report, c.abort(runCtx, waitErr)
	}

	// An interrupted run has no meaningful failure count.
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.instr.finishSpan(span, statusError, nil)
		return report, c.abort(runCtx, ctxErr)
	}

	status := statusSuccess
	if report.HasErrors() {
		status = statusError
	}

	c.instr.recordDuration(runCtx, metricRunDuration, duration, map[string]string{attrStatus: status})
	c.instr.finishSpan(span, status, map[string]string{
		logAttrTotalErrors: fmt.Sprintf("%d", report.TotalErrors),
	})
	c.instr.logInfo(runCtx, logMsgRunCompleted,
		logAttrRunID, runID,
		logAttrWorkers, workers,
		logAttrTotalErrors, report.TotalErrors,
		logAttrDurationMS, toMilliseconds(duration))

	return report, nil
}

// abort logs a coordination fault and wraps its cause with ErrCoordinationFault.
func (c *Coordinator) abort(ctx context.Context, cause error) error {
	err := errors.Join(ErrCoordinationFault, cause)
	c.instr.logError(ctx, logMsgRunAborted, err)

	return err
}
