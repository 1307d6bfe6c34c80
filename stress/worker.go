package stress

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Worker runs a fixed number of attempts against a QueryExecutor and reports failures to a FaultAggregator.
type Worker struct {
	runID          string
	executor       QueryExecutor
	query          string
	aggregator     *FaultAggregator
	attemptTimeout time.Duration
	instr          instrumentation
}

// NewWorker creates a Worker without observability and without an attempt timeout.
// Workers started by a Coordinator inherit the Coordinator's configuration instead.
func NewWorker(runID string, executor QueryExecutor, query string, aggregator *FaultAggregator) Worker {
	return Worker{
		runID:      runID,
		executor:   executor,
		query:      query,
		aggregator: aggregator,
	}
}

// Run executes attempts sequential attempts for workerID and returns how many of them failed.
//
// Every attempt gets its own cache-busting token. A failed attempt is recorded and the loop moves on
// without a retry. The loop only stops early once ctx is done, leaving the remaining attempts unexecuted.
func (w Worker) Run(ctx context.Context, workerID int, attempts int) int {
	spanCtx, span := w.instr.startSpan(ctx, spanNameWorker, map[string]string{
		logAttrRunID:    w.runID,
		logAttrWorkerID: itoa(workerID),
	})

	failures := 0
	executed := 0

	for sequence := 0; sequence < attempts; sequence++ {
		if ctx.Err() != nil {
			break
		}

		executed++
		attempt := BuildAttempt(w.runID, workerID, sequence)

		start := time.Now()
		err := w.execute(spanCtx, attempt.Token)
		w.instr.attemptFinished(spanCtx, w.runID, attempt, time.Since(start), err)

		if err != nil {
			w.aggregator.RecordFailure(err)
			failures++
		}
	}

	status := statusSuccess
	if failures > 0 {
		status = statusError
	}

	w.instr.finishSpan(span, status, map[string]string{
		logAttrAttempts: itoa(executed),
		logAttrFailures: itoa(failures),
	})

	w.instr.logDebug(spanCtx, logMsgWorkerCompleted,
		logAttrRunID, w.runID,
		logAttrWorkerID, workerID,
		logAttrFailures, failures)

	return failures
}

// execute runs one executor call, bounded by the attempt timeout if one is configured.
func (w Worker) execute(ctx context.Context, token string) error {
	if w.attemptTimeout <= 0 {
		return w.executeGuarded(ctx, token)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, w.attemptTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.executeGuarded(attemptCtx, token)
	}()

	var err error
	select {
	case err = <-done:
		if err == nil {
			return nil
		}

	case <-attemptCtx.Done():
		err = attemptCtx.Err()
	}

	// The executor may have returned the deadline error itself before the select noticed it.
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrAttemptTimedOut) {
		return errors.Join(ErrAttemptTimedOut, err)
	}

	return err
}

// executeGuarded turns a panicking executor call into an ordinary attempt failure.
func (w Worker) executeGuarded(ctx context.Context, token string) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", ErrExecutorPanicked, recovered)
		}
	}()

	_, err = w.executor.Execute(ctx, w.query, token)

	return err
}
