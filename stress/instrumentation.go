package stress

import (
	"context"
	"math"
	"strconv"
	"time"
)

const (
	metricAttempts         = "querycache_attempts_total"
	metricAttemptFailures  = "querycache_attempt_failures_total"
	metricAttemptDuration  = "querycache_attempt_duration_seconds"
	metricRunDuration      = "querycache_run_duration_seconds"
	metricWorkers          = "querycache_workers"
	spanNameRun            = "querycache.run"
	spanNameWorker         = "querycache.worker"
	logMsgRunStarted       = "querycache run started"
	logMsgRunCompleted     = "querycache run completed"
	logMsgRunAborted       = "querycache run aborted"
	logMsgAttemptFailed    = "attempt failed"
	logMsgAttemptSucceeded = "attempt succeeded"
	logMsgWorkerCompleted  = "worker completed"
	logMsgWorkersClamped   = "requested worker count clamped"
	logAttrRunID           = "run_id"
	logAttrWorkerID        = "worker_id"
	logAttrIteration       = "iteration"
	logAttrToken           = "token"
	logAttrError           = "error"
	logAttrWorkers         = "workers"
	logAttrRequested       = "requested"
	logAttrAttempts        = "attempts_per_worker"
	logAttrFailures        = "failures"
	logAttrTotalErrors     = "total_errors"
	logAttrDurationMS      = "duration_ms"
	attrStatus             = "status"
	statusSuccess          = "success"
	statusError            = "error"
)

// instrumentation bundles the optional observability collaborators shared by the Coordinator and its Workers.
// Every method is a no-op for collaborators that are not configured.
type instrumentation struct {
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// logDebug logs at the debug level, preferring the contextual logger.
func (in instrumentation) logDebug(ctx context.Context, msg string, args ...any) {
	if in.contextualLogger != nil {
		in.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}

	if in.logger != nil {
		in.logger.Debug(msg, args...)
	}
}

// logInfo logs at the info level, preferring the contextual logger.
func (in instrumentation) logInfo(ctx context.Context, msg string, args ...any) {
	if in.contextualLogger != nil {
		in.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if in.logger != nil {
		in.logger.Info(msg, args...)
	}
}

// logWarn logs at the warn level, preferring the contextual logger.
func (in instrumentation) logWarn(ctx context.Context, msg string, args ...any) {
	if in.contextualLogger != nil {
		in.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if in.logger != nil {
		in.logger.Warn(msg, args...)
	}
}

// logError logs at the error level, preferring the contextual logger.
func (in instrumentation) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if in.contextualLogger != nil {
		in.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if in.logger != nil {
		in.logger.Error(msg, allArgs...)
	}
}

// incrementCounter increments a counter, using the context-aware method if the collector supports it.
func (in instrumentation) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if in.metricsCollector == nil {
		return
	}

	if contextual, ok := in.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	in.metricsCollector.IncrementCounter(metric, labels)
}

// recordDuration records a duration, using the context-aware method if the collector supports it.
func (in instrumentation) recordDuration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if in.metricsCollector == nil {
		return
	}

	if contextual, ok := in.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	in.metricsCollector.RecordDuration(metric, d, labels)
}

// recordValue records a gauge value, using the context-aware method if the collector supports it.
func (in instrumentation) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if in.metricsCollector == nil {
		return
	}

	if contextual, ok := in.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	in.metricsCollector.RecordValue(metric, value, labels)
}

// startSpan starts a tracing span if the tracing collector is configured.
func (in instrumentation) startSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext) {
	if in.tracingCollector == nil {
		return ctx, nil
	}

	return in.tracingCollector.StartSpan(ctx, name, attrs)
}

// finishSpan finishes a tracing span if the tracing collector is configured.
func (in instrumentation) finishSpan(span SpanContext, status string, attrs map[string]string) {
	if in.tracingCollector == nil || span == nil {
		return
	}

	in.tracingCollector.FinishSpan(span, status, attrs)
}

// attemptFinished records the outcome of a single attempt.
func (in instrumentation) attemptFinished(ctx context.Context, runID string, attempt Attempt, d time.Duration, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}

	labels := map[string]string{attrStatus: status}
	in.incrementCounter(ctx, metricAttempts, labels)
	in.recordDuration(ctx, metricAttemptDuration, d, labels)

	if err == nil {
		in.logDebug(ctx, logMsgAttemptSucceeded,
			logAttrRunID, runID,
			logAttrWorkerID, attempt.WorkerID,
			logAttrIteration, attempt.Sequence+1,
			logAttrDurationMS, toMilliseconds(d))

		return
	}

	in.incrementCounter(ctx, metricAttemptFailures, nil)
	in.logWarn(ctx, logMsgAttemptFailed,
		logAttrRunID, runID,
		logAttrWorkerID, attempt.WorkerID,
		logAttrIteration, attempt.Sequence+1,
		logAttrToken, attempt.Token,
		logAttrError, err.Error())
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
