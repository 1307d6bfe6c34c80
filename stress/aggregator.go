package stress

import "sync/atomic"

// failure boxes an error so it can live behind an atomic.Pointer.
type failure struct {
	err error
}

// FaultAggregator counts failed attempts and keeps the most recently recorded failure.
//
// All methods are safe for concurrent use. The counter is exact; the last error is
// whichever failure was written last (last writer wins), which under concurrent writers
// is not necessarily the causally last one.
type FaultAggregator struct {
	totalErrors atomic.Int64
	lastError   atomic.Pointer[failure]
}

// NewFaultAggregator creates an empty FaultAggregator.
func NewFaultAggregator() *FaultAggregator {
	return &FaultAggregator{}
}

// RecordFailure increments the failure count and replaces the last error with detail.
// A nil detail is not a failure and is ignored.
func (a *FaultAggregator) RecordFailure(detail error) {
	if detail == nil {
		return
	}

	a.totalErrors.Add(1)
	a.lastError.Store(&failure{err: detail})
}

// Report returns a snapshot of the aggregated failures.
// The snapshot is only guaranteed to be consistent once all writers have finished.
func (a *FaultAggregator) Report() Report {
	report := Report{TotalErrors: a.totalErrors.Load()}

	if last := a.lastError.Load(); last != nil {
		report.LastError = last.err
	}

	return report
}
