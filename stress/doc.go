// Package stress provides the concurrent fault-injection and aggregation core of the query cache
// reproduction harness.
//
// A Coordinator launches a bounded group of Workers. Every Worker runs a fixed number of attempts
// against a shared QueryExecutor, each attempt carrying a cache-busting token that is unique per
// (worker, sequence) pair. Failed attempts are counted by a FaultAggregator, which also keeps the
// most recently recorded failure. After all workers have finished, the Coordinator returns a Report.
//
// The executor is an opaque collaborator: the core never inspects the errors it returns,
// and a failed attempt is never fatal to a worker. Only faults of the coordination itself
// (invalid configuration, a worker goroutine crashing) abort a run with ErrCoordinationFault.
//
// Usage example:
//
//	coordinator, _ := stress.NewCoordinator(
//		executor,
//		sqlexecutor.DefaultProbePredicate,
//		stress.WithMaxWorkers(64),
//		stress.WithLogger(slog.Default()),
//	)
//
//	report, err := coordinator.Run(ctx, runtime.GOMAXPROCS(0), 100)
//	if err != nil {
//		// coordination fault
//	}
//
//	_ = report.WriteSummary(os.Stdout, os.Stderr)
package stress
