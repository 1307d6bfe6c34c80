package stress

import "errors"

var (
	// ErrNilExecutor is returned when a Coordinator is created without a QueryExecutor.
	ErrNilExecutor = errors.New("query executor must not be nil")

	// ErrEmptyQuery is returned when a Coordinator is created with an empty query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidMaxWorkers is returned when the configured worker cap is outside [1, HardMaxWorkers].
	ErrInvalidMaxWorkers = errors.New("max workers must be between 1 and the hard worker cap")

	// ErrNilAvailableParallelism is returned when a nil parallelism probe is supplied.
	ErrNilAvailableParallelism = errors.New("available parallelism func must not be nil")

	// ErrInvalidAttemptTimeout is returned when the attempt timeout is negative.
	ErrInvalidAttemptTimeout = errors.New("attempt timeout must not be negative")

	// ErrNegativeAttempts is returned when a run is started with a negative number of attempts per worker.
	ErrNegativeAttempts = errors.New("attempts per worker must not be negative")

	// ErrCoordinationFault marks every error that aborts a run. Attempt failures never carry it.
	ErrCoordinationFault = errors.New("coordination fault")

	// ErrExecutorPanicked is recorded as the failure detail of an attempt whose executor call panicked.
	ErrExecutorPanicked = errors.New("query executor panicked")

	// ErrAttemptTimedOut is recorded as the failure detail of an attempt that exceeded the attempt timeout.
	ErrAttemptTimedOut = errors.New("attempt timed out")
)
