package stress

import "context"

// QueryExecutor is the capability under test.
//
// Execute runs query with the cache-busting token and returns the number of rows it produced.
// It is invoked concurrently from all workers without any synchronization on the caller side;
// whatever caching or locking happens inside is the executor's own business.
// A returned error is an opaque failure detail: the core counts it and keeps it, nothing else.
type QueryExecutor interface {
	Execute(ctx context.Context, query string, token string) (int, error)
}

// ExecutorFunc adapts a plain function to the QueryExecutor interface.
type ExecutorFunc func(ctx context.Context, query string, token string) (int, error)

// Execute calls f(ctx, query, token).
func (f ExecutorFunc) Execute(ctx context.Context, query string, token string) (int, error) {
	return f(ctx, query, token)
}
