package helper

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrStubAttemptFailed is the failure detail returned by the failing stub executors.
var ErrStubAttemptFailed = errors.New("stub attempt failed")

// AlwaysSucceedingExecutor succeeds on every call and counts the calls and the tokens it has seen.
type AlwaysSucceedingExecutor struct {
	calls  atomic.Int64
	mu     sync.Mutex
	tokens map[string]int
}

// NewAlwaysSucceedingExecutor creates a new AlwaysSucceedingExecutor.
func NewAlwaysSucceedingExecutor() *AlwaysSucceedingExecutor {
	return &AlwaysSucceedingExecutor{tokens: make(map[string]int)}
}

// Execute implements stress.QueryExecutor.
func (e *AlwaysSucceedingExecutor) Execute(_ context.Context, _ string, token string) (int, error) {
	e.calls.Add(1)

	e.mu.Lock()
	e.tokens[token]++
	e.mu.Unlock()

	return 0, nil
}

// Calls returns the number of Execute calls.
func (e *AlwaysSucceedingExecutor) Calls() int64 {
	return e.calls.Load()
}

// DistinctTokens returns the number of distinct tokens seen.
func (e *AlwaysSucceedingExecutor) DistinctTokens() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.tokens)
}

// MaxTokenUsage returns how often the most frequently seen token was used.
func (e *AlwaysSucceedingExecutor) MaxTokenUsage() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	maxUsage := 0
	for _, usage := range e.tokens {
		maxUsage = max(maxUsage, usage)
	}

	return maxUsage
}

// AlwaysFailingExecutor fails every call with an error naming the token.
type AlwaysFailingExecutor struct {
	calls atomic.Int64
}

// Execute implements stress.QueryExecutor.
func (e *AlwaysFailingExecutor) Execute(_ context.Context, _ string, token string) (int, error) {
	e.calls.Add(1)

	return 0, fmt.Errorf("%w: %s", ErrStubAttemptFailed, token)
}

// Calls returns the number of Execute calls.
func (e *AlwaysFailingExecutor) Calls() int64 {
	return e.calls.Load()
}

// FailWhenExecutor fails every call whose (workerID, sequence), parsed from the cache-busting token, matches the predicate.
type FailWhenExecutor struct {
	shouldFail func(workerID int, sequence int) bool
}

// NewFailWhenExecutor creates a new FailWhenExecutor.
func NewFailWhenExecutor(shouldFail func(workerID int, sequence int) bool) *FailWhenExecutor {
	return &FailWhenExecutor{shouldFail: shouldFail}
}

// Execute implements stress.QueryExecutor.
func (e *FailWhenExecutor) Execute(_ context.Context, _ string, token string) (int, error) {
	workerID, sequence, err := ParseToken(token)
	if err != nil {
		return 0, err
	}

	if e.shouldFail(workerID, sequence) {
		return 0, fmt.Errorf("%w: worker %d, sequence %d", ErrStubAttemptFailed, workerID, sequence)
	}

	return 1, nil
}

// SeededRandomExecutor fails with probability p. Whether an attempt fails depends only on
// the seed, the worker ID and the sequence, never on scheduling, so a sequential re-run with
// the same seed (see CountSeededFailures) yields the same number of failures.
type SeededRandomExecutor struct {
	seed        int64
	probability float64
}

// NewSeededRandomExecutor creates a new SeededRandomExecutor.
func NewSeededRandomExecutor(seed int64, probability float64) *SeededRandomExecutor {
	return &SeededRandomExecutor{seed: seed, probability: probability}
}

// Execute implements stress.QueryExecutor.
func (e *SeededRandomExecutor) Execute(_ context.Context, _ string, token string) (int, error) {
	workerID, sequence, err := ParseToken(token)
	if err != nil {
		return 0, err
	}

	if e.Fails(workerID, sequence) {
		return 0, fmt.Errorf("%w: worker %d, sequence %d", ErrStubAttemptFailed, workerID, sequence)
	}

	return 1, nil
}

// Fails reports whether the attempt (workerID, sequence) fails under this seed.
func (e *SeededRandomExecutor) Fails(workerID int, sequence int) bool {
	hash := fnv.New64a()
	_, _ = fmt.Fprintf(hash, "%d/%d/%d", e.seed, workerID, sequence)

	rng := rand.New(rand.NewSource(int64(hash.Sum64()))) //nolint:gosec // deterministic test randomness

	return rng.Float64() < e.probability
}

// CountSeededFailures re-runs the same decisions sequentially and counts the failures.
func (e *SeededRandomExecutor) CountSeededFailures(workers int, attemptsPerWorker int) int64 {
	var failures int64

	for workerID := 0; workerID < workers; workerID++ {
		for sequence := 0; sequence < attemptsPerWorker; sequence++ {
			if e.Fails(workerID, sequence) {
				failures++
			}
		}
	}

	return failures
}

// BlockingExecutor blocks until its context is done, ignoring nothing but the context.
type BlockingExecutor struct{}

// Execute implements stress.QueryExecutor.
func (BlockingExecutor) Execute(ctx context.Context, _ string, _ string) (int, error) {
	<-ctx.Done()

	return 0, ctx.Err()
}

// PanickingExecutor panics on every call.
type PanickingExecutor struct{}

// Execute implements stress.QueryExecutor.
func (PanickingExecutor) Execute(_ context.Context, _ string, token string) (int, error) {
	panic("executor exploded for " + token)
}

// ParseToken extracts workerID and sequence from a cache-busting token,
// which always ends with ".<workerID>.<sequence>".
func ParseToken(token string) (int, int, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 3 {
		return 0, 0, fmt.Errorf("malformed token: %s", token)
	}

	workerID, workerErr := strconv.Atoi(parts[len(parts)-2])
	if workerErr != nil {
		return 0, 0, fmt.Errorf("malformed worker id in token %s: %w", token, workerErr)
	}

	sequence, sequenceErr := strconv.Atoi(parts[len(parts)-1])
	if sequenceErr != nil {
		return 0, 0, fmt.Errorf("malformed sequence in token %s: %w", token, sequenceErr)
	}

	return workerID, sequence, nil
}
