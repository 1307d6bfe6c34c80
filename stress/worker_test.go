package stress_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/querycache-stress-go/stress"
	"github.com/AntonStoeckl/querycache-stress-go/testutil/helper"
)

func Test_Worker_Run_UsesAFreshTokenForEveryAttempt(t *testing.T) {
	// arrange
	executor := helper.NewAlwaysSucceedingExecutor()
	aggregator := stress.NewFaultAggregator()
	worker := stress.NewWorker("run", executor, "q", aggregator)

	// act
	failures := worker.Run(context.Background(), 7, 100)

	// assert
	assert.Equal(t, 0, failures)
	assert.Equal(t, int64(100), executor.Calls())
	assert.Equal(t, 100, executor.DistinctTokens())
	assert.Equal(t, 1, executor.MaxTokenUsage())
	assert.Equal(t, int64(0), aggregator.Report().TotalErrors)
}

func Test_Worker_Run_ContinuesAfterFailures(t *testing.T) {
	// arrange
	executor := &helper.AlwaysFailingExecutor{}
	aggregator := stress.NewFaultAggregator()
	worker := stress.NewWorker("run", executor, "q", aggregator)

	// act
	failures := worker.Run(context.Background(), 0, 25)

	// assert
	assert.Equal(t, 25, failures)
	assert.Equal(t, int64(25), executor.Calls(), "a failed attempt must neither stop nor repeat the loop")
	assert.Equal(t, int64(25), aggregator.Report().TotalErrors)
	assert.ErrorIs(t, aggregator.Report().LastError, helper.ErrStubAttemptFailed)
}

func Test_Worker_Run_RecordsOnlyFailingSequences(t *testing.T) {
	// arrange
	executor := helper.NewFailWhenExecutor(func(_ int, sequence int) bool {
		return sequence%3 == 0
	})
	aggregator := stress.NewFaultAggregator()
	worker := stress.NewWorker("run", executor, "q", aggregator)

	// act
	failures := worker.Run(context.Background(), 2, 10)

	// assert
	assert.Equal(t, 4, failures, "sequences 0, 3, 6 and 9 fail")
	assert.Equal(t, int64(4), aggregator.Report().TotalErrors)
	assert.ErrorContains(t, aggregator.Report().LastError, "worker 2, sequence 9")
}

func Test_Worker_Run_WithZeroAttempts_DoesNothing(t *testing.T) {
	// arrange
	executor := helper.NewAlwaysSucceedingExecutor()
	aggregator := stress.NewFaultAggregator()

	// act
	failures := stress.NewWorker("run", executor, "q", aggregator).Run(context.Background(), 0, 0)

	// assert
	assert.Equal(t, 0, failures)
	assert.Equal(t, int64(0), executor.Calls())
}

func Test_Worker_Run_RecoversFromAPanickingExecutor(t *testing.T) {
	// arrange
	aggregator := stress.NewFaultAggregator()
	worker := stress.NewWorker("run", helper.PanickingExecutor{}, "q", aggregator)

	// act
	failures := worker.Run(context.Background(), 1, 3)

	// assert
	assert.Equal(t, 3, failures)
	assert.ErrorIs(t, aggregator.Report().LastError, stress.ErrExecutorPanicked)
	assert.ErrorContains(t, aggregator.Report().LastError, "executor exploded for cacheBuster.run.1.2")
}

func Test_Worker_Run_PassesTheQueryThrough(t *testing.T) {
	// arrange
	var seenQuery string
	executor := stress.ExecutorFunc(func(_ context.Context, query string, _ string) (int, error) {
		seenQuery = query
		return 0, nil
	})

	// act
	stress.NewWorker("run", executor, "name = ?", stress.NewFaultAggregator()).Run(context.Background(), 0, 1)

	// assert
	assert.Equal(t, "name = ?", seenQuery)
}

func Test_Worker_Run_StopsOnceTheContextIsDone(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	executor := stress.ExecutorFunc(func(ctx context.Context, _ string, _ string) (int, error) {
		if calls.Add(1) == 3 {
			cancel()
		}

		return 0, ctx.Err()
	})
	aggregator := stress.NewFaultAggregator()
	worker := stress.NewWorker("run", executor, "q", aggregator)

	// act
	failures := worker.Run(ctx, 0, 50)

	// assert
	assert.Equal(t, 1, failures)
	assert.Equal(t, int64(3), calls.Load())
	assert.ErrorIs(t, aggregator.Report().LastError, context.Canceled)
}
