package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/querycache-stress-go/testutil/helper"
)

func Test_MetricsFanout_ForwardsToEveryCollector(t *testing.T) {
	// arrange
	first := helper.NewMetricsCollectorSpy()
	second := helper.NewMetricsCollectorSpy()
	fanout := metricsFanout{first, second}

	// act
	fanout.IncrementCounter("querycache_attempts_total", map[string]string{"status": "error"})
	fanout.IncrementCounterContext(context.Background(), "querycache_attempts_total", nil)
	fanout.RecordDuration("querycache_run_duration_seconds", time.Second, nil)
	fanout.RecordValueContext(context.Background(), "querycache_workers", 3, nil)

	// assert
	for _, spy := range []*helper.MetricsCollectorSpy{first, second} {
		assert.Equal(t, 2, spy.CountCounter("querycache_attempts_total", nil))
		assert.Equal(t, 1, spy.CountDurations("querycache_run_duration_seconds"))

		workers, found := spy.LastValue("querycache_workers")
		assert.True(t, found)
		assert.Equal(t, float64(3), workers)
	}
}
