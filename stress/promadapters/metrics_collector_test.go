package promadapters_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/querycache-stress-go/stress"
	"github.com/AntonStoeckl/querycache-stress-go/stress/promadapters"
	"github.com/AntonStoeckl/querycache-stress-go/testutil/helper"
)

func Test_MetricsCollector_RegistersOneVectorPerMetric(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.IncrementCounter("querycache_attempts_total", map[string]string{"status": "success"})
	collector.IncrementCounter("querycache_attempts_total", map[string]string{"status": "error"})
	collector.IncrementCounter("querycache_attempts_total", map[string]string{"status": "error"})
	collector.RecordDuration("querycache_attempt_duration_seconds", 2*time.Millisecond, map[string]string{"status": "error"})
	collector.RecordValue("querycache_workers", 4, nil)

	// assert
	count, err := testutil.GatherAndCount(registry,
		"querycache_attempts_total",
		"querycache_attempt_duration_seconds",
		"querycache_workers")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "two counter series, one histogram, one gauge")

	assert.InDelta(t, 2.0, gatheredValue(t, registry, "querycache_attempts_total", "error"), 0.0001)
	assert.InDelta(t, 1.0, gatheredValue(t, registry, "querycache_attempts_total", "success"), 0.0001)
	assert.InDelta(t, 4.0, gatheredValue(t, registry, "querycache_workers", ""), 0.0001)
}

func Test_MetricsCollector_ToleratesChangingLabelSets(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.IncrementCounter("querycache_sql_errors_total", map[string]string{"stage": "query"})

	// assert
	assert.NotPanics(t, func() {
		collector.IncrementCounter("querycache_sql_errors_total", nil)
		collector.IncrementCounter("querycache_sql_errors_total", map[string]string{"stage": "scan", "unknown": "x"})
	})
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	var wg sync.WaitGroup
	wg.Add(32)

	// act
	for i := 0; i < 32; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				collector.IncrementCounter("querycache_attempt_failures_total", nil)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.InDelta(t, 1600.0, gatheredValue(t, registry, "querycache_attempt_failures_total", ""), 0.0001)
}

func Test_MetricsCollector_Handler_ExposesACoordinatorRun(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)
	coordinator, err := stress.NewCoordinator(
		&helper.AlwaysFailingExecutor{},
		"name = ?",
		stress.WithAvailableParallelism(func() int { return 4 }),
		stress.WithMetrics(collector),
	)
	require.NoError(t, err)

	_, runErr := coordinator.Run(context.Background(), 3, 3)
	require.NoError(t, runErr)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	// act
	response, getErr := http.Get(server.URL)
	require.NoError(t, getErr)
	defer func() { _ = response.Body.Close() }()

	body, readErr := io.ReadAll(response.Body)
	require.NoError(t, readErr)

	// assert
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, string(body), `querycache_attempts_total{status="error"} 9`)
	assert.Contains(t, string(body), "querycache_attempt_failures_total 9")
	assert.Contains(t, string(body), "querycache_workers 3")
}

// gatheredValue returns the value of the counter or gauge series whose status label equals status.
func gatheredValue(t *testing.T, registry *prometheus.Registry, name string, status string) float64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}

		for _, m := range family.GetMetric() {
			seriesStatus := ""
			for _, label := range m.GetLabel() {
				if label.GetName() == "status" {
					seriesStatus = label.GetValue()
				}
			}

			if seriesStatus != status {
				continue
			}

			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}

			return m.GetGauge().GetValue()
		}
	}

	t.Fatalf("series %s{status=%q} not found", name, status)

	return 0
}
