package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/querycache-stress-go/stress/oteladapters"
)

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector()

	// act
	collector.RecordDuration("querycache_attempt_duration_seconds", 150*time.Millisecond, map[string]string{"status": "success"})

	// assert
	histogram := findHistogram(t, collect(t, reader), "querycache_attempt_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	expectedAttrs := attribute.NewSet(attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector()

	// act
	for i := 0; i < 3; i++ {
		collector.IncrementCounter("querycache_attempt_failures_total", nil)
	}
	collector.IncrementCounterContext(context.Background(), "querycache_attempt_failures_total", nil)

	// assert
	sum := findCounter(t, collect(t, reader), "querycache_attempt_failures_total")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(4), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector()

	// act
	collector.RecordValue("querycache_workers", 8, nil)
	collector.RecordValueContext(context.Background(), "querycache_workers", 16, nil)

	// assert
	gauge := findGauge(t, collect(t, reader), "querycache_workers")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 16.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector()
	const goroutines = 64
	const increments = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	// act
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				collector.IncrementCounterContext(context.Background(), "querycache_attempts_total", map[string]string{"status": "error"})
				collector.RecordDurationContext(context.Background(), "querycache_attempt_duration_seconds", time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	// assert
	resourceMetrics := collect(t, reader)
	sum := findCounter(t, resourceMetrics, "querycache_attempts_total")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(goroutines*increments), sum.DataPoints[0].Value)

	histogram := findHistogram(t, resourceMetrics, "querycache_attempt_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(goroutines*increments), histogram.DataPoints[0].Count)
}

// Test setup helpers.
func givenMetricsCollector() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	return metricdata.Metrics{}
}

func findHistogram(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Histogram[float64] {
	t.Helper()

	histogram, ok := findMetric(t, resourceMetrics, name).Data.(metricdata.Histogram[float64])
	require.True(t, ok, "metric %s is not a float64 histogram", name)

	return histogram
}

func findCounter(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Sum[int64] {
	t.Helper()

	sum, ok := findMetric(t, resourceMetrics, name).Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)

	return sum
}

func findGauge(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Gauge[float64] {
	t.Helper()

	gauge, ok := findMetric(t, resourceMetrics, name).Data.(metricdata.Gauge[float64])
	require.True(t, ok, "metric %s is not a float64 gauge", name)

	return gauge
}
