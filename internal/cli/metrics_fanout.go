package cli

import (
	"context"
	"time"

	"github.com/AntonStoeckl/querycache-stress-go/stress"
)

// metricsFanout forwards every measurement to all collectors,
// using the context-aware methods of those that offer them.
type metricsFanout []stress.MetricsCollector

func (f metricsFanout) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	f.RecordDurationContext(context.Background(), metric, duration, labels)
}

func (f metricsFanout) IncrementCounter(metric string, labels map[string]string) {
	f.IncrementCounterContext(context.Background(), metric, labels)
}

func (f metricsFanout) RecordValue(metric string, value float64, labels map[string]string) {
	f.RecordValueContext(context.Background(), metric, value, labels)
}

func (f metricsFanout) RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	for _, collector := range f {
		if contextual, ok := collector.(stress.ContextualMetricsCollector); ok {
			contextual.RecordDurationContext(ctx, metric, duration, labels)
			continue
		}

		collector.RecordDuration(metric, duration, labels)
	}
}

func (f metricsFanout) IncrementCounterContext(ctx context.Context, metric string, labels map[string]string) {
	for _, collector := range f {
		if contextual, ok := collector.(stress.ContextualMetricsCollector); ok {
			contextual.IncrementCounterContext(ctx, metric, labels)
			continue
		}

		collector.IncrementCounter(metric, labels)
	}
}

func (f metricsFanout) RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string) {
	for _, collector := range f {
		if contextual, ok := collector.(stress.ContextualMetricsCollector); ok {
			contextual.RecordValueContext(ctx, metric, value, labels)
			continue
		}

		collector.RecordValue(metric, value, labels)
	}
}

var _ stress.ContextualMetricsCollector = metricsFanout(nil)
