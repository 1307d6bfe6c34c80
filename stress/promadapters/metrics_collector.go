// Package promadapters provides a Prometheus implementation of stress.MetricsCollector.
package promadapters

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntonStoeckl/querycache-stress-go/stress"
)

const namespaceHelp = "querycache stress run metric "

// MetricsCollector implements stress.MetricsCollector on a Prometheus registry:
//   - RecordDuration -> HistogramVec in seconds
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// A vector is registered on first use of a metric name, and its label names are taken from that first call.
// Labels a later call adds are dropped; labels it leaves out are recorded as empty.
type MetricsCollector struct {
	registry   *prometheus.Registry
	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	labelNames map[string][]string
}

// NewMetricsCollector creates a collector registering its vectors with registry.
func NewMetricsCollector(registry *prometheus.Registry) *MetricsCollector {
	return &MetricsCollector{
		registry:   registry,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		labelNames: make(map[string][]string),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordDuration observes duration in seconds.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	vec := m.histogram(metric, labels)
	if vec == nil {
		return
	}

	if observer, err := vec.GetMetricWith(m.promLabels(metric, labels)); err == nil {
		observer.Observe(duration.Seconds())
	}
}

// IncrementCounter adds one to the counter.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	vec := m.counter(metric, labels)
	if vec == nil {
		return
	}

	if counter, err := vec.GetMetricWith(m.promLabels(metric, labels)); err == nil {
		counter.Inc()
	}
}

// RecordValue sets the gauge to value.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	vec := m.gauge(metric, labels)
	if vec == nil {
		return
	}

	if gauge, err := vec.GetMetricWith(m.promLabels(metric, labels)); err == nil {
		gauge.Set(value)
	}
}

func (m *MetricsCollector) histogram(metric string, labels map[string]string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, exists := m.histograms[metric]; exists {
		return vec
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metric,
		Help:    namespaceHelp + metric,
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, m.registerLabelNames(metric, labels))

	if err := m.registry.Register(vec); err != nil {
		return nil
	}

	m.histograms[metric] = vec

	return vec
}

func (m *MetricsCollector) counter(metric string, labels map[string]string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, exists := m.counters[metric]; exists {
		return vec
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metric,
		Help: namespaceHelp + metric,
	}, m.registerLabelNames(metric, labels))

	if err := m.registry.Register(vec); err != nil {
		return nil
	}

	m.counters[metric] = vec

	return vec
}

func (m *MetricsCollector) gauge(metric string, labels map[string]string) *prometheus.GaugeVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, exists := m.gauges[metric]; exists {
		return vec
	}

	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: metric,
		Help: namespaceHelp + metric,
	}, m.registerLabelNames(metric, labels))

	if err := m.registry.Register(vec); err != nil {
		return nil
	}

	m.gauges[metric] = vec

	return vec
}

// registerLabelNames must be called with mu held.
func (m *MetricsCollector) registerLabelNames(metric string, labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	slices.Sort(names)

	m.labelNames[metric] = names

	return names
}

func (m *MetricsCollector) promLabels(metric string, labels map[string]string) prometheus.Labels {
	m.mu.Lock()
	names := m.labelNames[metric]
	m.mu.Unlock()

	promLabels := make(prometheus.Labels, len(names))
	for _, name := range names {
		promLabels[name] = labels[name]
	}

	return promLabels
}

var _ stress.MetricsCollector = (*MetricsCollector)(nil)
