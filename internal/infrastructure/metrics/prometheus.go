// Package metrics implements port.Metrics on a Prometheus registry.
package metrics

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hapkiduki/cart-products/internal/application/port"
)

// PrometheusMetrics creates metric vectors on first use. The tag keys of the
// first observation fix the label names of a metric; later observations with
// other keys are dropped.
type PrometheusMetrics struct {
	namespace string
	registry  *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics creates a registry with the Go runtime and process
// collectors.
//
// Parameters:
//   - namespace: prefix of every metric name, e.g. "cart_products"
//
// Returns:
//   - *PrometheusMetrics: the metrics recorder
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &PrometheusMetrics{
		namespace:  namespace,
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Registry returns the underlying registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Counter implements port.Metrics.
func (m *PrometheusMetrics) Counter(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      name,
		}, labelNames(tags))
		m.registry.MustRegister(vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()

	if c, err := vec.GetMetricWith(tags); err == nil && value >= 0 {
		c.Add(value)
	}
}

// Gauge implements port.Metrics.
func (m *PrometheusMetrics) Gauge(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      name,
		}, labelNames(tags))
		m.registry.MustRegister(vec)
		m.gauges[name] = vec
	}
	m.mu.Unlock()

	if g, err := vec.GetMetricWith(tags); err == nil {
		g.Set(value)
	}
}

// Histogram implements port.Metrics.
func (m *PrometheusMetrics) Histogram(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      name,
			Buckets:   prometheus.DefBuckets,
		}, labelNames(tags))
		m.registry.MustRegister(vec)
		m.histograms[name] = vec
	}
	m.mu.Unlock()

	if h, err := vec.GetMetricWith(tags); err == nil {
		h.Observe(value)
	}
}

// Timing implements port.Metrics. Durations are recorded in seconds in the
// histogram "<name>_seconds".
func (m *PrometheusMetrics) Timing(name string, duration time.Duration, tags map[string]string) {
	m.Histogram(name+"_seconds", duration.Seconds(), tags)
}

func labelNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// nopMetrics discards every observation.
type nopMetrics struct{}

// Nop returns a port.Metrics that records nothing.
func Nop() port.Metrics {
	return nopMetrics{}
}

func (nopMetrics) Counter(string, float64, map[string]string) {}
func (nopMetrics) Gauge(string, float64, map[string]string) {}
func (nopMetrics) Histogram(string, float64, map[string]string) {}
func (nopMetrics) Timing(string, time.Duration, map[string]string) {}

var _ port.Metrics = (*PrometheusMetrics)(nil)
