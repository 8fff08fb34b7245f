package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	descOperations = prometheus.NewDesc(
		"docpipe_operations_total",
		"Total operations recorded, by operation.",
		[]string{"operation"}, nil)
	descFailures = prometheus.NewDesc(
		"docpipe_operation_failures_total",
		"Failed operations, by operation.",
		[]string{"operation"}, nil)
	descLatency = prometheus.NewDesc(
		"docpipe_operation_latency_seconds",
		"Operation latency quantiles estimated from a reservoir sample.",
		[]string{"operation", "quantile"}, nil)
	descRateLimits = prometheus.NewDesc(
		"docpipe_rate_limit_events",
		"Rate limit incidents currently in the event window.",
		nil, nil)
)

// promCollector exposes a Registry in Prometheus exposition format.
type promCollector struct {
	registry *Registry
}

var _ prometheus.Collector = (*promCollector)(nil)

// NewPrometheusCollector wraps a Registry as a prometheus.Collector.
func NewPrometheusCollector(registry *Registry) prometheus.Collector {
	return &promCollector{registry: registry}
}

// Describe implements prometheus.Collector.
func (pc *promCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descOperations
	ch <- descFailures
	ch <- descLatency
	ch <- descRateLimits
}

// Collect implements prometheus.Collector.
func (pc *promCollector) Collect(ch chan<- prometheus.Metric) {
	for operation, stats := range pc.registry.Snapshot() {
		ch <- prometheus.MustNewConstMetric(descOperations,
			prometheus.CounterValue, float64(stats.Count), operation)
		ch <- prometheus.MustNewConstMetric(descFailures,
			prometheus.CounterValue, float64(stats.Failures), operation)
		ch <- prometheus.MustNewConstMetric(descLatency,
			prometheus.GaugeValue, stats.P50.Seconds(), operation, "0.5")
		ch <- prometheus.MustNewConstMetric(descLatency,
			prometheus.GaugeValue, stats.P95.Seconds(), operation, "0.95")
		ch <- prometheus.MustNewConstMetric(descLatency,
			prometheus.GaugeValue, stats.P99.Seconds(), operation, "0.99")
	}
	ch <- prometheus.MustNewConstMetric(descRateLimits,
		prometheus.GaugeValue, float64(len(pc.registry.RateLimitEvents())))
}

// Handler serves a Registry over HTTP in Prometheus exposition format.
func Handler(registry *Registry) http.Handler {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(NewPrometheusCollector(registry))
	return promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})
}
