package monitoring

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "appshelf"

// Metrics holds all Prometheus metrics. Each instance owns its registry, so
// several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Catalog metrics
	Refreshes         *prometheus.CounterVec
	RefreshDuration   *prometheus.HistogramVec
	CatalogEntries    prometheus.Gauge
	DiscoveryDuration prometheus.Histogram
	ProbeFailures     prometheus.Counter
	Classifications   *prometheus.CounterVec
	MetadataWrites    *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime     time.Time
	totalRequests atomic.Int64
	totalErrors   atomic.Int64
}

// Snapshot holds current values for the JSON health endpoint.
type Snapshot struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	TotalRequests int64   `json:"total_requests"`
	TotalErrors   int64   `json:"total_errors"`
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		CommandsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Dispatched commands by kind and status",
			},
			[]string{"command", "status"},
		),
		CommandDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Command duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),

		Refreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_refreshes_total",
				Help:      "Catalog refreshes by mode",
			},
			[]string{"mode"},
		),
		RefreshDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "catalog_refresh_duration_seconds",
				Help:      "Catalog refresh duration by mode",
				Buckets:   []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"mode"},
		),
		CatalogEntries: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_entries",
				Help:      "Applications in the current catalog snapshot",
			},
		),
		DiscoveryDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "discovery_duration_seconds",
				Help:      "Discovery probe duration",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		ProbeFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "discovery_failures_total",
				Help:      "Discovery probes that returned no result because of an error",
			},
		),
		Classifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Auto-categorization outcomes",
			},
			[]string{"outcome"},
		),
		MetadataWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "metadata_writes_total",
				Help:      "Metadata record writes by status",
			},
			[]string{"status"},
		),

		WSConnections: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "websocket_connections",
				Help:      "Open WebSocket command streams",
			},
		),
		WSMessages: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "websocket_messages_total",
				Help:      "WebSocket messages by direction",
			},
			[]string{"direction"},
		),
	}
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.totalRequests.Add(1)
	if len(status) > 0 && status[0] >= '4' {
		m.totalErrors.Add(1)
	}
}

// RecordCommand records a dispatched command
func (m *Metrics) RecordCommand(command, status string, duration time.Duration) {
	m.CommandsTotal.WithLabelValues(command, status).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// ObserveRefresh implements catalog.Observer.
func (m *Metrics) ObserveRefresh(mode string, entries int, d time.Duration) {
	m.Refreshes.WithLabelValues(mode).Inc()
	m.RefreshDuration.WithLabelValues(mode).Observe(d.Seconds())
	m.CatalogEntries.Set(float64(entries))
}

// ObserveDiscovery implements discovery.Observer.
func (m *Metrics) ObserveDiscovery(d time.Duration, _ int, err error) {
	m.DiscoveryDuration.Observe(d.Seconds())
	if err != nil {
		m.ProbeFailures.Inc()
	}
}

// ObserveClassification implements classify.Observer.
func (m *Metrics) ObserveClassification(outcome string) {
	m.Classifications.WithLabelValues(outcome).Inc()
}

// ObserveWrite counts a metadata write outcome.
func (m *Metrics) ObserveWrite(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.MetadataWrites.WithLabelValues(status).Inc()
}

// Snapshot returns current totals.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		UptimeSeconds: time.Since(m.startTime).Seconds(),
		TotalRequests: m.totalRequests.Load(),
		TotalErrors:   m.totalErrors.Load(),
	}
}
