package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	TabsOpen       prometheus.Gauge

	// Browsing metrics
	Navigations      *prometheus.CounterVec
	LoadsFinished    *prometheus.CounterVec
	LoadDuration     *prometheus.HistogramVec
	ViewportReports  *prometheus.CounterVec
	BookmarksToggled *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	Navigations       int64   `json:"navigations"`
	StaleReports      int64   `json:"stale_reports"`
	ActiveConnections int64   `json:"active_connections"`
	TotalDuration     float64 `json:"total_duration_seconds"` // sum of all request durations
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browser_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "browser_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "browser_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "browser_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Session metrics
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "browser_sessions_active",
				Help: "Number of open browser windows",
			},
		),
		SessionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "browser_sessions_total",
				Help: "Total number of browser windows created",
			},
		),
		TabsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "browser_tabs_open",
				Help: "Number of open tabs across all windows",
			},
		),

		// Browsing metrics
		Navigations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browser_navigations_total",
				Help: "Total number of navigations by kind",
			},
			[]string{"kind"},
		),
		LoadsFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browser_loads_finished_total",
				Help: "Total number of finished page loads by outcome",
			},
			[]string{"outcome"},
		),
		LoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "browser_load_duration_seconds",
				Help:    "Time from navigation to the viewport finishing the load",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		ViewportReports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browser_viewport_reports_total",
				Help: "Total number of viewport reports by event and whether they applied",
			},
			[]string{"event", "result"},
		),
		BookmarksToggled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browser_bookmarks_toggled_total",
				Help: "Total number of bookmark toggles by action",
			},
			[]string{"action"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "browser_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browser_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "browser_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry so callers can add their own
// collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordNavigation records a navigation of the given kind ("url", "search")
func (m *Metrics) RecordNavigation(kind string) {
	m.Navigations.WithLabelValues(kind).Inc()
	m.mu.Lock()
	m.snapshot.Navigations++
	m.mu.Unlock()
}

// RecordLoadFinished records the end of a page load
func (m *Metrics) RecordLoadFinished(outcome string, duration time.Duration) {
	m.LoadsFinished.WithLabelValues(outcome).Inc()
	if duration > 0 {
		m.LoadDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	}
}

// RecordViewportReport records a viewport report and whether it was applied
func (m *Metrics) RecordViewportReport(event string, applied bool) {
	result := "applied"
	if !applied {
		result = "stale"
		m.mu.Lock()
		m.snapshot.StaleReports++
		m.mu.Unlock()
	}
	m.ViewportReports.WithLabelValues(event, result).Inc()
}

// RecordBookmarkToggle records a bookmark being added or removed
func (m *Metrics) RecordBookmarkToggle(added bool) {
	action := "removed"
	if added {
		action = "added"
	}
	m.BookmarksToggled.WithLabelValues(action).Inc()
}

// AddTabs adjusts the open tab gauge
func (m *Metrics) AddTabs(delta int) {
	m.TabsOpen.Add(float64(delta))
}

// SetSessionsActive sets the number of open windows
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
}

// IncSessionsTotal increments the created windows counter
func (m *Metrics) IncSessionsTotal() {
	m.SessionsTotal.Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns current values for the JSON health endpoint
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
