// Package telemetry exports Prometheus metrics for the dashboard service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/siber-nasional/cve-dashboard/internal/domain"
)

// Metrics holds all dashboard Prometheus metrics.
type Metrics struct {
	// Fetch metrics
	FetchesTotal   *prometheus.CounterVec
	FallbacksTotal *prometheus.CounterVec
	RecordsSkipped prometheus.Counter

	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers and returns the dashboard metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		FetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_fetches_total",
			Help: "Total dataset fetches by data source (live, synthetic)",
		}, []string{"source"}),
		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_fallbacks_total",
			Help: "Total synthetic-data fallbacks by reason",
		}, []string{"reason"}),
		RecordsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_records_skipped_total",
			Help: "Total backend documents dropped during normalization",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_request_duration_seconds",
			Help:    "HTTP request duration by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"route", "status"}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch counts one dataset fetch by source.
func (m *Metrics) ObserveFetch(source domain.DataSource) {
	m.FetchesTotal.WithLabelValues(string(source)).Inc()
}

// ObserveFallback counts one synthetic-data fallback by reason.
func (m *Metrics) ObserveFallback(reason string) {
	m.FallbacksTotal.WithLabelValues(reason).Inc()
}

// ObserveSkipped counts documents dropped during normalization.
func (m *Metrics) ObserveSkipped(count int) {
	m.RecordsSkipped.Add(float64(count))
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, duration time.Duration) {
	m.RequestDuration.WithLabelValues(route, status).Observe(duration.Seconds())
}
