// Package observability exposes Prometheus metrics for the service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors used across the service.
type Metrics struct {
	registry *prometheus.Registry

	oracleCallsTotal     *prometheus.CounterVec
	oracleCallDuration   *prometheus.HistogramVec
	quotaRejectionsTotal *prometheus.CounterVec
	ingestTotal          *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		oracleCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marinewatch_oracle_calls_total",
				Help: "Total AI completion calls by provider and status",
			},
			[]string{"provider", "status"},
		),
		oracleCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marinewatch_oracle_call_duration_seconds",
				Help:    "AI completion call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		quotaRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marinewatch_quota_rejections_total",
				Help: "Annotation requests rejected by the daily quota gate",
			},
			[]string{"provider"},
		),
		ingestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marinewatch_ingest_total",
				Help: "Ingested records by kind",
			},
			[]string{"kind"},
		),
	}

	collectors := []prometheus.Collector{
		m.oracleCallsTotal,
		m.oracleCallDuration,
		m.quotaRejectionsTotal,
		m.ingestTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordOracleCall tracks one completion call outcome and duration.
func (m *Metrics) RecordOracleCall(provider string, success bool, seconds float64) {
	status := "success"
	if !success {
		status = "error"
	}
	m.oracleCallsTotal.WithLabelValues(provider, status).Inc()
	m.oracleCallDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordQuotaRejection tracks one quota-gated rejection.
func (m *Metrics) RecordQuotaRejection(provider string) {
	m.quotaRejectionsTotal.WithLabelValues(provider).Inc()
}

// RecordIngest tracks one ingested record by kind ("sample" or "camera_event").
func (m *Metrics) RecordIngest(kind string) {
	m.ingestTotal.WithLabelValues(kind).Inc()
}

// Handler returns an HTTP handler serving the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
