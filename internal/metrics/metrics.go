// Package metrics registers the Prometheus instruments the service
// exposes on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus instruments.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsAnalyzed  prometheus.Counter
	AnalysisFailures   *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram
	AccountsWithIssues prometheus.Histogram
	UploadsRejected    *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry, so tests
// and multiple instances never collide on registration.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		DocumentsAnalyzed: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditscan_documents_analyzed_total",
			Help: "Number of documents analyzed successfully.",
		}),
		AnalysisFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creditscan_analysis_failures_total",
			Help: "Number of failed analyses by reason.",
		}, []string{"reason"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditscan_analysis_duration_seconds",
			Help:    "Wall-clock duration of one document analysis.",
			Buckets: prometheus.DefBuckets,
		}),
		AccountsWithIssues: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditscan_accounts_with_issues",
			Help:    "Accounts with at least one issue per analyzed document.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		UploadsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creditscan_uploads_rejected_total",
			Help: "Number of rejected uploads by reason.",
		}, []string{"reason"}),
	}
}

// Handler returns the HTTP handler serving this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
