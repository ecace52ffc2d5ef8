// Package metrics exposes Prometheus collectors for form submissions and
// store latency on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeStored   = "stored"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the application collectors.
type Metrics struct {
	registry *prometheus.Registry

	submissions        *prometheus.CounterVec
	storeInsertSeconds *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hms_submissions_total",
			Help: "Form submissions by collection and outcome.",
		}, []string{"collection", "outcome"}),
		storeInsertSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hms_store_insert_duration_seconds",
			Help:    "Time spent inserting a document into the store.",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection"}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hms_validation_failures_total",
			Help: "Submissions rejected by validation.",
		}, []string{"collection"}),
	}
}

// Submission counts one submission outcome.
func (m *Metrics) Submission(collection, outcome string) {
	m.submissions.WithLabelValues(collection, outcome).Inc()
}

// ObserveInsert records how long an insert took.
func (m *Metrics) ObserveInsert(collection string, d time.Duration) {
	m.storeInsertSeconds.WithLabelValues(collection).Observe(d.Seconds())
}

// ValidationFailure counts a rejected payload.
func (m *Metrics) ValidationFailure(collection string) {
	m.validationFailures.WithLabelValues(collection).Inc()
	m.Submission(collection, OutcomeRejected)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
