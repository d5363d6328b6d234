package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SearchesAdmitted    prometheus.Counter
	SearchesRateLimited prometheus.Counter
	SearchesUnknownOrg  prometheus.Counter
	SearchDuration      prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SearchesAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peopledir_searches_admitted_total",
			Help: "Total number of search requests that were admitted",
		}),
		SearchesRateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peopledir_searches_rate_limited_total",
			Help: "Total number of search requests rejected by the rate limiter",
		}),
		SearchesUnknownOrg: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peopledir_searches_unknown_organization_total",
			Help: "Total number of search requests for an unconfigured organization",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "peopledir_search_duration_seconds",
			Help:    "Duration of search request processing",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementAdmitted increments the admitted searches counter by 1.
func (m *Metrics) IncrementAdmitted() {
	if m == nil {
		return
	}
	m.SearchesAdmitted.Inc()
}

// IncrementRateLimited increments the rate-limited searches counter by 1.
func (m *Metrics) IncrementRateLimited() {
	if m == nil {
		return
	}
	m.SearchesRateLimited.Inc()
}

// IncrementUnknownOrganization increments the unknown-organization counter by 1.
func (m *Metrics) IncrementUnknownOrganization() {
	if m == nil {
		return
	}
	m.SearchesUnknownOrg.Inc()
}

// ObserveSearchDuration records the processing time of one search.
func (m *Metrics) ObserveSearchDuration(seconds float64) {
	if m == nil {
		return
	}
	m.SearchDuration.Observe(seconds)
}
