// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// the upstream clients and the catalog cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guanago",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "guanago",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	UpstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guanago",
		Name:      "upstream_calls_total",
		Help:      "Calls to Airtable, Make and Groq by outcome.",
	}, []string{"upstream", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guanago",
		Name:      "cache_lookups_total",
		Help:      "Catalog cache lookups by key prefix and state.",
	}, []string{"prefix", "state"})
)

// Outcome buckets an HTTP status for UpstreamCalls.
func Outcome(status int, err error) string {
	switch {
	case err != nil && status == 0:
		return "error"
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "ok"
	}
}
