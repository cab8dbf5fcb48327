// Package metrics exposes instrumentation for the Lifeline API client.
// Metrics are registered on the default registry and served with promhttp
// when the --metrics-addr flag is set.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// RequestsTotal counts Lifeline API calls by endpoint and result. The
	// poll loop fires unconditionally every few seconds, so this is the
	// cheapest way to see how often the service is failing.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifeline",
		Name:      "api_requests_total",
		Help:      "Lifeline API requests by endpoint and result.",
	}, []string{"endpoint", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lifeline",
		Name:      "api_request_duration_seconds",
		Help:      "Lifeline API request latency by endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// NewRequestTimer starts a latency observation for one API call
func NewRequestTimer(endpoint string) *prometheus.Timer {
	return prometheus.NewTimer(requestDuration.WithLabelValues(endpoint))
}

// Serve blocks serving /metrics on addr
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
