// Package metrics holds Prometheus instruments that are used across the
// storefront.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for CMS calls.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	CMSRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cms_requests_total",
			Help: "Content API calls by operation and outcome.",
		}, []string{"op", "outcome"})

	CMSRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_cms_request_seconds",
			Help:    "Content API call latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"})

	PageResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_page_responses_total",
			Help: "Pipeline responses by route pattern and status code.",
		}, []string{"route", "status"})

	PreviewSessionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_preview_sessions_total",
			Help: "Preview cookies issued after a successful token resolution.",
		})
)

func init() {
	prometheus.MustRegister(
		CMSRequestsTotal,
		CMSRequestSeconds,
		PageResponsesTotal,
		PreviewSessionsTotal,
	)
}

// ObserveCMS records one content API call that started at start.
func ObserveCMS(op, outcome string, start time.Time) {
	CMSRequestsTotal.WithLabelValues(op, outcome).Inc()
	CMSRequestSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
