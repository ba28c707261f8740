package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics populated by the metrics middleware.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cms_http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cms_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Domain counters incremented by the services.
var (
	ReleasesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_releases_processed_total",
		Help: "Successful pot releases",
	})

	ReleaseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_release_failures_total",
		Help: "Rejected or failed release attempts",
	})

	RenewalsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_renewals_processed_total",
		Help: "Successful entry renewals",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_notifications_sent_total",
		Help: "Outbox notifications delivered to the SMS provider",
	})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_notifications_failed_total",
		Help: "Outbox notifications that failed to send",
	})
)
