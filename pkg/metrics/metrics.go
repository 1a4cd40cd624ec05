package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PostsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pedroblog_posts_created_total",
			Help: "Total number of posts persisted",
		},
	)

	// op is "create" or "list"
	PersistenceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pedroblog_persistence_failures_total",
			Help: "Total number of failed storage calls",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		PostsCreatedTotal,
		PersistenceFailuresTotal,
	)
}
