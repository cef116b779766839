package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmarket_http_requests_total",
		Help: "Total number of HTTP requests by route, method and status code.",
	},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artmarket_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"route", "method"},
	)

	ExecutorLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmarket_executor_lookups_total",
		Help: "Total number of executor lookups by result (found, absent, invalid).",
	},
		[]string{"result"},
	)

	ExecutorsListedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artmarket_executors_listed_total",
		Help: "Total number of executor profiles returned by listings.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmarket_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	AuditEntriesPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmarket_audit_entries_published_total",
		Help: "Total number of audit entries handed to the producer, by outcome.",
	},
		[]string{"status"},
	)

	DatabaseUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "artmarket_database_up",
		Help: "1 if the last store ping succeeded, 0 otherwise.",
	})
)
