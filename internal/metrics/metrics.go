package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dairy_http_requests_total",
			Help: "Total number of HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dairy_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dairy_import_rows_total",
			Help: "CSV import rows by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	OnlinePaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dairy_online_payments_total",
			Help: "Razorpay payment attempts by final status",
		},
		[]string{"status"},
	)
)
