package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "promptvault_http_requests_total",
	Help: "The total number of HTTP requests by route, method and status",
}, []string{"route", "method", "status"})

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "promptvault_http_request_duration_seconds",
	Help:    "The duration of HTTP requests by route and method",
	Buckets: prometheus.DefBuckets,
}, []string{"route", "method"})
