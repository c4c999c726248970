package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_http_requests_total",
			Help: "Total HTTP requests handled, by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Metrics records per-request prometheus counters and latency histograms.
// Routes are labelled by their gin template path, not the raw URL, to keep
// label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now()

		gctx.Next()

		route := gctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			gctx.Request.Method,
			route,
			strconv.Itoa(gctx.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(gctx.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
