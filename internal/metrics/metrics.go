package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ajo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ajo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	poolJoins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ajo",
			Subsystem: "pools",
			Name:      "joins_total",
			Help:      "Pool join attempts by outcome.",
		},
		[]string{"outcome"},
	)

	chainReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ajo",
			Subsystem: "chain",
			Name:      "reads_total",
			Help:      "Solana RPC reads by operation and result.",
		},
		[]string{"operation", "result"},
	)

	payoutDateRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ajo",
			Subsystem: "jobs",
			Name:      "payout_date_refreshes_total",
			Help:      "Pools visited by the payout date refresh job.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		poolJoins,
		chainReads,
		payoutDateRefreshes,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordJoin counts a pool join outcome
func RecordJoin(outcome string) {
	poolJoins.WithLabelValues(outcome).Inc()
}

// RecordChainRead counts a Solana RPC read
func RecordChainRead(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	chainReads.WithLabelValues(operation, result).Inc()
}

// RecordPayoutDateRefresh counts one pool visited by the refresh job
func RecordPayoutDateRefresh(result string) {
	payoutDateRefreshes.WithLabelValues(result).Inc()
}
