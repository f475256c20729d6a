// Package metrics provides Prometheus instrumentation for the SafeView API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route, and status class.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safeview",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route pattern, and status class.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "safeview",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AnalysesTotal counts stored analyses by risk level and content type.
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safeview",
			Name:      "content_analyses_total",
			Help:      "Total content analyses stored by risk level and content type.",
		},
		[]string{"risk_level", "content_type"},
	)

	// ThreatsBlockedTotal counts analyses that were blocked (risk level high).
	ThreatsBlockedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "safeview",
		Name:      "threats_blocked_total",
		Help:      "Total analyses that resulted in a block.",
	})

	// StorageErrorsTotal counts store failures by operation.
	StorageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safeview",
			Name:      "storage_errors_total",
			Help:      "Total storage failures by operation.",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AnalysesTotal,
		ThreatsBlockedTotal,
		StorageErrorsTotal,
	)
}

// ObserveAnalysis records one stored analysis.
func ObserveAnalysis(riskLevel, contentType string, blocked bool) {
	AnalysesTotal.WithLabelValues(riskLevel, contentType).Inc()
	if blocked {
		ThreatsBlockedTotal.Inc()
	}
}

func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// Route pattern, not the raw path, keeps label cardinality bounded.
		path := c.Route().Path
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(c.Method(), path, statusBucket(status)).Inc()
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func statusBucket(code int) string {
	if code < 100 || code > 599 {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code/100) + "xx"
}
