// Package metrics holds the Prometheus collectors of the API.
// Collectors register on the default registry at init via promauto.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_api_http_requests_total",
			Help: "Total HTTP requests handled by the forecast API",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecast_api_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_api_uploads_total",
			Help: "Uploads by final status",
		},
		[]string{"status"},
	)

	processingCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecast_api_processing_call_duration_seconds",
			Help:    "Latency of calls to the ML processing service",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"endpoint", "outcome"},
	)
)

// ObserveUpload counts one finished upload.
func ObserveUpload(status string) {
	uploadsTotal.WithLabelValues(status).Inc()
}

// ObserveProcessingCall records one ML service call.
func ObserveProcessingCall(endpoint string, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	processingCallDuration.WithLabelValues(endpoint, outcome).Observe(elapsed.Seconds())
}

// Middleware records request count and latency per route pattern.
// Route patterns (e.g. /api/jobs/:id) keep label cardinality bounded.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			path = r.Path
		} else if c.Path() == "/" {
			path = "/"
		}

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
