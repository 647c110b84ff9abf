package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records Prometheus request metrics.
type Metrics struct {
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewMetrics creates the request metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_http_requests_total",
				Help: "Total number of HTTP requests handled by the catalog service",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(m.requestCounter, m.requestLatency)
	return m
}

// Handler returns the Fiber middleware. Routes are labelled by their pattern
// (e.g. /products/:id) to keep label cardinality bounded.
func (m *Metrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Label values outlive the request; fasthttp reuses the buffers behind c.Method().
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)
		m.requestCounter.WithLabelValues(method, route, strconv.Itoa(statusOf(c, err))).Inc()
		m.requestLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
