package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skotchmaster/thinai_hub/internal/models"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DocumentChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_changes_total",
			Help: "Persisted document changes by collection and kind",
		},
		[]string{"collection", "change"},
	)

	// CircuitBreakerState is 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit"},
	)
)

// Middleware records one sample per request under its route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// ChangeCounter counts persisted collection changes.
type ChangeCounter struct{}

func (ChangeCounter) DocumentCreated(_ context.Context, coll models.Collection, _ models.Document) error {
	DocumentChanges.WithLabelValues(string(coll), "created").Inc()
	return nil
}

func (ChangeCounter) DocumentPatched(_ context.Context, coll models.Collection, _ models.Document) error {
	DocumentChanges.WithLabelValues(string(coll), "patched").Inc()
	return nil
}

func (ChangeCounter) DocumentDeleted(_ context.Context, coll models.Collection, _ string) error {
	DocumentChanges.WithLabelValues(string(coll), "deleted").Inc()
	return nil
}
