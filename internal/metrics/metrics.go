// Package metrics collects and exposes Prometheus metrics for the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the request-level metrics.
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	likes   prometheus.Counter
	matches prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elucidate_http_requests_total",
		Help: "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	c.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "elucidate_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	c.likes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elucidate_likes_total",
		Help: "Like edges recorded",
	})

	c.matches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elucidate_matches_total",
		Help: "Mutual matches detected",
	})

	c.registry.MustRegister(c.requests, c.latency, c.likes, c.matches)
	return c
}

// Middleware records count and latency for every request.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.requests.WithLabelValues(route, ctx.Request.Method, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// RecordLike counts a recorded like edge.
func (c *Collector) RecordLike() { c.likes.Inc() }

// RecordMatch counts a detected mutual match.
func (c *Collector) RecordMatch() { c.matches.Inc() }
