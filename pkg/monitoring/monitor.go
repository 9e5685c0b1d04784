package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	CollabConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collab_connections",
			Help: "Websocket connections attached to the session hub",
		},
	)

	CollabRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collab_active_rooms",
			Help: "Sessions with at least one participant",
		},
	)

	CollabEventCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collab_events_total",
			Help: "Realtime events by type and direction",
		},
		[]string{"type", "direction"},
	)

	CollabPersistCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collab_persist_total",
			Help: "Best-effort session writes issued by the hub",
		},
		[]string{"kind", "result"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(CollabConnections)
		prometheus.MustRegister(CollabRooms)
		prometheus.MustRegister(CollabEventCounter)
		prometheus.MustRegister(CollabPersistCounter)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
