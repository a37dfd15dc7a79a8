package monitoring

import (
	"strconv"
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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 进度引擎指标
	XPCreditedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_xp_credited_total",
			Help: "Total XP credited to users",
		},
	)

	LevelTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_level_transitions_total",
			Help: "Skill level state machine transitions applied",
		},
		[]string{"from", "to"},
	)

	AchievementsUnlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_achievements_unlocked_total",
			Help: "Achievement unlocks persisted",
		},
	)

	EvaluatorFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_evaluator_failures_total",
			Help: "Best-effort achievement evaluation passes that failed",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(XPCreditedTotal)
	prometheus.MustRegister(LevelTransitionsTotal)
	prometheus.MustRegister(AchievementsUnlockedTotal)
	prometheus.MustRegister(EvaluatorFailuresTotal)
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
