package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// predictionsTotal 按算法与结果（ok/fallback）统计预测次数
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssq_predictions_total",
			Help: "Total number of predictions generated, by algorithm and outcome.",
		},
		[]string{"algorithm", "outcome"},
	)

	// requestDuration HTTP请求耗时分布
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ssq_http_request_duration_seconds",
			Help:    "HTTP request latency distribution.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

// observePrediction 记录一次预测
func observePrediction(algorithm string, fallback bool) {
	outcome := "ok"
	if fallback {
		outcome = "fallback"
	}
	predictionsTotal.WithLabelValues(algorithm, outcome).Inc()
}

// requestIDMiddleware 为每个请求附加X-Request-ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// metricsMiddleware 采集请求耗时
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		requestDuration.WithLabelValues(
			path,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
