package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 요청 총 수
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP 요청 처리 시간 (히스토그램)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// 현재 처리 중인 HTTP 요청 수
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// 단어 조회 결과 (saved, not_saved, invalid, fault)
	wordLookupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "word_lookup_total",
			Help: "Total number of word lookups by outcome",
		},
		[]string{"outcome"},
	)

	// LLM 호출 수
	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "Total number of definition provider calls",
		},
		[]string{"status"},
	)

	// LLM 응답 시간
	llmCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "Definition provider call duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	// 번역 호출 수
	translateCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translate_calls_total",
			Help: "Total number of translator calls",
		},
		[]string{"status"},
	)

	// 복습 요청 결과
	reviewRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_requests_total",
			Help: "Total number of review requests by result",
		},
		[]string{"result"},
	)
)

// MetricsMiddleware는 HTTP 요청에 대한 Prometheus 메트릭을 수집합니다.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordWordLookup은 단어 조회 결과를 기록합니다.
func RecordWordLookup(outcome string) {
	wordLookupTotal.WithLabelValues(outcome).Inc()
}

// RecordLLMCall은 LLM 호출 메트릭을 기록합니다.
func RecordLLMCall(success bool, duration time.Duration) {
	llmCallsTotal.WithLabelValues(statusLabel(success)).Inc()
	llmCallDuration.Observe(duration.Seconds())
}

func RecordTranslateCall(success bool) {
	translateCallsTotal.WithLabelValues(statusLabel(success)).Inc()
}

func RecordReviewRequest(found bool) {
	result := "selected"
	if !found {
		result = "empty"
	}
	reviewRequestsTotal.WithLabelValues(result).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
