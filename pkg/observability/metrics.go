// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the searelay server.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for chat completion latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, route pattern, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searelay_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "searelay_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "route"},
	)

	// InFlightRequests tracks the number of requests currently being served.
	InFlightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "searelay_requests_in_flight",
			Help: "Requests in flight",
		},
	)

	// UpstreamRequestsTotal counts chat completion calls by outcome. The
	// outcome is "success" or the api.ErrorKind of the mapped failure.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searelay_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"provider", "model", "outcome"},
	)

	// UpstreamLatency records upstream call latency in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "searelay_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// UpstreamTokensTotal counts tokens reported by the upstream by direction (input/output).
	UpstreamTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searelay_upstream_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// PromptAugmentationsTotal counts chat requests by whether the persona
	// system message was injected or the caller's own system message kept.
	PromptAugmentationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searelay_prompt_augmentations_total",
			Help: "Prompt augmentation decisions",
		},
		[]string{"action"},
	)

	// RateLimitRejectedTotal counts requests rejected by the inbound rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "searelay_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

// Augmentation actions used as PromptAugmentationsTotal label values.
const (
	ActionInjected    = "injected"
	ActionPassthrough = "passthrough"
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		InFlightRequests,
		UpstreamRequestsTotal,
		UpstreamLatency,
		UpstreamTokensTotal,
		PromptAugmentationsTotal,
		RateLimitRejectedTotal,
	)
}
