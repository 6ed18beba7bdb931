// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderOK is the result label recorded for successful provider calls
const ProviderOK = "ok"

// Metrics groups every collector the service updates. A nil *Metrics is a no-op.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	turnsTotal          *prometheus.CounterVec
	providerCallsTotal  *prometheus.CounterVec
	quotaUsed           prometheus.Gauge
	quotaRemaining      prometheus.Gauge
	tokensTotal         *prometheus.CounterVec
}

// ------------------------------------------------------------------------------------------------------
// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		turnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_turns_total",
				Help: "Total number of chat turns by route and outcome",
			},
			[]string{"route", "outcome"},
		),
		providerCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_calls_total",
				Help: "Total number of provider calls by provider and result",
			},
			[]string{"provider", "result"},
		),
		quotaUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quota_requests_today",
			Help: "Requests counted against today's quota",
		}),
		quotaRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quota_requests_remaining",
			Help: "Requests left in today's quota",
		}),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Approximate tokens sent to and received from the text provider",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.turnsTotal,
		m.providerCallsTotal,
		m.quotaUsed,
		m.quotaRemaining,
		m.tokensTotal,
	)

	return m
}

// ------------------------------------------------------------------------------------------------------
func (m *Metrics) ObserveHTTP(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ------------------------------------------------------------------------------------------------------
func (m *Metrics) ObserveTurn(route, outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(route, outcome).Inc()
}

// ------------------------------------------------------------------------------------------------------
// ObserveProviderCall records one adapter call; result is ProviderOK or an error category
func (m *Metrics) ObserveProviderCall(provider, result string) {
	if m == nil {
		return
	}
	m.providerCallsTotal.WithLabelValues(provider, result).Inc()
}

// ------------------------------------------------------------------------------------------------------
func (m *Metrics) SetQuota(used, remaining int) {
	if m == nil {
		return
	}
	m.quotaUsed.Set(float64(used))
	m.quotaRemaining.Set(float64(remaining))
}

// ------------------------------------------------------------------------------------------------------
// AddTokens adds n tokens of kind ("prompt" or "completion")
func (m *Metrics) AddTokens(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensTotal.WithLabelValues(kind).Add(float64(n))
}
