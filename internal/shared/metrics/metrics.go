// Package metrics exposes Prometheus instrumentation for the query service.
package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ingres"

// Metrics holds the service's collectors. A nil *Metrics is a no-op.
type Metrics struct {
	ChatQueries        *prometheus.CounterVec // labels: intent
	ChatClarifications prometheus.Counter
	ChatDuration       prometheus.Histogram
	ChatRejected       *prometheus.CounterVec // labels: reason
	RateLimited        *prometheus.CounterVec // labels: group
	Logins             *prometheus.CounterVec // labels: outcome
	CatalogRegions     prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them, plus Go and process collectors, with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := newMetrics()
	m.gatherer = reg
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ChatQueries,
		m.ChatClarifications,
		m.ChatDuration,
		m.ChatRejected,
		m.RateLimited,
		m.Logins,
		m.CatalogRegions,
	)
	return m
}

// NewForTesting creates unregistered collectors.
func NewForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ChatQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_queries_total",
			Help:      "Answered chat queries by final intent.",
		}, []string{"intent"}),
		ChatClarifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_clarifications_total",
			Help:      "Answers that asked the caller to clarify.",
		}),
		ChatDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_processing_seconds",
			Help:      "Time spent interpreting a chat query.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ChatRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_rejected_total",
			Help:      "Chat requests rejected before interpretation.",
		}, []string{"reason"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"group"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		CatalogRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_regions",
			Help:      "Regions in the loaded catalog.",
		}),
	}
}

// ObserveChat records one answered query.
func (m *Metrics) ObserveChat(intent string, clarification bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ChatQueries.WithLabelValues(intent).Inc()
	if clarification {
		m.ChatClarifications.Inc()
	}
	m.ChatDuration.Observe(elapsed.Seconds())
}

// IncChatRejected records a request refused before interpretation.
func (m *Metrics) IncChatRejected(reason string) {
	if m == nil {
		return
	}
	m.ChatRejected.WithLabelValues(reason).Inc()
}

// IncRateLimited records a throttled request.
func (m *Metrics) IncRateLimited(group string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(group).Inc()
}

// IncLogin records a login attempt outcome.
func (m *Metrics) IncLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

// SetCatalogRegions records the catalog size.
func (m *Metrics) SetCatalogRegions(n int) {
	if m == nil {
		return
	}
	m.CatalogRegions.Set(float64(n))
}

// Handler exposes metrics in Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	if m == nil || m.gatherer == nil {
		return func(c *gin.Context) {
			c.Status(http.StatusNotFound)
		}
	}
	return gin.WrapH(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
