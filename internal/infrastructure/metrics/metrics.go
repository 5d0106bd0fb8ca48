package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the storefront's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so callers never need to check whether metrics
// are enabled.
type Metrics struct {
	registry      *prometheus.Registry
	cartOps       *prometheus.CounterVec
	checkoutSteps *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	submitLatency *prometheus.HistogramVec
	sessions      prometheus.GaugeFunc
}

// New registers the collectors on a private registry. activeSessions is
// sampled on every scrape.
func New(activeSessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_operations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		checkoutSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_transitions_total",
			Help:      "Checkout step transitions by action and outcome.",
		}, []string{"action", "outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "order_submissions_total",
			Help:      "Orders handed to a sink by channel and outcome.",
		}, []string{"channel", "outcome"}),
		submitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "order_submit_duration_seconds",
			Help:      "Time spent in the order sink.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 30},
		}, []string{"channel"}),
	}
	if activeSessions == nil {
		activeSessions = func() float64 { return 0 }
	}
	m.sessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory.",
	}, activeSessions)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cartOps,
		m.checkoutSteps,
		m.submissions,
		m.submitLatency,
		m.sessions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) CartOperation(op string) {
	if m == nil {
		return
	}
	m.cartOps.WithLabelValues(op).Inc()
}

func (m *Metrics) CheckoutTransition(action string, err error) {
	if m == nil {
		return
	}
	m.checkoutSteps.WithLabelValues(action, outcome(err)).Inc()
}

func (m *Metrics) OrderSubmitted(channel string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(channel, outcome(err)).Inc()
	m.submitLatency.WithLabelValues(channel).Observe(took.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
