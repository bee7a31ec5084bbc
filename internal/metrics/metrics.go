// Package metrics exposes checkout and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkout"

type Metrics struct {
	registry *prometheus.Registry

	checkouts       *prometheus.CounterVec
	checkoutLatency prometheus.Histogram
	compensations   *prometheus.CounterVec
	transitions     *prometheus.CounterVec

	requests  *prometheus.CounterVec
	latencyMS *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, so several instances can
// live in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		checkoutLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_duration_seconds",
			Help:      "Checkout latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensation_steps_total",
			Help:      "Stock movements undone after a failed checkout or cancellation.",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status transitions by target status and outcome.",
		}, []string{"status", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		latencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
	}

	m.registry.MustRegister(
		m.checkouts,
		m.checkoutLatency,
		m.compensations,
		m.transitions,
		m.requests,
		m.latencyMS,
	)

	return m
}

func (m *Metrics) ObserveCheckout(err error, elapsed time.Duration) {
	m.checkouts.WithLabelValues(domain.Kind(err)).Inc()
	m.checkoutLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCompensation(released, failed int) {
	m.compensations.WithLabelValues("undone").Add(float64(released))
	m.compensations.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) ObserveTransition(to domain.OrderStatus, err error) {
	m.transitions.WithLabelValues(string(to), domain.Kind(err)).Inc()
}

// Middleware counts requests per chi route pattern and status code.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		handler := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			handler = r.Method + " " + rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
		m.latencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
