package obs

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the process Prometheus collectors.
type Metrics struct {
	SupplierRequests *prometheus.CounterVec
	SupplierRetries  *prometheus.CounterVec
	SupplierLatency  *prometheus.HistogramVec
	CacheHitsTotal   prometheus.Counter
	BookingsTotal    *prometheus.CounterVec
	WebhooksTotal    *prometheus.CounterVec
	Registry         *prometheus.Registry
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SupplierRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supplier_requests_total",
			Help: "Outbound supplier attempts by operation and response status",
		}, []string{"operation", "status"}),
		SupplierRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supplier_retries_total",
			Help: "Supplier attempts that were retried after a transient failure",
		}, []string{"operation"}),
		SupplierLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supplier_request_duration_seconds",
			Help:    "Latency of individual supplier attempts",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "search_cache_hits_total",
			Help: "Search responses served from cache",
		}),
		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Bookings created by final status",
		}, []string{"status"}),
		WebhooksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Payment webhooks received by verification outcome",
		}, []string{"outcome"}),
		Registry: reg,
	}

	reg.MustRegister(
		m.SupplierRequests,
		m.SupplierRetries,
		m.SupplierLatency,
		m.CacheHitsTotal,
		m.BookingsTotal,
		m.WebhooksTotal,
	)

	return m
}

func (m *Metrics) IncSupplierRequest(operation string, status int) {
	m.SupplierRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
}

func (m *Metrics) IncSupplierRetry(operation string) {
	m.SupplierRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveSupplierLatency(operation string, seconds float64) {
	m.SupplierLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) IncCacheHits() { m.CacheHitsTotal.Inc() }

func (m *Metrics) IncBooking(status string) {
	m.BookingsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncWebhook(outcome string) {
	m.WebhooksTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
