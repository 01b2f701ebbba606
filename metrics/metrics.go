// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the recording interface the services depend on.
type Recorder interface {
	RecordPlacement(outcome string)
	RecordPromotion()
	RecordPaymentAuth(approved bool)
	RecordStoreError(op string)
}

// Collector records metrics into a Prometheus registry.
type Collector struct {
	registry    *prometheus.Registry
	placements  *prometheus.CounterVec
	promotions  prometheus.Counter
	paymentAuth *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "musfit_enrollment_placements_total",
			Help: "Enrollment outcomes by placement",
		}, []string{"placement"}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "musfit_waitlist_promotions_total",
			Help: "Waitlist entries promoted after a cancellation",
		}),
		paymentAuth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "musfit_payment_authorizations_total",
			Help: "Payment authorization attempts by result",
		}, []string{"result"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "musfit_store_errors_total",
			Help: "Store operation failures by operation",
		}, []string{"op"}),
	}
	c.registry.MustRegister(c.placements, c.promotions, c.paymentAuth, c.storeErrors)
	return c
}

func (c *Collector) RecordPlacement(outcome string) {
	c.placements.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordPromotion() {
	c.promotions.Inc()
}

func (c *Collector) RecordPaymentAuth(approved bool) {
	result := "declined"
	if approved {
		result = "approved"
	}
	c.paymentAuth.WithLabelValues(result).Inc()
}

func (c *Collector) RecordStoreError(op string) {
	c.storeErrors.WithLabelValues(op).Inc()
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Noop discards everything. Used in tests.
type Noop struct{}

var _ Recorder = Noop{}

func (Noop) RecordPlacement(string)  {}
func (Noop) RecordPromotion()        {}
func (Noop) RecordPaymentAuth(bool)  {}
func (Noop) RecordStoreError(string) {}
