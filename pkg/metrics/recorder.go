package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ErrUnknownCountPolicy = errors.New("unknown count policy")

// CountPolicy decides which attempts increment orders_total.
type CountPolicy string

const (
	CountAllAttempts CountPolicy = "all"
	CountSuccessOnly CountPolicy = "success"
)

func ParseCountPolicy(s string) (CountPolicy, error) {
	switch CountPolicy(s) {
	case CountAllAttempts, CountSuccessOnly:
		return CountPolicy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCountPolicy, s)
}

// OrderRecorder holds the generator metrics. Prometheus collectors are safe for
// concurrent use, so any number of generator loops may share one recorder.
type OrderRecorder struct {
	policy        CountPolicy
	ordersTotal   prometheus.Counter
	outcomes      *prometheus.CounterVec
	lastItemCount prometheus.Gauge
	latency       prometheus.Summary
}

func NewOrderRecorder(reg prometheus.Registerer, policy CountPolicy) *OrderRecorder {
	r := &OrderRecorder{
		policy: policy,
		ordersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of orders processed.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_outcomes_total",
			Help: "Delivery attempts by outcome.",
		}, []string{"outcome"}),
		lastItemCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "last_order_item_count",
			Help: "Number of items in the most recent order.",
		}),
		latency: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "request_processing_seconds",
			Help:       "Time spent delivering an order.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
	}
	reg.MustRegister(r.ordersTotal, r.outcomes, r.lastItemCount, r.latency)
	return r
}

func (r *OrderRecorder) RecordAttempt(outcome string, success bool, latency time.Duration, itemCount int) {
	if r.policy != CountSuccessOnly || success {
		r.ordersTotal.Inc()
	}
	r.outcomes.WithLabelValues(outcome).Inc()
	r.lastItemCount.Set(float64(itemCount))
	r.latency.Observe(latency.Seconds())
}

// Handler exposes everything gathered by g in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
