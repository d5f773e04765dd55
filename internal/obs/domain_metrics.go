package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// StripeWebhookTotal counts inbound webhook processing outcomes.
	StripeWebhookTotal *prometheus.CounterVec
	// StripeEventTotal counts verified events by recognized kind.
	StripeEventTotal *prometheus.CounterVec
	// NotificationTotal tracks outbound notification attempts by mail provider and result.
	NotificationTotal *prometheus.CounterVec
	// NotificationLatency records mail submission latency in milliseconds.
	NotificationLatency *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		StripeWebhookTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stripe_webhook_total",
			Help:      "Count of processed Stripe webhook deliveries by outcome.",
		}, []string{"result"})
		StripeEventTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stripe_event_total",
			Help:      "Count of verified Stripe events by recognized kind.",
		}, []string{"kind"})
		NotificationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_total",
			Help:      "Count of operator notification attempts by provider and result.",
		}, []string{"provider", "result"})
		NotificationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_duration_ms",
			Help:      "Latency for mail provider submissions in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"provider", "result"})

		mustRegisterCollector(reg, StripeWebhookTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				StripeWebhookTotal = v
			}
		})
		mustRegisterCollector(reg, StripeEventTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				StripeEventTotal = v
			}
		})
		mustRegisterCollector(reg, NotificationTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				NotificationTotal = v
			}
		})
		mustRegisterCollector(reg, NotificationLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				NotificationLatency = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, replace func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			replace(are.ExistingCollector)
			return
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
}
