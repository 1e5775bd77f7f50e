package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "premiumgate"

// Metrics groups the counters exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	CheckoutsTotal       *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	ActivationsTotal     *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec
}

// New registers the application collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CheckoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by result.",
		}, []string{"result"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_notifications_total",
			Help:      "Payment webhook calls by processing outcome.",
		}, []string{"outcome"}),
		ActivationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscription_activations_total",
			Help:      "Users switched to subscribed, by the path that did it.",
		}, []string{"source"}),
		ProviderCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Latency of payment provider API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "result"}),
	}
	reg.MustRegister(
		m.CheckoutsTotal,
		m.NotificationsTotal,
		m.ActivationsTotal,
		m.ProviderCallDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
