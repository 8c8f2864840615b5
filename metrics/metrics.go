package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the bot's collectors. Each instance owns its registry so tests
// can create as many as they like without duplicate-registration panics.
type Metrics struct {
	Registry *prometheus.Registry

	CommandsTotal    *prometheus.CounterVec
	RepliesTotal     *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  prometheus.Histogram
	ProviderInFlight prometheus.Gauge
	HandlerPanics    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tmbot_commands_total",
				Help: "Routed chat commands by command and route outcome",
			}, []string{"command", "outcome"}),
		RepliesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tmbot_replies_total",
				Help: "Replies sent by kind and delivery result",
			}, []string{"kind", "result"}),
		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tmbot_provider_requests_total",
				Help: "Outbound TokenMetrics requests by result",
			}, []string{"result"}),
		ProviderLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tmbot_provider_request_duration_seconds",
				Help:    "Time spent on one TokenMetrics request",
				Buckets: prometheus.DefBuckets,
			}),
		ProviderInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tmbot_provider_requests_in_flight",
				Help: "TokenMetrics requests currently executing",
			}),
		HandlerPanics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tmbot_handler_panics_total",
				Help: "Panics recovered while handling a chat message",
			}),
	}

	m.Registry.MustRegister(
		m.CommandsTotal,
		m.RepliesTotal,
		m.ProviderRequests,
		m.ProviderLatency,
		m.ProviderInFlight,
		m.HandlerPanics,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
