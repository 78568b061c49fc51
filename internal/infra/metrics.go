package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the collectors the service exports. A dedicated registry
// keeps tests from colliding on the global default one.
type Metrics struct {
	Registry        *prometheus.Registry
	FetchTotal      *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	SessionsActive  prometheus.Gauge
	ViewTransitions *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wisdom_fetch_total",
				Help: "Wisdom fetches by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wisdom_fetch_duration_seconds",
				Help:    "Round trip of one wisdom fetch in seconds",
				Buckets: []float64{0.5, 1, 2, 4, 8, 15, 30, 60},
			},
			[]string{"provider"},
		),
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wisdom_sessions_active",
				Help: "Number of live visitor sessions",
			},
		),
		ViewTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wisdom_view_transitions_total",
				Help: "View state transitions",
			},
			[]string{"from", "to"},
		),
	}

	m.Registry.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.SessionsActive,
		m.ViewTransitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
