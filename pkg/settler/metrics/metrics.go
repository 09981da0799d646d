// Package metrics provides Prometheus metrics for the settlement system.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// SettlementMetrics collects and exposes settlement-related Prometheus metrics.
type SettlementMetrics struct {
	registry *prometheus.Registry

	// Selection metrics
	SelectionsResolved *prometheus.CounterVec
	UnresolvedReasons  *prometheus.CounterVec

	// Bet metrics
	BetsSettled *prometheus.CounterVec
	BetsPlaced  *prometheus.CounterVec
	PayoutTotal *prometheus.CounterVec
	PendingBets prometheus.Gauge

	// Provider metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

// NewSettlementMetrics creates a new settlement metrics collector.
func NewSettlementMetrics() *SettlementMetrics {
	sm := &SettlementMetrics{
		registry: prometheus.NewRegistry(),

		SelectionsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sportsbook_selections_resolved_total",
				Help: "Selections resolved, by market family and outcome",
			},
			[]string{"family", "outcome"},
		),
		UnresolvedReasons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sportsbook_unresolved_reasons_total",
				Help: "Selections left unresolved, by reason",
			},
			[]string{"reason"},
		),

		BetsSettled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sportsbook_bets_settled_total",
				Help: "Bets settled to a terminal outcome",
			},
			[]string{"mode", "outcome"},
		),
		BetsPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sportsbook_bets_placed_total",
				Help: "Bets accepted for settlement tracking",
			},
			[]string{"mode"},
		),
		PayoutTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sportsbook_payout_total",
				Help: "Cumulative payout amount by outcome",
			},
			[]string{"outcome"},
		),
		PendingBets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sportsbook_pending_bets",
				Help: "Bets currently awaiting settlement",
			},
		),

		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sportsbook_provider_requests_total",
				Help: "Fixture feed requests, by status",
			},
			[]string{"endpoint", "status"},
		),
		ProviderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sportsbook_provider_latency_seconds",
				Help:    "Fixture feed request latency",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"endpoint"},
		),

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sportsbook_settlement_runs_total",
				Help: "Settlement passes executed, by status",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sportsbook_settlement_run_duration_seconds",
				Help:    "Duration of a full settlement pass",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
			},
		),
	}

	sm.registerAll()
	return sm
}

func (sm *SettlementMetrics) registerAll() {
	sm.registry.MustRegister(
		sm.SelectionsResolved,
		sm.UnresolvedReasons,
		sm.BetsSettled,
		sm.BetsPlaced,
		sm.PayoutTotal,
		sm.PendingBets,
		sm.ProviderRequests,
		sm.ProviderLatency,
		sm.RunsTotal,
		sm.RunDuration,
	)
}

// Registry returns the prometheus registry.
func (sm *SettlementMetrics) Registry() *prometheus.Registry {
	return sm.registry
}

// --- Helper methods for recording metrics ---

// RecordSelection records a resolved selection.
func (sm *SettlementMetrics) RecordSelection(family, outcome, reason string) {
	sm.SelectionsResolved.WithLabelValues(family, outcome).Inc()
	if outcome == "unresolved" && reason != "" {
		sm.UnresolvedReasons.WithLabelValues(reason).Inc()
	}
}

// RecordBetSettled records a bet reaching a terminal outcome.
func (sm *SettlementMetrics) RecordBetSettled(mode, outcome string, payout *decimal.Decimal) {
	sm.BetsSettled.WithLabelValues(mode, outcome).Inc()
	if payout != nil {
		f, _ := payout.Float64()
		sm.PayoutTotal.WithLabelValues(outcome).Add(f)
	}
}

// RecordBetPlaced records an accepted bet.
func (sm *SettlementMetrics) RecordBetPlaced(mode string) {
	sm.BetsPlaced.WithLabelValues(mode).Inc()
}

// UpdatePending sets the pending bet gauge.
func (sm *SettlementMetrics) UpdatePending(count int) {
	sm.PendingBets.Set(float64(count))
}

// RecordProviderRequest records a fixture feed call.
func (sm *SettlementMetrics) RecordProviderRequest(endpoint, status string, latencySec float64) {
	sm.ProviderRequests.WithLabelValues(endpoint, status).Inc()
	if latencySec > 0 {
		sm.ProviderLatency.WithLabelValues(endpoint).Observe(latencySec)
	}
}

// RecordRun records a settlement pass.
func (sm *SettlementMetrics) RecordRun(status string, durationSec float64) {
	sm.RunsTotal.WithLabelValues(status).Inc()
	sm.RunDuration.Observe(durationSec)
}
