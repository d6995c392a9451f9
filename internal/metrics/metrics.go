// Package metrics holds the Prometheus instruments of the flow ledger.
package metrics

import (
	"time"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerMetrics records rebuild, appraisal and sync outcomes.
// A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	rebuildsTotal   prometheus.Counter
	rebuildFailures prometheus.Counter
	rebuildDuration prometheus.Histogram
	flowsByRule     *prometheus.GaugeVec
	appraisals      *prometheus.CounterVec
	syncedRows      *prometheus.CounterVec
}

// NewLedgerMetrics registers all ledger metrics with reg.
// Each registerer must only be passed once.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	factory := promauto.With(reg)
	m := &LedgerMetrics{}

	m.rebuildsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "corp_ledger_rebuilds_total",
			Help: "completed flow ledger rebuilds",
		},
	)
	m.rebuildFailures = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "corp_ledger_rebuild_failures_total",
			Help: "flow ledger rebuilds rolled back",
		},
	)
	m.rebuildDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "corp_ledger_rebuild_duration_seconds",
			Help:    "time taken by a flow ledger rebuild",
			Buckets: prometheus.DefBuckets,
		},
	)
	m.flowsByRule = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "corp_ledger_rule_rows",
			Help: "source rows translated by each derivation rule in the last rebuild",
		},
		[]string{"rule"},
	)
	m.appraisals = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corp_ledger_appraisals_total",
			Help: "contract appraisal attempts by outcome",
		},
		[]string{"outcome"},
	)
	m.syncedRows = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corp_ledger_synced_rows_total",
			Help: "upstream rows stored by table",
		},
		[]string{"table"},
	)
	return m
}

// ObserveRebuild records a successful rebuild.
func (m *LedgerMetrics) ObserveRebuild(counts domain.RuleCounts, took time.Duration) {
	if m == nil {
		return
	}
	m.rebuildsTotal.Inc()
	m.rebuildDuration.Observe(took.Seconds())
	m.flowsByRule.WithLabelValues(string(domain.SourceWallet)).Set(float64(counts.Wallet))
	m.flowsByRule.WithLabelValues(string(domain.SourceContractIn)).Set(float64(counts.ContractIn))
	m.flowsByRule.WithLabelValues(string(domain.SourceContractOut)).Set(float64(counts.ContractOut))
	m.flowsByRule.WithLabelValues(string(domain.SourceIndustry)).Set(float64(counts.Industry))
	m.flowsByRule.WithLabelValues(string(domain.SourceMarket)).Set(float64(counts.Market))
}

// RebuildFailed records a rolled back rebuild.
func (m *LedgerMetrics) RebuildFailed() {
	if m == nil {
		return
	}
	m.rebuildFailures.Inc()
}

// Appraisal records one appraisal attempt. outcome is "appraised", "no_value" or "error".
func (m *LedgerMetrics) Appraisal(outcome string) {
	if m == nil {
		return
	}
	m.appraisals.WithLabelValues(outcome).Inc()
}

// Synced records rows stored for an activity table.
func (m *LedgerMetrics) Synced(table string, rows int) {
	if m == nil {
		return
	}
	m.syncedRows.WithLabelValues(table).Add(float64(rows))
}
