package metrics

import (
	"testing"
	"time"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics_NilIsNoop(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.ObserveRebuild(domain.RuleCounts{Wallet: 1}, time.Second)
		m.RebuildFailed()
		m.Appraisal("error")
		m.Synced("contracts", 3)
	})
}

func TestLedgerMetrics_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.ObserveRebuild(domain.RuleCounts{Wallet: 2, Market: 1}, 10*time.Millisecond)
	m.Appraisal("appraised")
	m.Synced("contracts", 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] += metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, float64(1), values["corp_ledger_rebuilds_total"])
	assert.Equal(t, float64(3), values["corp_ledger_rule_rows"])
	assert.Equal(t, float64(1), values["corp_ledger_appraisals_total"])
	assert.Equal(t, float64(3), values["corp_ledger_synced_rows_total"])
}
