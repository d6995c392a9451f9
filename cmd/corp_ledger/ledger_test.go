package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintDashboard(t *testing.T) {
	var buf bytes.Buffer
	totals := &domain.FlowTotals{
		TotalIn:        decimal.NewFromInt(3_000_000_000),
		TotalOut:       decimal.NewFromInt(500_000_000),
		Net:            decimal.NewFromInt(2_500_000_000),
		Shares:         decimal.RequireFromString("2.5"),
		ShareUnitValue: decimal.NewFromInt(1_000_000_000),
	}
	status := &domain.LedgerStatus{
		State:       domain.LedgerCurrent,
		LastRebuild: &domain.RebuildResult{RebuiltAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)},
	}

	require.NoError(t, printDashboard(&buf, totals, status))

	out := buf.String()
	assert.Contains(t, out, "3,000,000,000.00")
	assert.Contains(t, out, "2.5000 (unit 1,000,000,000)")
	assert.Contains(t, out, "current, rebuilt 2025-05-01T08:00:00Z")
}

func TestPrintDashboard_NeverRebuilt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printDashboard(&buf, &domain.FlowTotals{}, &domain.LedgerStatus{State: domain.LedgerStale}))
	assert.Contains(t, buf.String(), "stale, never rebuilt")
}

func TestPrintMembers_FallsBackToId(t *testing.T) {
	var buf bytes.Buffer
	members := []domain.MemberNet{
		{MemberID: 7, Name: "Pilot", In: decimal.NewFromInt(10), Net: decimal.NewFromInt(10)},
		{MemberID: 8, Out: decimal.NewFromInt(4), Net: decimal.NewFromInt(-4)},
	}

	require.NoError(t, printMembers(&buf, members))

	out := buf.String()
	assert.Contains(t, out, "Pilot")
	assert.Contains(t, out, "char:8")
	assert.Contains(t, out, "-4.00")
}

func TestPrintFlows(t *testing.T) {
	var buf bytes.Buffer
	flows := []domain.FlowRecord{{
		MemberID:  42,
		Direction: domain.FlowIn,
		Source:    domain.SourceWallet,
		Value:     decimal.NewFromInt(1500),
		Note:      "donation",
		CreatedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}}

	require.NoError(t, printFlows(&buf, flows))

	out := buf.String()
	assert.Contains(t, out, "1,500.00")
	assert.Contains(t, out, "wallet")
	assert.Contains(t, out, "donation")
}
