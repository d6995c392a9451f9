package services

import (
	"context"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
)

// LedgerRebuilderSvc rebuilds the flow ledger from the activity tables
type LedgerRebuilderSvc interface {
	// Rebuild derives a fresh ledger and atomically replaces the stored one.
	// It is safe to call repeatedly.
	Rebuild(ctx context.Context) (*domain.RebuildResult, error)

	// Status reports whether the stored ledger still matches its sources.
	Status(ctx context.Context) (*domain.LedgerStatus, error)
}

// LedgerReportingSvc aggregates the flow ledger
type LedgerReportingSvc interface {
	// Totals returns organization-wide in, out, net and share-equivalent.
	Totals(ctx context.Context) (*domain.FlowTotals, error)

	// MemberNets returns every member with at least one flow, largest net first.
	MemberNets(ctx context.Context) ([]domain.MemberNet, error)

	// Recent returns the most recent flows, newest first, and a token for the next page.
	Recent(ctx context.Context, limit int, nextToken *string) ([]domain.FlowRecord, *string, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerRebuilderSvc
	LedgerReportingSvc
}
