package services

import (
	"context"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AppraisalProvider estimates the market value of an item bundle.
// A result with Valid=false means "no value": unconfigured, no items or no price.
type AppraisalProvider interface {
	Appraise(ctx context.Context, contractID int64, items []domain.AppraisalItem) (decimal.NullDecimal, error)
}

// ActivitySource fetches raw activity from the upstream game API
type ActivitySource interface {
	FetchJournal(ctx context.Context, division int) ([]domain.JournalEntry, error)
	FetchContracts(ctx context.Context) ([]domain.Contract, error)
	FetchContractItems(ctx context.Context, contractID int64) ([]domain.ContractItem, error)
	FetchIndustryJobs(ctx context.Context) ([]domain.IndustryJob, error)
	// FetchMarketOrders returns open orders, or closed ones when history is set.
	FetchMarketOrders(ctx context.Context, history bool) ([]domain.MarketOrder, error)
}

// NameSource resolves ids to names upstream
type NameSource interface {
	LookupName(ctx context.Context, kind domain.NameKind, id int64) (string, error)
}

// AppraisalSvc appraises contracts that are waiting for a value
type AppraisalSvc interface {
	AppraisePending(ctx context.Context) (*domain.AppraisalSummary, error)
}

// SyncSvc pulls upstream activity into the activity tables
type SyncSvc interface {
	SyncAll(ctx context.Context) (*domain.SyncSummary, error)
	// DeriveDonations projects donation journal entries into donations. It never updates existing rows.
	DeriveDonations(ctx context.Context) (int, error)
}

// NameSvc resolves ids to display names, falling back to a placeholder
type NameSvc interface {
	Name(ctx context.Context, kind domain.NameKind, id int64) string
}
