package repositories

import (
	"context"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
)

// FlowReader defines read and aggregation operations over the flow ledger
type FlowReader interface {
	// GetFlowTotals sums flow values by direction. An empty ledger yields zeros.
	// Only TotalIn and TotalOut are populated.
	GetFlowTotals(ctx context.Context) (*domain.FlowTotals, error)

	// GetMemberNets groups flows by member. Members without flows are absent.
	// Share figures are left for the caller to compute.
	GetMemberNets(ctx context.Context) ([]domain.MemberNet, error)

	// ListRecentFlows retrieves flows ordered by created_at then id, newest first,
	// using token-based pagination. It returns the flows and a token for the next page.
	ListRecentFlows(ctx context.Context, limit int, nextToken *string) ([]domain.FlowRecord, *string, error)

	// LatestRebuild retrieves the most recent rebuild marker, or apperrors.ErrNotFound.
	LatestRebuild(ctx context.Context) (*domain.RebuildResult, error)
}

// FlowWriter defines write operations over the flow ledger
type FlowWriter interface {
	// ReplaceFlows atomically swaps the whole ledger for flows and records the rebuild.
	// On any error the previous ledger is left intact.
	ReplaceFlows(ctx context.Context, flows []domain.FlowRecord, rebuild domain.RebuildResult) error
}

// FlowRepositoryFacade combines all flow ledger repository interfaces
type FlowRepositoryFacade interface {
	FlowReader
	FlowWriter
}

// FlowRepositoryWithTx extends FlowRepositoryFacade with transaction capabilities
type FlowRepositoryWithTx interface {
	FlowRepositoryFacade
	TransactionManager
}
