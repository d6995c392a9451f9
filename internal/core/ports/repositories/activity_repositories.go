package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ActivityReader defines read operations over the synchronized activity tables
type ActivityReader interface {
	// ListJournalEntriesByRefType retrieves every stored journal entry carrying refType.
	ListJournalEntriesByRefType(ctx context.Context, refType string) ([]domain.JournalEntry, error)

	// ListDonations retrieves every donation, ordered by journal reference.
	ListDonations(ctx context.Context) ([]domain.Donation, error)

	// ListContracts retrieves every contract, ordered by contract id.
	ListContracts(ctx context.Context) ([]domain.Contract, error)

	// ListContractsPendingAppraisal retrieves finished contracts that have no appraisal value yet.
	ListContractsPendingAppraisal(ctx context.Context) ([]domain.Contract, error)

	// ListContractItems retrieves the line items of a single contract.
	ListContractItems(ctx context.Context, contractID int64) ([]domain.ContractItem, error)

	// ListIndustryJobs retrieves every industry job, ordered by job id.
	ListIndustryJobs(ctx context.Context) ([]domain.IndustryJob, error)

	// ListMarketOrders retrieves every market order snapshot, open and historical.
	ListMarketOrders(ctx context.Context) ([]domain.MarketOrder, error)

	// SourceMarker summarises the current contents of every table the ledger is derived from.
	// Two equal markers mean a rebuild would see the same input.
	SourceMarker(ctx context.Context) (string, error)
}

// ActivityWriter defines write operations used by synchronization and appraisal.
// Upserts are keyed by external id; each returns the number of rows written.
type ActivityWriter interface {
	UpsertJournalEntries(ctx context.Context, entries []domain.JournalEntry) (int, error)

	// SaveDonations inserts donations that do not exist yet and never updates existing ones.
	SaveDonations(ctx context.Context, donations []domain.Donation) (int, error)

	// UpsertContracts stores contracts, refreshing mutable lifecycle fields
	// while leaving any stored appraisal untouched.
	UpsertContracts(ctx context.Context, contracts []domain.Contract) (int, error)

	UpsertContractItems(ctx context.Context, items []domain.ContractItem) (int, error)

	UpsertIndustryJobs(ctx context.Context, jobs []domain.IndustryJob) (int, error)

	UpsertMarketOrders(ctx context.Context, orders []domain.MarketOrder) (int, error)

	// SetContractAppraisal records the appraised value of a contract.
	SetContractAppraisal(ctx context.Context, contractID int64, value decimal.Decimal, appraisedAt time.Time) error
}

// ActivityRepositoryFacade combines all activity repository interfaces
type ActivityRepositoryFacade interface {
	ActivityReader
	ActivityWriter
}
