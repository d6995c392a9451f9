package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/corp_ledger/internal/core/derivation"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/SscSPs/corp_ledger/internal/metrics"
)

// syncService copies upstream activity into the activity tables
type syncService struct {
	BaseService
	source       portssvc.ActivitySource
	activityRepo portsrepo.ActivityRepositoryFacade
	division     int
	metrics      *metrics.LedgerMetrics
}

// SyncServiceOption is a functional option for configuring the sync service
type SyncServiceOption func(*syncService)

// WithWalletDivision selects the treasury division whose journal is synchronized.
func WithWalletDivision(division int) SyncServiceOption {
	return func(s *syncService) {
		s.division = division
	}
}

// WithSyncMetrics sets the metrics sink for synchronized rows.
func WithSyncMetrics(m *metrics.LedgerMetrics) SyncServiceOption {
	return func(s *syncService) {
		s.metrics = m
	}
}

// NewSyncService creates a new sync service
func NewSyncService(source portssvc.ActivitySource, activityRepo portsrepo.ActivityRepositoryFacade, options ...SyncServiceOption) portssvc.SyncSvc {
	svc := &syncService{
		source:       source,
		activityRepo: activityRepo,
		division:     1,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SyncSvc = (*syncService)(nil)

// SyncAll pulls the journal, contracts with their items, industry jobs and market
// orders, then derives donations. Journal and contract fetch errors and any storage
// error abort the sync; rows already stored stay stored since every write is an
// idempotent upsert. Failed item, job and order fetches are logged and skipped.
func (s *syncService) SyncAll(ctx context.Context) (*domain.SyncSummary, error) {
	summary := &domain.SyncSummary{}

	entries, err := s.source.FetchJournal(ctx, s.division)
	if err != nil {
		return summary, s.fail(ctx, err, "journal", "fetch")
	}
	if summary.JournalEntries, err = s.activityRepo.UpsertJournalEntries(ctx, entries); err != nil {
		return summary, s.fail(ctx, err, "journal", "store")
	}
	s.metrics.Synced("journal_entries", summary.JournalEntries)

	if summary.Donations, err = s.DeriveDonations(ctx); err != nil {
		return summary, err
	}

	contracts, err := s.source.FetchContracts(ctx)
	if err != nil {
		return summary, s.fail(ctx, err, "contracts", "fetch")
	}
	if summary.Contracts, err = s.activityRepo.UpsertContracts(ctx, contracts); err != nil {
		return summary, s.fail(ctx, err, "contracts", "store")
	}
	s.metrics.Synced("contracts", summary.Contracts)

	for _, c := range contracts {
		items, err := s.source.FetchContractItems(ctx, c.ExternalID)
		if err != nil {
			// Items of some contract types are not retrievable; the contract simply stays unappraised.
			s.LogWarn(ctx, err, "Failed to fetch contract items", slog.Int64("contract_id", c.ExternalID))
			continue
		}
		n, err := s.activityRepo.UpsertContractItems(ctx, items)
		if err != nil {
			return summary, s.fail(ctx, err, "contract items", "store")
		}
		summary.ContractItems += n
	}
	s.metrics.Synced("contract_items", summary.ContractItems)

	jobs, err := s.source.FetchIndustryJobs(ctx)
	if err != nil {
		// A token without the industry role still syncs the remaining sources.
		s.LogWarn(ctx, err, "Failed to fetch industry jobs, skipping")
		summary.Skipped = append(summary.Skipped, "industry_jobs")
	} else {
		if summary.IndustryJobs, err = s.activityRepo.UpsertIndustryJobs(ctx, jobs); err != nil {
			return summary, s.fail(ctx, err, "industry jobs", "store")
		}
		s.metrics.Synced("industry_jobs", summary.IndustryJobs)
	}

	for _, history := range []bool{false, true} {
		orders, err := s.source.FetchMarketOrders(ctx, history)
		if err != nil {
			source := "market_orders"
			if history {
				source = "market_order_history"
			}
			s.LogWarn(ctx, err, "Failed to fetch market orders, skipping", slog.Bool("history", history))
			summary.Skipped = append(summary.Skipped, source)
			continue
		}
		n, err := s.activityRepo.UpsertMarketOrders(ctx, orders)
		if err != nil {
			return summary, s.fail(ctx, err, "market orders", "store")
		}
		summary.MarketOrders += n
	}
	s.metrics.Synced("market_orders", summary.MarketOrders)

	s.LogInfo(ctx, "Upstream sync finished",
		slog.Int("journal_entries", summary.JournalEntries),
		slog.Int("donations", summary.Donations),
		slog.Int("contracts", summary.Contracts),
		slog.Int("contract_items", summary.ContractItems),
		slog.Int("industry_jobs", summary.IndustryJobs),
		slog.Int("market_orders", summary.MarketOrders),
		slog.Any("skipped", summary.Skipped))
	return summary, nil
}

// DeriveDonations projects stored donation journal entries into the donations table.
func (s *syncService) DeriveDonations(ctx context.Context) (int, error) {
	entries, err := s.activityRepo.ListJournalEntriesByRefType(ctx, domain.RefTypePlayerDonation)
	if err != nil {
		return 0, s.fail(ctx, err, "donations", "read")
	}

	donations := make([]domain.Donation, 0, len(entries))
	for _, entry := range entries {
		if d, ok := derivation.DonationFromEntry(entry); ok {
			donations = append(donations, d)
		}
	}

	created, err := s.activityRepo.SaveDonations(ctx, donations)
	if err != nil {
		return 0, s.fail(ctx, err, "donations", "store")
	}
	s.metrics.Synced("donations", created)
	return created, nil
}

func (s *syncService) fail(ctx context.Context, err error, what, step string) error {
	s.LogError(ctx, err, "Upstream sync failed", slog.String("table", what), slog.String("step", step))
	return fmt.Errorf("failed to %s %s: %w", step, what, err)
}
