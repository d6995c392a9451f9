package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/corp_ledger/internal/apperrors"
	"github.com/SscSPs/corp_ledger/internal/core/derivation"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/SscSPs/corp_ledger/internal/metrics"
	"github.com/SscSPs/corp_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const defaultRecentLimit = 500

// ledgerService rebuilds the flow ledger and aggregates it
type ledgerService struct {
	BaseService
	activityRepo   portsrepo.ActivityReader
	flowRepo       portsrepo.FlowRepositoryFacade
	names          portssvc.NameSvc
	policy         derivation.Policy
	shareUnitValue decimal.Decimal
	recentLimit    int
	metrics        *metrics.LedgerMetrics
	now            func() time.Time
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithPolicy sets the credit fractions applied during derivation.
func WithPolicy(policy derivation.Policy) LedgerServiceOption {
	return func(s *ledgerService) {
		s.policy = policy
	}
}

// WithShareUnitValue sets the currency value of one share.
func WithShareUnitValue(unit decimal.Decimal) LedgerServiceOption {
	return func(s *ledgerService) {
		s.shareUnitValue = unit
	}
}

// WithRecentLimit sets the page size used when Recent is called without a limit.
func WithRecentLimit(limit int) LedgerServiceOption {
	return func(s *ledgerService) {
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}

// WithLedgerMetrics sets the metrics sink for rebuilds.
func WithLedgerMetrics(m *metrics.LedgerMetrics) LedgerServiceOption {
	return func(s *ledgerService) {
		s.metrics = m
	}
}

// WithMemberNames resolves member names in MemberNets.
func WithMemberNames(names portssvc.NameSvc) LedgerServiceOption {
	return func(s *ledgerService) {
		s.names = names
	}
}

// WithClock overrides the time source used to stamp rebuilt flows.
func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(activityRepo portsrepo.ActivityReader, flowRepo portsrepo.FlowRepositoryFacade, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		activityRepo:   activityRepo,
		flowRepo:       flowRepo,
		policy:         derivation.DefaultPolicy(),
		shareUnitValue: decimal.NewFromInt(1_000_000_000),
		recentLimit:    defaultRecentLimit,
		now:            func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) loadSources(ctx context.Context) (derivation.Sources, error) {
	var src derivation.Sources
	var err error

	if src.Donations, err = s.activityRepo.ListDonations(ctx); err != nil {
		return src, fmt.Errorf("failed to list donations: %w", err)
	}
	if src.Contracts, err = s.activityRepo.ListContracts(ctx); err != nil {
		return src, fmt.Errorf("failed to list contracts: %w", err)
	}
	if src.IndustryJobs, err = s.activityRepo.ListIndustryJobs(ctx); err != nil {
		return src, fmt.Errorf("failed to list industry jobs: %w", err)
	}
	if src.MarketOrders, err = s.activityRepo.ListMarketOrders(ctx); err != nil {
		return src, fmt.Errorf("failed to list market orders: %w", err)
	}
	return src, nil
}

// Rebuild derives the whole ledger in memory and swaps it in with a single write.
func (s *ledgerService) Rebuild(ctx context.Context) (*domain.RebuildResult, error) {
	start := s.now()

	// Taken before reading so that rows synced mid-rebuild mark the result stale.
	marker, err := s.activityRepo.SourceMarker(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read source marker")
		s.metrics.RebuildFailed()
		return nil, fmt.Errorf("failed to read source marker: %w", err)
	}

	src, err := s.loadSources(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger sources")
		s.metrics.RebuildFailed()
		return nil, err
	}

	staged := derivation.Derive(src, s.policy)
	for i := range staged.Flows {
		if err := accounting.ValidateFlow(staged.Flows[i]); err != nil {
			s.LogError(ctx, err, "Derived flow failed validation", slog.Int("index", i))
			s.metrics.RebuildFailed()
			return nil, fmt.Errorf("derived flow %d is invalid: %w", i, err)
		}
		staged.Flows[i].CreatedAt = start
	}

	result := domain.RebuildResult{
		Counts:       staged.Counts,
		FlowsWritten: len(staged.Flows),
		RebuiltAt:    start,
		SourceMarker: marker,
	}

	if err := s.flowRepo.ReplaceFlows(ctx, staged.Flows, result); err != nil {
		s.LogError(ctx, err, "Failed to replace flow ledger, previous ledger kept")
		s.metrics.RebuildFailed()
		return nil, fmt.Errorf("failed to replace flow ledger: %w", err)
	}

	s.metrics.ObserveRebuild(staged.Counts, s.now().Sub(start))
	totalIn, totalOut, net := accounting.SumByDirection(staged.Flows)
	s.LogInfo(ctx, "Flow ledger rebuilt",
		slog.Int("wallet", staged.Counts.Wallet),
		slog.Int("contract_in", staged.Counts.ContractIn),
		slog.Int("contract_out", staged.Counts.ContractOut),
		slog.Int("industry", staged.Counts.Industry),
		slog.Int("market", staged.Counts.Market),
		slog.Int("flows_written", result.FlowsWritten),
		slog.String("total_in", totalIn.String()),
		slog.String("total_out", totalOut.String()),
		slog.String("net", net.String()))
	return &result, nil
}

// Status compares the last rebuild's source marker against the live one.
func (s *ledgerService) Status(ctx context.Context) (*domain.LedgerStatus, error) {
	live, err := s.activityRepo.SourceMarker(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read source marker")
		return nil, fmt.Errorf("failed to read source marker: %w", err)
	}

	status := &domain.LedgerStatus{State: domain.LedgerStale, LiveMarker: live}

	last, err := s.flowRepo.LatestRebuild(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return status, nil
		}
		s.LogError(ctx, err, "Failed to read latest rebuild")
		return nil, fmt.Errorf("failed to read latest rebuild: %w", err)
	}

	status.LastRebuild = last
	if last.SourceMarker == live {
		status.State = domain.LedgerCurrent
	}
	return status, nil
}

// Totals sums the ledger by direction and converts the net into shares.
func (s *ledgerService) Totals(ctx context.Context) (*domain.FlowTotals, error) {
	totals, err := s.flowRepo.GetFlowTotals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve flow totals")
		return nil, fmt.Errorf("failed to retrieve flow totals: %w", err)
	}

	totals.Net = totals.TotalIn.Sub(totals.TotalOut)
	totals.ShareUnitValue = s.shareUnitValue
	totals.Shares = accounting.SharesFor(totals.Net, s.shareUnitValue)
	return totals, nil
}

// MemberNets returns each member's net position, largest first.
func (s *ledgerService) MemberNets(ctx context.Context) ([]domain.MemberNet, error) {
	members, err := s.flowRepo.GetMemberNets(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve member nets")
		return nil, fmt.Errorf("failed to retrieve member nets: %w", err)
	}

	for i := range members {
		members[i].Net = members[i].In.Sub(members[i].Out)
		members[i].Shares = accounting.SharesFor(members[i].Net, s.shareUnitValue)
		if s.names != nil {
			members[i].Name = s.names.Name(ctx, domain.NameKindCharacter, members[i].MemberID)
		}
	}

	sort.SliceStable(members, func(i, j int) bool {
		if c := members[i].Net.Cmp(members[j].Net); c != 0 {
			return c > 0
		}
		return members[i].MemberID < members[j].MemberID
	})
	return members, nil
}

// Recent lists flows newest first. A non-positive limit selects the configured default.
func (s *ledgerService) Recent(ctx context.Context, limit int, nextToken *string) ([]domain.FlowRecord, *string, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}

	flows, token, err := s.flowRepo.ListRecentFlows(ctx, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent flows", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list recent flows: %w", err)
	}
	return flows, token, nil
}
