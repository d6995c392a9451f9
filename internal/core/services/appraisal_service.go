package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/SscSPs/corp_ledger/internal/metrics"
)

// appraisalService fills in appraisal values for finished contracts
type appraisalService struct {
	BaseService
	activityRepo portsrepo.ActivityRepositoryFacade
	provider     portssvc.AppraisalProvider
	names        portssvc.NameSvc
	metrics      *metrics.LedgerMetrics
	now          func() time.Time
}

// AppraisalServiceOption is a functional option for configuring the appraisal service
type AppraisalServiceOption func(*appraisalService)

// WithAppraisalMetrics sets the metrics sink for appraisal outcomes.
func WithAppraisalMetrics(m *metrics.LedgerMetrics) AppraisalServiceOption {
	return func(s *appraisalService) {
		s.metrics = m
	}
}

// WithAppraisalClock overrides the time source used to stamp appraisals.
func WithAppraisalClock(now func() time.Time) AppraisalServiceOption {
	return func(s *appraisalService) {
		s.now = now
	}
}

// NewAppraisalService creates a new appraisal service
func NewAppraisalService(activityRepo portsrepo.ActivityRepositoryFacade, provider portssvc.AppraisalProvider, names portssvc.NameSvc, options ...AppraisalServiceOption) portssvc.AppraisalSvc {
	svc := &appraisalService{
		activityRepo: activityRepo,
		provider:     provider,
		names:        names,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AppraisalSvc = (*appraisalService)(nil)

// AppraisePending asks the provider for a value for every finished, unappraised contract.
// Provider failures leave the contract pending; storage failures abort the pass.
func (s *appraisalService) AppraisePending(ctx context.Context) (*domain.AppraisalSummary, error) {
	contracts, err := s.activityRepo.ListContractsPendingAppraisal(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contracts pending appraisal")
		return nil, fmt.Errorf("failed to list contracts pending appraisal: %w", err)
	}

	summary := &domain.AppraisalSummary{}
	for _, c := range contracts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Attempted++

		items, err := s.bundle(ctx, c.ExternalID)
		if err != nil {
			return summary, err
		}
		if len(items) == 0 {
			summary.Pending++
			s.metrics.Appraisal("no_value")
			continue
		}

		value, err := s.provider.Appraise(ctx, c.ExternalID, items)
		if err != nil {
			summary.Pending++
			s.metrics.Appraisal("error")
			s.LogWarn(ctx, err, "Appraisal failed, contract stays pending", slog.Int64("contract_id", c.ExternalID))
			continue
		}
		if !value.Valid || value.Decimal.IsNegative() {
			summary.Pending++
			s.metrics.Appraisal("no_value")
			s.LogDebug(ctx, "No appraisal value returned", slog.Int64("contract_id", c.ExternalID))
			continue
		}

		if err := s.activityRepo.SetContractAppraisal(ctx, c.ExternalID, value.Decimal, s.now()); err != nil {
			s.LogError(ctx, err, "Failed to store appraisal", slog.Int64("contract_id", c.ExternalID))
			return summary, fmt.Errorf("failed to store appraisal for contract %d: %w", c.ExternalID, err)
		}
		summary.Appraised++
		s.metrics.Appraisal("appraised")
	}

	s.LogInfo(ctx, "Appraisal pass finished",
		slog.Int("attempted", summary.Attempted),
		slog.Int("appraised", summary.Appraised),
		slog.Int("pending", summary.Pending))
	return summary, nil
}

// bundle builds the (name, quantity) lines of a contract's included items.
func (s *appraisalService) bundle(ctx context.Context, contractID int64) ([]domain.AppraisalItem, error) {
	items, err := s.activityRepo.ListContractItems(ctx, contractID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contract items", slog.Int64("contract_id", contractID))
		return nil, fmt.Errorf("failed to list items for contract %d: %w", contractID, err)
	}

	bundle := make([]domain.AppraisalItem, 0, len(items))
	for _, item := range items {
		if !item.IsIncluded || item.Quantity <= 0 {
			continue
		}
		bundle = append(bundle, domain.AppraisalItem{
			Name:     s.names.Name(ctx, domain.NameKindType, item.TypeID),
			Quantity: item.Quantity,
		})
	}
	return bundle, nil
}
