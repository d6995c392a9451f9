package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ActivityRepository ---
type MockActivityRepository struct {
	mock.Mock
}

var _ portsrepo.ActivityRepositoryFacade = (*MockActivityRepository)(nil)

func (m *MockActivityRepository) ListJournalEntriesByRefType(ctx context.Context, refType string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, refType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockActivityRepository) ListDonations(ctx context.Context) ([]domain.Donation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}

func (m *MockActivityRepository) ListContracts(ctx context.Context) ([]domain.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockActivityRepository) ListContractsPendingAppraisal(ctx context.Context) ([]domain.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockActivityRepository) ListContractItems(ctx context.Context, contractID int64) ([]domain.ContractItem, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractItem), args.Error(1)
}

func (m *MockActivityRepository) ListIndustryJobs(ctx context.Context) ([]domain.IndustryJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IndustryJob), args.Error(1)
}

func (m *MockActivityRepository) ListMarketOrders(ctx context.Context) ([]domain.MarketOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MarketOrder), args.Error(1)
}

func (m *MockActivityRepository) SourceMarker(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockActivityRepository) UpsertJournalEntries(ctx context.Context, entries []domain.JournalEntry) (int, error) {
	args := m.Called(ctx, entries)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityRepository) SaveDonations(ctx context.Context, donations []domain.Donation) (int, error) {
	args := m.Called(ctx, donations)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityRepository) UpsertContracts(ctx context.Context, contracts []domain.Contract) (int, error) {
	args := m.Called(ctx, contracts)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityRepository) UpsertContractItems(ctx context.Context, items []domain.ContractItem) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityRepository) UpsertIndustryJobs(ctx context.Context, jobs []domain.IndustryJob) (int, error) {
	args := m.Called(ctx, jobs)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityRepository) UpsertMarketOrders(ctx context.Context, orders []domain.MarketOrder) (int, error) {
	args := m.Called(ctx, orders)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityRepository) SetContractAppraisal(ctx context.Context, contractID int64, value decimal.Decimal, appraisedAt time.Time) error {
	args := m.Called(ctx, contractID, value, appraisedAt)
	return args.Error(0)
}

// --- Mock FlowRepository ---
type MockFlowRepository struct {
	mock.Mock
}

var _ portsrepo.FlowRepositoryFacade = (*MockFlowRepository)(nil)

func (m *MockFlowRepository) GetFlowTotals(ctx context.Context) (*domain.FlowTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowTotals), args.Error(1)
}

func (m *MockFlowRepository) GetMemberNets(ctx context.Context) ([]domain.MemberNet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberNet), args.Error(1)
}

func (m *MockFlowRepository) ListRecentFlows(ctx context.Context, limit int, nextToken *string) ([]domain.FlowRecord, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.FlowRecord), returnedNextToken, args.Error(2)
}

func (m *MockFlowRepository) LatestRebuild(ctx context.Context) (*domain.RebuildResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RebuildResult), args.Error(1)
}

func (m *MockFlowRepository) ReplaceFlows(ctx context.Context, flows []domain.FlowRecord, rebuild domain.RebuildResult) error {
	args := m.Called(ctx, flows, rebuild)
	return args.Error(0)
}

// --- Mock NameRepository ---
type MockNameRepository struct {
	mock.Mock
}

var _ portsrepo.NameRepository = (*MockNameRepository)(nil)

func (m *MockNameRepository) FindName(ctx context.Context, kind domain.NameKind, id int64) (string, error) {
	args := m.Called(ctx, kind, id)
	return args.String(0), args.Error(1)
}

func (m *MockNameRepository) SaveName(ctx context.Context, kind domain.NameKind, id int64, name string) error {
	args := m.Called(ctx, kind, id, name)
	return args.Error(0)
}

// --- Mock upstream adapters ---
type MockAppraisalProvider struct {
	mock.Mock
}

var _ portssvc.AppraisalProvider = (*MockAppraisalProvider)(nil)

func (m *MockAppraisalProvider) Appraise(ctx context.Context, contractID int64, items []domain.AppraisalItem) (decimal.NullDecimal, error) {
	args := m.Called(ctx, contractID, items)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

type MockNameSource struct {
	mock.Mock
}

var _ portssvc.NameSource = (*MockNameSource)(nil)

func (m *MockNameSource) LookupName(ctx context.Context, kind domain.NameKind, id int64) (string, error) {
	args := m.Called(ctx, kind, id)
	return args.String(0), args.Error(1)
}

type MockActivitySource struct {
	mock.Mock
}

var _ portssvc.ActivitySource = (*MockActivitySource)(nil)

func (m *MockActivitySource) FetchJournal(ctx context.Context, division int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, division)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockActivitySource) FetchContracts(ctx context.Context) ([]domain.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockActivitySource) FetchContractItems(ctx context.Context, contractID int64) ([]domain.ContractItem, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractItem), args.Error(1)
}

func (m *MockActivitySource) FetchIndustryJobs(ctx context.Context) ([]domain.IndustryJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IndustryJob), args.Error(1)
}

func (m *MockActivitySource) FetchMarketOrders(ctx context.Context, history bool) ([]domain.MarketOrder, error) {
	args := m.Called(ctx, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MarketOrder), args.Error(1)
}

// --- Mock NameSvc ---
type MockNameSvc struct {
	mock.Mock
}

var _ portssvc.NameSvc = (*MockNameSvc)(nil)

func (m *MockNameSvc) Name(ctx context.Context, kind domain.NameKind, id int64) string {
	args := m.Called(ctx, kind, id)
	return args.String(0)
}

func int64Ptr(v int64) *int64 { return &v }

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}
