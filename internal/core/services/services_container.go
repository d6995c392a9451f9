package services

import (
	"github.com/SscSPs/corp_ledger/internal/core/derivation"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/SscSPs/corp_ledger/internal/metrics"
	"github.com/SscSPs/corp_ledger/internal/platform/config"
)

// Upstream groups the outbound adapters. Any field may be nil when not configured.
type Upstream struct {
	Activity  portssvc.ActivitySource
	Names     portssvc.NameSource
	Appraisal portssvc.AppraisalProvider
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, upstream Upstream, m *metrics.LedgerMetrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Names first since reporting and appraisal depend on it
	container.Names = NewNameService(repos.NameRepo, upstream.Names)

	container.Ledger = NewLedgerService(
		repos.ActivityRepo,
		repos.FlowRepo,
		WithPolicy(derivation.Policy{
			SubsidyCreditFraction:  cfg.SubsidyCreditFraction,
			MarketCreditFraction:   cfg.MarketCreditFraction,
			IndustryCreditFraction: cfg.IndustryCreditFraction,
		}),
		WithShareUnitValue(cfg.ShareUnitValue),
		WithRecentLimit(cfg.RecentFlowsLimit),
		WithLedgerMetrics(m),
		WithMemberNames(container.Names),
	)

	appraiser := upstream.Appraisal
	if appraiser == nil {
		appraiser = noAppraisal{}
	}
	container.Appraisal = NewAppraisalService(repos.ActivityRepo, appraiser, container.Names, WithAppraisalMetrics(m))

	if upstream.Activity != nil {
		container.Sync = NewSyncService(upstream.Activity, repos.ActivityRepo,
			WithWalletDivision(cfg.ESIWalletDivision),
			WithSyncMetrics(m),
		)
	}

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade = (*ledgerService)(nil)
	_ portssvc.AppraisalSvc    = (*appraisalService)(nil)
	_ portssvc.SyncSvc         = (*syncService)(nil)
	_ portssvc.NameSvc         = (*nameService)(nil)
)
