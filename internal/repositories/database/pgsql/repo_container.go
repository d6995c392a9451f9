package pgsql

import (
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	activityRepo := newPgxActivityRepository(dbPool)
	flowRepo := newPgxFlowRepository(dbPool)
	nameRepo := newPgxNameRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ActivityRepo: activityRepo,
		FlowRepo:     flowRepo,
		NameRepo:     nameRepo,
	}
}
