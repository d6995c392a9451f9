package pgsql

import (
	"context"
	"strconv"

	"github.com/SscSPs/corp_ledger/internal/apperrors"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/corp_ledger/internal/models"
	"github.com/SscSPs/corp_ledger/internal/utils/mapping"
	"github.com/SscSPs/corp_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFlowRepository struct {
	BaseRepository
}

// newPgxFlowRepository creates a new repository for the flow ledger.
func newPgxFlowRepository(pool *pgxpool.Pool) portsrepo.FlowRepositoryWithTx {
	return &PgxFlowRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxFlowRepository implements portsrepo.FlowRepositoryWithTx
var _ portsrepo.FlowRepositoryWithTx = (*PgxFlowRepository)(nil)

// ReplaceFlows deletes the current ledger, inserts flows and records the rebuild,
// all in one transaction.
func (r *PgxFlowRepository) ReplaceFlows(ctx context.Context, flows []domain.FlowRecord, rebuild domain.RebuildResult) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM member_flows;`); err != nil {
		return apperrors.NewAppError(500, "failed to clear flow ledger", err)
	}

	if len(flows) > 0 {
		batch := &pgx.Batch{}
		flowQuery := `
			INSERT INTO member_flows (member_id, direction, source, contract_ref, journal_ref, value, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
		for _, f := range flows {
			m := mapping.ToModelMemberFlow(f)
			batch.Queue(flowQuery,
				m.MemberID,
				m.Direction,
				m.Source,
				m.ContractRef,
				m.JournalRef,
				m.Value,
				m.Note,
				m.CreatedAt,
			)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert flows", err)
		}
	}

	m := mapping.ToModelLedgerRebuild(rebuild)
	rebuildQuery := `
		INSERT INTO ledger_rebuilds (
			rebuilt_at, wallet_count, contract_in_count, contract_out_count,
			industry_count, market_count, flows_written, source_marker
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	if _, err := tx.Exec(ctx, rebuildQuery,
		m.RebuiltAt,
		m.WalletCount,
		m.ContractInCount,
		m.ContractOutCount,
		m.IndustryCount,
		m.MarketCount,
		m.FlowsWritten,
		m.SourceMarker,
	); err != nil {
		return apperrors.NewAppError(500, "failed to record rebuild", err)
	}

	return r.Commit(ctx, tx)
}

// GetFlowTotals sums flow values by direction.
func (r *PgxFlowRepository) GetFlowTotals(ctx context.Context) (*domain.FlowTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN direction = 'in' THEN value ELSE 0 END), 0) AS total_in,
			COALESCE(SUM(CASE WHEN direction = 'out' THEN value ELSE 0 END), 0) AS total_out
		FROM member_flows;
	`
	var totals domain.FlowTotals
	if err := r.Pool.QueryRow(ctx, query).Scan(&totals.TotalIn, &totals.TotalOut); err != nil {
		return nil, apperrors.NewAppError(500, "failed to query flow totals", err)
	}
	return &totals, nil
}

// GetMemberNets groups flows by member, ordered by member id.
func (r *PgxFlowRepository) GetMemberNets(ctx context.Context) ([]domain.MemberNet, error) {
	query := `
		SELECT
			member_id,
			COALESCE(SUM(CASE WHEN direction = 'in' THEN value ELSE 0 END), 0) AS total_in,
			COALESCE(SUM(CASE WHEN direction = 'out' THEN value ELSE 0 END), 0) AS total_out
		FROM member_flows
		GROUP BY member_id
		ORDER BY member_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query member nets", err)
	}
	defer rows.Close()

	members := []domain.MemberNet{}
	for rows.Next() {
		var m domain.MemberNet
		if err := rows.Scan(&m.MemberID, &m.In, &m.Out); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan member net row", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating member net rows", err)
	}
	return members, nil
}

// ListRecentFlows retrieves a page of flows, newest first, using token-based pagination.
func (r *PgxFlowRepository) ListRecentFlows(ctx context.Context, limit int, nextToken *string) ([]domain.FlowRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether another page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT id, member_id, direction, source, contract_ref, journal_ref, value, note, created_at
		FROM member_flows
	`
	orderByClause := `ORDER BY created_at DESC, id DESC`

	args := []interface{}{}
	whereClause := ""
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		whereClause = `WHERE (created_at, id) < ($1, $2)`
		args = append(args, lastCreatedAt, lastID)
	}
	query := baseQuery + " " + whereClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query recent flows", err)
	}
	defer rows.Close()

	modelFlows := make([]models.MemberFlow, 0, fetchLimit)
	for rows.Next() {
		var m models.MemberFlow
		if err := rows.Scan(
			&m.ID,
			&m.MemberID,
			&m.Direction,
			&m.Source,
			&m.ContractRef,
			&m.JournalRef,
			&m.Value,
			&m.Note,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan flow row", err)
		}
		modelFlows = append(modelFlows, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating flow rows", err)
	}

	var nextTokenVal *string
	results := modelFlows
	if len(modelFlows) > limit {
		last := modelFlows[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ID)
		nextTokenVal = &token
		results = modelFlows[:limit]
	}

	return mapping.ToDomainFlowRecordSlice(results), nextTokenVal, nil
}

// LatestRebuild retrieves the most recent rebuild marker.
func (r *PgxFlowRepository) LatestRebuild(ctx context.Context) (*domain.RebuildResult, error) {
	query := `
		SELECT id, rebuilt_at, wallet_count, contract_in_count, contract_out_count,
		       industry_count, market_count, flows_written, source_marker
		FROM ledger_rebuilds
		ORDER BY id DESC
		LIMIT 1;
	`
	var m models.LedgerRebuild
	err := r.Pool.QueryRow(ctx, query).Scan(
		&m.ID,
		&m.RebuiltAt,
		&m.WalletCount,
		&m.ContractInCount,
		&m.ContractOutCount,
		&m.IndustryCount,
		&m.MarketCount,
		&m.FlowsWritten,
		&m.SourceMarker,
	)
	if err != nil {
		return nil, errNoRowsToNotFound(err, "failed to query latest rebuild")
	}

	result := mapping.ToDomainRebuildResult(m)
	return &result, nil
}
