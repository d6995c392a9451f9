package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/corp_ledger/internal/apperrors"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxActivityRepository struct {
	BaseRepository
}

// newPgxActivityRepository creates a new repository for synchronized activity data.
func newPgxActivityRepository(pool *pgxpool.Pool) portsrepo.ActivityRepositoryFacade {
	return &PgxActivityRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxActivityRepository implements portsrepo.ActivityRepositoryFacade
var _ portsrepo.ActivityRepositoryFacade = (*PgxActivityRepository)(nil)

const contractColumns = `
	contract_id, issuer_id, issuer_corporation_id, assignee_id, acceptor_id,
	contract_type, status, title, for_corporation,
	date_issued, date_expired, date_accepted, date_completed,
	price, reward, collateral, volume, appraisal_value, appraised_at`

const industryJobColumns = `
	job_id, installer_id, facility_id, activity_id, blueprint_id, blueprint_type_id,
	product_type_id, runs, cost, status, start_date, end_date,
	completed_character_id, completed_date, successful_runs, location_id`

const marketOrderColumns = `
	order_id, is_history, type_id, location_id, region_id, volume_total, volume_remain,
	price, is_buy_order, issued_by, state, issued, order_range, wallet_division`

// ListJournalEntriesByRefType retrieves every stored journal entry carrying refType.
func (r *PgxActivityRepository) ListJournalEntriesByRefType(ctx context.Context, refType string) ([]domain.JournalEntry, error) {
	query := `
		SELECT entry_id, entry_date, ref_type, amount, balance, description,
		       first_party_id, second_party_id, division
		FROM journal_entries
		WHERE ref_type = $1
		ORDER BY entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, refType)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries of type "+refType, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(
			&e.ExternalID,
			&e.Date,
			&e.RefType,
			&e.Amount,
			&e.Balance,
			&e.Description,
			&e.FirstPartyID,
			&e.SecondPartyID,
			&e.Division,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}
	return entries, nil
}

// ListDonations retrieves every donation, ordered by journal reference.
func (r *PgxActivityRepository) ListDonations(ctx context.Context) ([]domain.Donation, error) {
	query := `SELECT journal_ref, member_id, amount, memo FROM donations ORDER BY journal_ref;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query donations", err)
	}
	defer rows.Close()

	donations := []domain.Donation{}
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.JournalRef, &d.MemberID, &d.Amount, &d.Memo); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan donation row", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating donation rows", err)
	}
	return donations, nil
}

// ListContracts retrieves every contract, ordered by contract id.
func (r *PgxActivityRepository) ListContracts(ctx context.Context) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts ORDER BY contract_id;`
	return r.queryContracts(ctx, query)
}

// ListContractsPendingAppraisal retrieves finished contracts that have no appraisal value yet.
func (r *PgxActivityRepository) ListContractsPendingAppraisal(ctx context.Context) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
		WHERE status = $1 AND appraisal_value IS NULL
		ORDER BY contract_id;`
	return r.queryContracts(ctx, query, string(domain.ContractFinished))
}

func (r *PgxActivityRepository) queryContracts(ctx context.Context, query string, args ...any) ([]domain.Contract, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query contracts", err)
	}
	defer rows.Close()

	contracts := []domain.Contract{}
	for rows.Next() {
		var c domain.Contract
		var status string
		if err := rows.Scan(
			&c.ExternalID,
			&c.IssuerID,
			&c.IssuerCorporationID,
			&c.AssigneeID,
			&c.AcceptorID,
			&c.Type,
			&status,
			&c.Title,
			&c.ForCorporation,
			&c.DateIssued,
			&c.DateExpired,
			&c.DateAccepted,
			&c.DateCompleted,
			&c.Price,
			&c.Reward,
			&c.Collateral,
			&c.Volume,
			&c.AppraisalValue,
			&c.AppraisedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contract row", err)
		}
		c.Status = domain.ContractStatus(status)
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating contract rows", err)
	}
	return contracts, nil
}

// ListContractItems retrieves the line items of a single contract.
func (r *PgxActivityRepository) ListContractItems(ctx context.Context, contractID int64) ([]domain.ContractItem, error) {
	query := `
		SELECT contract_id, record_id, type_id, quantity, quantity_remaining, is_included, is_singleton
		FROM contract_items
		WHERE contract_id = $1
		ORDER BY record_id;
	`
	rows, err := r.Pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to query items of contract %d", contractID), err)
	}
	defer rows.Close()

	items := []domain.ContractItem{}
	for rows.Next() {
		var it domain.ContractItem
		if err := rows.Scan(
			&it.ContractID,
			&it.RecordID,
			&it.TypeID,
			&it.Quantity,
			&it.QuantityRemaining,
			&it.IsIncluded,
			&it.IsSingleton,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contract item row", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating contract item rows", err)
	}
	return items, nil
}

// ListIndustryJobs retrieves every industry job, ordered by job id.
func (r *PgxActivityRepository) ListIndustryJobs(ctx context.Context) ([]domain.IndustryJob, error) {
	query := `SELECT ` + industryJobColumns + ` FROM industry_jobs ORDER BY job_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query industry jobs", err)
	}
	defer rows.Close()

	jobs := []domain.IndustryJob{}
	for rows.Next() {
		var j domain.IndustryJob
		var status string
		if err := rows.Scan(
			&j.ExternalID,
			&j.InstallerID,
			&j.FacilityID,
			&j.ActivityID,
			&j.BlueprintID,
			&j.BlueprintTypeID,
			&j.ProductTypeID,
			&j.Runs,
			&j.Cost,
			&status,
			&j.StartDate,
			&j.EndDate,
			&j.CompletedCharacterID,
			&j.CompletedDate,
			&j.SuccessfulRuns,
			&j.LocationID,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan industry job row", err)
		}
		j.Status = domain.JobStatus(status)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating industry job rows", err)
	}
	return jobs, nil
}

// ListMarketOrders retrieves every market order snapshot, open and historical.
func (r *PgxActivityRepository) ListMarketOrders(ctx context.Context) ([]domain.MarketOrder, error) {
	query := `SELECT ` + marketOrderColumns + ` FROM market_orders ORDER BY order_id, is_history;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query market orders", err)
	}
	defer rows.Close()

	orders := []domain.MarketOrder{}
	for rows.Next() {
		var o domain.MarketOrder
		if err := rows.Scan(
			&o.ExternalID,
			&o.IsHistory,
			&o.TypeID,
			&o.LocationID,
			&o.RegionID,
			&o.VolumeTotal,
			&o.VolumeRemain,
			&o.Price,
			&o.IsBuyOrder,
			&o.IssuedBy,
			&o.State,
			&o.Issued,
			&o.Range,
			&o.WalletDivision,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan market order row", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating market order rows", err)
	}
	return orders, nil
}

// SourceMarker summarises row count and latest write time of every table read by a rebuild.
// Upserts only touch synced_at when a row actually changes, so an unchanged resync
// leaves the marker as it was.
func (r *PgxActivityRepository) SourceMarker(ctx context.Context) (string, error) {
	query := `
		SELECT 'donations', COUNT(*), MAX(synced_at) FROM donations
		UNION ALL
		SELECT 'contracts', COUNT(*), MAX(synced_at) FROM contracts
		UNION ALL
		SELECT 'appraisals', COUNT(appraisal_value), MAX(appraised_at) FROM contracts
		UNION ALL
		SELECT 'industry_jobs', COUNT(*), MAX(synced_at) FROM industry_jobs
		UNION ALL
		SELECT 'market_orders', COUNT(*), MAX(synced_at) FROM market_orders;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to query source marker", err)
	}
	defer rows.Close()

	parts := make([]string, 0, 5)
	for rows.Next() {
		var table string
		var count int64
		var last *time.Time
		if err := rows.Scan(&table, &count, &last); err != nil {
			return "", apperrors.NewAppError(500, "failed to scan source marker row", err)
		}
		var lastMicros int64
		if last != nil {
			lastMicros = last.UnixMicro()
		}
		parts = append(parts, fmt.Sprintf("%s=%d@%d", table, count, lastMicros))
	}
	if err := rows.Err(); err != nil {
		return "", apperrors.NewAppError(500, "error iterating source marker rows", err)
	}
	return strings.Join(parts, ";"), nil
}

// UpsertJournalEntries stores new journal entries. Entries are immutable upstream,
// so existing rows are left alone.
func (r *PgxActivityRepository) UpsertJournalEntries(ctx context.Context, entries []domain.JournalEntry) (int, error) {
	query := `
		INSERT INTO journal_entries (
			entry_id, entry_date, ref_type, amount, balance, description,
			first_party_id, second_party_id, division, synced_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (entry_id) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query,
			e.ExternalID,
			e.Date,
			e.RefType,
			e.Amount,
			e.Balance,
			e.Description,
			e.FirstPartyID,
			e.SecondPartyID,
			e.Division,
		)
	}
	return r.execBatch(ctx, batch, "journal entries")
}

// SaveDonations inserts donations that do not exist yet and never updates existing ones.
func (r *PgxActivityRepository) SaveDonations(ctx context.Context, donations []domain.Donation) (int, error) {
	query := `
		INSERT INTO donations (journal_ref, member_id, amount, memo, synced_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (journal_ref) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, d := range donations {
		batch.Queue(query, d.JournalRef, d.MemberID, d.Amount, d.Memo)
	}
	return r.execBatch(ctx, batch, "donations")
}

// UpsertContracts stores contracts, refreshing mutable lifecycle fields while
// leaving any stored appraisal untouched.
func (r *PgxActivityRepository) UpsertContracts(ctx context.Context, contracts []domain.Contract) (int, error) {
	query := `
		INSERT INTO contracts (
			contract_id, issuer_id, issuer_corporation_id, assignee_id, acceptor_id,
			contract_type, status, title, for_corporation,
			date_issued, date_expired, date_accepted, date_completed,
			price, reward, collateral, volume, synced_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW())
		ON CONFLICT (contract_id) DO UPDATE SET
			acceptor_id = EXCLUDED.acceptor_id,
			status = EXCLUDED.status,
			date_accepted = EXCLUDED.date_accepted,
			date_completed = EXCLUDED.date_completed,
			price = EXCLUDED.price,
			synced_at = NOW()
		WHERE (contracts.acceptor_id, contracts.status, contracts.date_accepted, contracts.date_completed, contracts.price)
			IS DISTINCT FROM
			(EXCLUDED.acceptor_id, EXCLUDED.status, EXCLUDED.date_accepted, EXCLUDED.date_completed, EXCLUDED.price);
	`
	batch := &pgx.Batch{}
	for _, c := range contracts {
		batch.Queue(query,
			c.ExternalID,
			c.IssuerID,
			c.IssuerCorporationID,
			c.AssigneeID,
			c.AcceptorID,
			c.Type,
			string(c.Status),
			c.Title,
			c.ForCorporation,
			c.DateIssued,
			c.DateExpired,
			c.DateAccepted,
			c.DateCompleted,
			c.Price,
			c.Reward,
			c.Collateral,
			c.Volume,
		)
	}
	return r.execBatch(ctx, batch, "contracts")
}

// UpsertContractItems stores the item lines of contracts.
func (r *PgxActivityRepository) UpsertContractItems(ctx context.Context, items []domain.ContractItem) (int, error) {
	query := `
		INSERT INTO contract_items (
			contract_id, record_id, type_id, quantity, quantity_remaining, is_included, is_singleton, synced_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (contract_id, record_id) DO UPDATE SET
			quantity_remaining = EXCLUDED.quantity_remaining,
			synced_at = NOW()
		WHERE contract_items.quantity_remaining IS DISTINCT FROM EXCLUDED.quantity_remaining;
	`
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query,
			it.ContractID,
			it.RecordID,
			it.TypeID,
			it.Quantity,
			it.QuantityRemaining,
			it.IsIncluded,
			it.IsSingleton,
		)
	}
	return r.execBatch(ctx, batch, "contract items")
}

// UpsertIndustryJobs stores industry jobs, refreshing their lifecycle fields.
func (r *PgxActivityRepository) UpsertIndustryJobs(ctx context.Context, jobs []domain.IndustryJob) (int, error) {
	query := `
		INSERT INTO industry_jobs (` + industryJobColumns + `, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (job_id) DO UPDATE SET
			cost = EXCLUDED.cost,
			status = EXCLUDED.status,
			end_date = EXCLUDED.end_date,
			completed_character_id = EXCLUDED.completed_character_id,
			completed_date = EXCLUDED.completed_date,
			successful_runs = EXCLUDED.successful_runs,
			synced_at = NOW()
		WHERE (industry_jobs.cost, industry_jobs.status, industry_jobs.end_date,
		       industry_jobs.completed_character_id, industry_jobs.completed_date, industry_jobs.successful_runs)
			IS DISTINCT FROM
			(EXCLUDED.cost, EXCLUDED.status, EXCLUDED.end_date,
			 EXCLUDED.completed_character_id, EXCLUDED.completed_date, EXCLUDED.successful_runs);
	`
	batch := &pgx.Batch{}
	for _, j := range jobs {
		batch.Queue(query,
			j.ExternalID,
			j.InstallerID,
			j.FacilityID,
			j.ActivityID,
			j.BlueprintID,
			j.BlueprintTypeID,
			j.ProductTypeID,
			j.Runs,
			j.Cost,
			string(j.Status),
			j.StartDate,
			j.EndDate,
			j.CompletedCharacterID,
			j.CompletedDate,
			j.SuccessfulRuns,
			j.LocationID,
		)
	}
	return r.execBatch(ctx, batch, "industry jobs")
}

// UpsertMarketOrders stores open and historical order snapshots keyed by (order id, is_history).
func (r *PgxActivityRepository) UpsertMarketOrders(ctx context.Context, orders []domain.MarketOrder) (int, error) {
	query := `
		INSERT INTO market_orders (` + marketOrderColumns + `, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (order_id, is_history) DO UPDATE SET
			volume_remain = EXCLUDED.volume_remain,
			price = EXCLUDED.price,
			state = EXCLUDED.state,
			synced_at = NOW()
		WHERE (market_orders.volume_remain, market_orders.price, market_orders.state)
			IS DISTINCT FROM
			(EXCLUDED.volume_remain, EXCLUDED.price, EXCLUDED.state);
	`
	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(query,
			o.ExternalID,
			o.IsHistory,
			o.TypeID,
			o.LocationID,
			o.RegionID,
			o.VolumeTotal,
			o.VolumeRemain,
			o.Price,
			o.IsBuyOrder,
			o.IssuedBy,
			o.State,
			o.Issued,
			o.Range,
			o.WalletDivision,
		)
	}
	return r.execBatch(ctx, batch, "market orders")
}

// SetContractAppraisal records the appraised value of a contract.
func (r *PgxActivityRepository) SetContractAppraisal(ctx context.Context, contractID int64, value decimal.Decimal, appraisedAt time.Time) error {
	query := `UPDATE contracts SET appraisal_value = $2, appraised_at = $3 WHERE contract_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, contractID, value, appraisedAt)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to store appraisal of contract %d", contractID), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("contract %d", contractID))
	}
	return nil
}

// errNoRowsToNotFound maps pgx.ErrNoRows to apperrors.ErrNotFound.
func errNoRowsToNotFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return apperrors.NewAppError(500, msg, err)
}
