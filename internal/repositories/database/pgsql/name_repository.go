package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/corp_ledger/internal/apperrors"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNameRepository struct {
	BaseRepository
}

// newPgxNameRepository creates a new repository for resolved type and character names.
func newPgxNameRepository(pool *pgxpool.Pool) portsrepo.NameRepository {
	return &PgxNameRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NameRepository = (*PgxNameRepository)(nil)

// nameTable returns the table and key column holding names of the given kind.
func nameTable(kind domain.NameKind) (string, string, error) {
	switch kind {
	case domain.NameKindType:
		return "type_names", "type_id", nil
	case domain.NameKindCharacter:
		return "character_names", "character_id", nil
	}
	return "", "", apperrors.NewValidationError("unknown name kind " + string(kind))
}

// FindName returns the stored name, or apperrors.ErrNotFound.
func (r *PgxNameRepository) FindName(ctx context.Context, kind domain.NameKind, id int64) (string, error) {
	table, key, err := nameTable(kind)
	if err != nil {
		return "", err
	}

	var name string
	query := fmt.Sprintf(`SELECT name FROM %s WHERE %s = $1;`, table, key)
	if err := r.Pool.QueryRow(ctx, query, id).Scan(&name); err != nil {
		return "", errNoRowsToNotFound(err, fmt.Sprintf("failed to find %s name %d", kind, id))
	}
	return name, nil
}

// SaveName stores or replaces a name.
func (r *PgxNameRepository) SaveName(ctx context.Context, kind domain.NameKind, id int64, name string) error {
	table, key, err := nameTable(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, name, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (%s) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW();
	`, table, key, key)
	if _, err := r.Pool.Exec(ctx, query, id, name); err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save %s name %d", kind, id), err)
	}
	return nil
}
