package repositories

import (
	"context"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
)

// NameRepository persists resolved names for type and character ids.
type NameRepository interface {
	// FindName returns the stored name, or apperrors.ErrNotFound.
	FindName(ctx context.Context, kind domain.NameKind, id int64) (string, error)

	// SaveName stores or replaces a name.
	SaveName(ctx context.Context, kind domain.NameKind, id int64, name string) error
}
