package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/corp_ledger/internal/apperrors"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/corp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/patrickmn/go-cache"
)

const (
	nameCacheTTL     = 24 * time.Hour
	fallbackCacheTTL = 5 * time.Minute
)

// nameService resolves ids through an in-memory cache, the name tables and finally upstream
type nameService struct {
	BaseService
	repo   portsrepo.NameRepository
	source portssvc.NameSource
	cache  *cache.Cache
}

// NewNameService creates a name resolver. source may be nil when upstream is not configured.
func NewNameService(repo portsrepo.NameRepository, source portssvc.NameSource) portssvc.NameSvc {
	return &nameService{
		repo:   repo,
		source: source,
		cache:  cache.New(nameCacheTTL, time.Hour),
	}
}

var _ portssvc.NameSvc = (*nameService)(nil)

// Name never fails; unresolved ids come back as "type:<id>" or "char:<id>".
func (s *nameService) Name(ctx context.Context, kind domain.NameKind, id int64) string {
	key := string(kind) + ":" + strconv.FormatInt(id, 10)
	if v, ok := s.cache.Get(key); ok {
		return v.(string)
	}

	name, err := s.repo.FindName(ctx, kind, id)
	if err == nil && name != "" {
		s.cache.Set(key, name, cache.DefaultExpiration)
		return name
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogWarn(ctx, err, "Failed to read stored name", slog.String("kind", string(kind)), slog.Int64("id", id))
	}

	if s.source != nil {
		name, err = s.source.LookupName(ctx, kind, id)
		if err == nil && name != "" {
			if saveErr := s.repo.SaveName(ctx, kind, id, name); saveErr != nil {
				s.LogWarn(ctx, saveErr, "Failed to store resolved name", slog.String("kind", string(kind)), slog.Int64("id", id))
			}
			s.cache.Set(key, name, cache.DefaultExpiration)
			return name
		}
		if err != nil {
			s.LogWarn(ctx, err, "Failed to resolve name upstream", slog.String("kind", string(kind)), slog.Int64("id", id))
		}
	}

	fallback := kind.FallbackName(id)
	s.cache.Set(key, fallback, fallbackCacheTTL)
	return fallback
}
