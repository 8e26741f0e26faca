package contenttypes

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dyncms/internal/domain"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const cacheNamespace = "content_type"

// BunRepository persists content types with go-repository-bun, optionally
// behind go-repository-cache.
type BunRepository struct {
	repo         repository.Repository[*ContentType]
	cacheService cache.CacheService
	cachePrefix  string
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewContentTypeRepository(db)
	out := &BunRepository{repo: base}
	if cacheService != nil && serializer != nil {
		out.repo = repositorycache.New(base, cacheService, serializer)
		out.cacheService = cacheService
		out.cachePrefix = cacheNamespace + cache.KeySeparator
	}
	return out
}

func (r *BunRepository) Create(ctx context.Context, record *ContentType) (*ContentType, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.Slug)
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContentType, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*ContentType, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*ContentType, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC").OrderExpr("?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "list")
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *ContentType) (*ContentType, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, r.InvalidateCache(ctx)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &ContentType{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return r.InvalidateCache(ctx)
}

// InvalidateCache drops cached reads. A no-op without a cache.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &domain.NotFoundError{Resource: resourceName, Key: key}
	}
	return &domain.TransportFailure{
		Operation: resourceName,
		Err:       fmt.Errorf("%s repository error: %w", resourceName, err),
	}
}
