package menus

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dyncms/internal/domain"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const cacheNamespace = "menu_item"

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo         repository.Repository[*Entry]
	cacheService cache.CacheService
	cachePrefix  string
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewEntryRepository(db)
	out := &BunRepository{repo: base}
	if cacheService != nil && serializer != nil {
		out.repo = repositorycache.New(base, cacheService, serializer)
		out.cacheService = cacheService
		out.cachePrefix = cacheNamespace + cache.KeySeparator
	}
	return out
}

func (r *BunRepository) Create(ctx context.Context, entry *Entry) (*Entry, error) {
	created, err := r.repo.Create(ctx, entry)
	if err != nil {
		return nil, mapRepositoryError(err, entry.ID.String())
	}
	return created, r.InvalidateCache(ctx)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	entry, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return entry, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Entry, error) {
	list, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC").OrderExpr("?TableAlias.label ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "list")
	}
	return list, nil
}

func (r *BunRepository) Update(ctx context.Context, entry *Entry) (*Entry, error) {
	updated, err := r.repo.Update(ctx, entry)
	if err != nil {
		return nil, mapRepositoryError(err, entry.ID.String())
	}
	return updated, r.InvalidateCache(ctx)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Entry{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return r.InvalidateCache(ctx)
}

func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// DeleteByContentTypeTx removes the entries tagged with contentTypeID and
// their subtrees using db, which may be a transaction, and returns the ids it
// removed, deepest first.
func DeleteByContentTypeTx(ctx context.Context, db bun.IDB, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	var entries []*Entry
	if err := db.NewSelect().Model(&entries).Scan(ctx); err != nil {
		return nil, mapRepositoryError(err, contentTypeID.String())
	}
	tagged := byContentType(entries, contentTypeID)
	if len(tagged) == 0 {
		return []uuid.UUID{}, nil
	}
	ids := deletionOrder(entries, tagged)
	if _, err := db.NewDelete().
		Model((*Entry)(nil)).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Exec(ctx); err != nil {
		return nil, mapRepositoryError(err, contentTypeID.String())
	}
	return ids, nil
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
