package endpoints

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

const cacheNamespace = "api_endpoint"

func NewEndpointRepository(db *bun.DB) repository.Repository[*Endpoint] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Endpoint]{
		NewRecord: func() *Endpoint { return &Endpoint{} },
		GetID: func(e *Endpoint) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Endpoint, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(e *Endpoint) string {
			return e.Path
		},
	})
}

type BunRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Endpoint]
	cacheService cache.CacheService
	cachePrefix  string
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewEndpointRepository(db)
	out := &BunRepository{db: db, repo: base}
	if cacheService != nil && serializer != nil {
		out.repo = repositorycache.New(base, cacheService, serializer)
		out.cacheService = cacheService
		out.cachePrefix = cacheNamespace + cache.KeySeparator
	}
	return out
}

func (r *BunRepository) Create(ctx context.Context, endpoint *Endpoint) (*Endpoint, error) {
	created, err := r.repo.Create(ctx, endpoint)
	if err != nil {
		return nil, mapRepositoryError(err, endpoint.Path)
	}
	return created, r.InvalidateCache(ctx)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Endpoint, error) {
	endpoint, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return endpoint, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Endpoint, error) {
	list, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC").OrderExpr("?TableAlias.path ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "list")
	}
	return list, nil
}

func (r *BunRepository) ListByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]*Endpoint, error) {
	list, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type_id = ?", contentTypeID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, contentTypeID.String())
	}
	return list, nil
}

func (r *BunRepository) Update(ctx context.Context, endpoint *Endpoint) (*Endpoint, error) {
	updated, err := r.repo.Update(ctx, endpoint)
	if err != nil {
		return nil, mapRepositoryError(err, endpoint.ID.String())
	}
	return updated, r.InvalidateCache(ctx)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Endpoint{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return r.InvalidateCache(ctx)
}

func (r *BunRepository) DeleteByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	removed, err := DeleteByContentTypeTx(ctx, r.db, contentTypeID)
	if err != nil {
		return nil, err
	}
	return removed, r.InvalidateCache(ctx)
}

func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// DeleteByContentTypeTx removes the endpoints of a content type using db,
// which may be a transaction, and returns the ids it removed.
func DeleteByContentTypeTx(ctx context.Context, db bun.IDB, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	var doomed []*Endpoint
	if err := db.NewSelect().
		Model(&doomed).
		Column("id").
		Where("?TableAlias.content_type_id = ?", contentTypeID).
		Scan(ctx); err != nil {
		return nil, mapRepositoryError(err, contentTypeID.String())
	}
	if len(doomed) == 0 {
		return []uuid.UUID{}, nil
	}
	ids := make([]uuid.UUID, 0, len(doomed))
	for _, endpoint := range doomed {
		ids = append(ids, endpoint.ID)
	}
	if _, err := db.NewDelete().
		Model((*Endpoint)(nil)).
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
