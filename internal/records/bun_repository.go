package records

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dyncms/internal/domain"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewRecordRepository builds the go-repository-bun repository for records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *Record) string {
			if r == nil {
				return ""
			}
			return r.ID.String()
		},
	})
}

// BunRepository stores records in the content_records table. Records are not
// cached: list reads must see every write.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*Record]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db, repo: NewRecordRepository(db)}
}

func (r *BunRepository) Create(ctx context.Context, record *Record) (*Record, error) {
	var last int64
	err := r.db.NewSelect().
		Model((*Record)(nil)).
		ColumnExpr("COALESCE(MAX(?TableAlias.seq), 0)").
		Scan(ctx, &last)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	record.Seq = last + 1
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) ListByType(ctx context.Context, contentTypeID uuid.UUID) ([]*Record, error) {
	list, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type_id = ?", contentTypeID).
				OrderExpr("?TableAlias.seq ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, contentTypeID.String())
	}
	return list, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Record) (*Record, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Record{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return nil
}

func (r *BunRepository) DeleteByType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	return DeleteByTypeTx(ctx, r.db, contentTypeID)
}

// DeleteByTypeTx removes every record of a content type using db, which may
// be a transaction, and returns the ids it removed.
func DeleteByTypeTx(ctx context.Context, db bun.IDB, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	var doomed []*Record
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
	for _, record := range doomed {
		ids = append(ids, record.ID)
	}
	if _, err := db.NewDelete().
		Model((*Record)(nil)).
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
