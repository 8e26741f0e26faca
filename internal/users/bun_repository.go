package users

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dyncms/internal/domain"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewUserRepository(db *bun.DB) repository.Repository[*User] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
		GetIdentifierValue: func(u *User) string {
			return u.Email
		},
	})
}

type BunRepository struct {
	repo repository.Repository[*User]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewUserRepository(db)}
}

func (r *BunRepository) Create(ctx context.Context, user *User) (*User, error) {
	created, err := r.repo.Create(ctx, user)
	if err != nil {
		return nil, mapRepositoryError(err, user.Email)
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return user, nil
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, err := r.repo.GetByIdentifier(ctx, email)
	if err != nil {
		return nil, mapRepositoryError(err, email)
	}
	return user, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*User, error) {
	list, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC").OrderExpr("?TableAlias.email ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "list")
	}
	return list, nil
}

func (r *BunRepository) Update(ctx context.Context, user *User) (*User, error) {
	updated, err := r.repo.Update(ctx, user)
	if err != nil {
		return nil, mapRepositoryError(err, user.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &User{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return nil
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
