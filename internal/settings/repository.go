package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-dyncms/internal/domain"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const resourceName = "settings"

type MemoryRepository struct {
	mu  sync.RWMutex
	doc *Settings
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil || m.doc.ID != id {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	return cloneSettings(m.doc), nil
}

func (m *MemoryRepository) Save(_ context.Context, doc *Settings) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = cloneSettings(doc)
	return cloneSettings(m.doc), nil
}

func NewSettingsRepository(db *bun.DB) repository.Repository[*Settings] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Settings]{
		NewRecord: func() *Settings { return &Settings{} },
		GetID: func(s *Settings) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Settings, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(s *Settings) string {
			return s.ID.String()
		},
	})
}

type BunRepository struct {
	repo repository.Repository[*Settings]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewSettingsRepository(db)}
}

func (r *BunRepository) Get(ctx context.Context, id uuid.UUID) (*Settings, error) {
	doc, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return doc, nil
}

// Save creates the row on first write and updates it afterwards.
func (r *BunRepository) Save(ctx context.Context, doc *Settings) (*Settings, error) {
	_, err := r.repo.GetByID(ctx, doc.ID.String())
	switch {
	case err == nil:
		saved, updateErr := r.repo.Update(ctx, doc)
		return saved, mapRepositoryError(updateErr, doc.ID.String())
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		saved, createErr := r.repo.Create(ctx, doc)
		return saved, mapRepositoryError(createErr, doc.ID.String())
	default:
		return nil, mapRepositoryError(err, doc.ID.String())
	}
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
