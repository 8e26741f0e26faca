package contenttypes

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/google/uuid"
)

const resourceName = "content_type"

// MemoryRepository is an in-memory Repository.
type MemoryRepository struct {
	mu        sync.RWMutex
	types     map[uuid.UUID]*ContentType
	slugIndex map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		types:     make(map[uuid.UUID]*ContentType),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *ContentType) (*ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneContentType(record)
	m.types[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneContentType(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*ContentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.types[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	return cloneContentType(record), nil
}

func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*ContentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: slug}
	}
	return cloneContentType(m.types[id]), nil
}

// List returns types ordered by creation time.
func (m *MemoryRepository) List(_ context.Context) ([]*ContentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ContentType, 0, len(m.types))
	for _, record := range m.types {
		out = append(out, cloneContentType(record))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Slug < out[j].Slug
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *ContentType) (*ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.types[record.ID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: record.ID.String()}
	}
	if existing.Slug != record.Slug {
		delete(m.slugIndex, existing.Slug)
	}
	copied := cloneContentType(record)
	m.types[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneContentType(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.types[id]
	if !ok {
		return &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	delete(m.slugIndex, existing.Slug)
	delete(m.types, id)
	return nil
}
