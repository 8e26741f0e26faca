package menus

import (
	"context"
	"sync"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/google/uuid"
)

const resourceName = "menu_item"

type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
	order   []uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[uuid.UUID]*Entry)}
}

func (m *MemoryRepository) Create(_ context.Context, entry *Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneEntry(entry)
	if _, exists := m.entries[copied.ID]; !exists {
		m.order = append(m.order, copied.ID)
	}
	m.entries[copied.ID] = copied
	return cloneEntry(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	return cloneEntry(entry), nil
}

// List returns entries in insertion order.
func (m *MemoryRepository) List(_ context.Context) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Entry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneEntry(m.entries[id]))
	}
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, entry *Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.ID]; !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: entry.ID.String()}
	}
	copied := cloneEntry(entry)
	m.entries[copied.ID] = copied
	return cloneEntry(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	delete(m.entries, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
