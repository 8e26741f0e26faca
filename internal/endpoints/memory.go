package endpoints

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/google/uuid"
)

const resourceName = "api_endpoint"

type MemoryRepository struct {
	mu        sync.RWMutex
	endpoints map[uuid.UUID]*Endpoint
	order     []uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{endpoints: make(map[uuid.UUID]*Endpoint)}
}

func (m *MemoryRepository) Create(_ context.Context, endpoint *Endpoint) (*Endpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneEndpoint(endpoint)
	if _, exists := m.endpoints[copied.ID]; !exists {
		m.order = append(m.order, copied.ID)
	}
	m.endpoints[copied.ID] = copied
	return cloneEndpoint(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Endpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	endpoint, ok := m.endpoints[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	return cloneEndpoint(endpoint), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Endpoint, error) {
	return m.filter(func(*Endpoint) bool { return true }), nil
}

func (m *MemoryRepository) ListByContentType(_ context.Context, contentTypeID uuid.UUID) ([]*Endpoint, error) {
	return m.filter(func(e *Endpoint) bool { return e.ContentTypeID == contentTypeID }), nil
}

func (m *MemoryRepository) Update(_ context.Context, endpoint *Endpoint) (*Endpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.endpoints[endpoint.ID]; !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: endpoint.ID.String()}
	}
	copied := cloneEndpoint(endpoint)
	m.endpoints[copied.ID] = copied
	return cloneEndpoint(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.endpoints[id]; !ok {
		return &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	m.remove(id)
	return nil
}

func (m *MemoryRepository) DeleteByContentType(_ context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := []uuid.UUID{}
	for id, endpoint := range m.endpoints {
		if endpoint.ContentTypeID == contentTypeID {
			m.remove(id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

func (m *MemoryRepository) filter(keep func(*Endpoint) bool) []*Endpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Endpoint, 0, len(m.order))
	for _, id := range m.order {
		if endpoint := m.endpoints[id]; endpoint != nil && keep(endpoint) {
			out = append(out, cloneEndpoint(endpoint))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MemoryRepository) remove(id uuid.UUID) {
	delete(m.endpoints, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
