package records

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/google/uuid"
)

const resourceName = "content_record"

// MemoryRepository keeps records in insertion order.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
	seq     int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]*Record)}
}

func (m *MemoryRepository) Create(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	copied := cloneRecord(record)
	copied.Seq = m.seq
	m.records[copied.ID] = copied
	return cloneRecord(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	return cloneRecord(record), nil
}

func (m *MemoryRepository) ListByType(_ context.Context, contentTypeID uuid.UUID) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0)
	for _, record := range m.records {
		if record.ContentTypeID == contentTypeID {
			out = append(out, cloneRecord(record))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: record.ID.String()}
	}
	copied := cloneRecord(record)
	copied.Seq = existing.Seq
	copied.ContentTypeID = existing.ContentTypeID
	m.records[copied.ID] = copied
	return cloneRecord(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) DeleteByType(_ context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := []uuid.UUID{}
	for id, record := range m.records {
		if record.ContentTypeID == contentTypeID {
			delete(m.records, id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}
