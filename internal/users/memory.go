package users

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/google/uuid"
)

const resourceName = "user"

type MemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[uuid.UUID]*User)}
}

func (m *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneUser(user)
	m.users[copied.ID] = copied
	return cloneUser(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	return cloneUser(user), nil
}

func (m *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, &domain.NotFoundError{Resource: resourceName, Key: email}
}

func (m *MemoryRepository) List(_ context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, cloneUser(user))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return nil, &domain.NotFoundError{Resource: resourceName, Key: user.ID.String()}
	}
	copied := cloneUser(user)
	m.users[copied.ID] = copied
	return cloneUser(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	delete(m.users, id)
	return nil
}
