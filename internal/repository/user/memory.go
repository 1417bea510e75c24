package user

import (
	"context"
	"sync"
	"time"

	"mycarts/internal/domain"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User
	now   func() time.Time
}

// NewMemory returns a Repository that keeps users in process memory.
func NewMemory() Repository {
	return newMemory(func() time.Time { return time.Now().UTC() })
}

func newMemory(now func() time.Time) *memoryRepo {
	return &memoryRepo{users: make(map[string]domain.User), now: now}
}

func (r *memoryRepo) Create(_ context.Context, in CreateUserInput) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[in.Username]; exists {
		return nil, domain.ErrAlreadyExists
	}
	u := domain.User{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Guest:     in.Guest,
		CreatedAt: r.now(),
	}
	r.users[u.Username] = u
	return &u, nil
}

func (r *memoryRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryRepo) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, username)
	return nil
}

func (r *memoryRepo) DeleteGuestsCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for name, u := range r.users {
		if u.Guest && u.CreatedAt.Before(cutoff) {
			delete(r.users, name)
			removed++
		}
	}
	return removed, nil
}
