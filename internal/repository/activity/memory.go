package activity

import (
	"context"
	"maps"
	"sync"
	"time"

	"mycarts/internal/domain"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu      sync.RWMutex
	entries []domain.ActivityLog
}

// NewMemory returns a Repository that keeps the log in process memory.
func NewMemory() Repository {
	return &memoryRepo{}
}

func (r *memoryRepo) Record(_ context.Context, entry domain.ActivityLog) (*domain.ActivityLog, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	entry.Data = maps.Clone(entry.Data)

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	return &entry, nil
}

func (r *memoryRepo) ListBySubject(_ context.Context, subjectID string, limit int) ([]domain.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.ActivityLog{}
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].SubjectID == subjectID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *memoryRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
	return nil
}
