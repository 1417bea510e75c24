package cart

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"mycarts/internal/domain"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
	now   func() time.Time
}

// NewMemory returns a Repository that keeps carts in process memory.
func NewMemory() Repository {
	return &memoryRepo{
		carts: make(map[string]domain.Cart),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryRepo) Create(_ context.Context, in CreateCartInput) (*domain.Cart, error) {
	now := r.now()
	c := domain.Cart{
		ID:         uuid.NewString(),
		Attributes: maps.Clone(in.Attributes),
		State:      domain.CartStateOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if c.Attributes == nil {
		c.Attributes = map[string]interface{}{}
	}
	if in.OwnerID != nil {
		owner := *in.OwnerID
		c.OwnerID = &owner
	}

	r.mu.Lock()
	r.carts[c.ID] = c
	r.mu.Unlock()
	return cloneCart(c), nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCart(c), nil
}

func (r *memoryRepo) ListOpenByOwner(_ context.Context, ownerID string) ([]domain.Cart, error) {
	r.mu.RLock()
	out := []domain.Cart{}
	for _, c := range r.carts {
		if c.IsOpen() && c.OwnedBy(ownerID) {
			out = append(out, *cloneCart(c))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepo) MergeAttributes(_ context.Context, id string, patch map[string]interface{}) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok || !c.IsOpen() {
		return nil, domain.ErrNotFound
	}
	attrs := maps.Clone(c.Attributes)
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	maps.Copy(attrs, patch)
	c.Attributes = attrs
	c.UpdatedAt = r.now()
	r.carts[id] = c
	return cloneCart(c), nil
}

func (r *memoryRepo) Close(_ context.Context, id string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok || !c.IsOpen() {
		return nil, domain.ErrNotFound
	}
	now := r.now()
	c.State = domain.CartStateClosed
	c.ClosedAt = &now
	c.UpdatedAt = now
	r.carts[id] = c
	return cloneCart(c), nil
}

func (r *memoryRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	r.carts = make(map[string]domain.Cart)
	r.mu.Unlock()
	return nil
}

func cloneCart(c domain.Cart) *domain.Cart {
	out := c
	out.Attributes = maps.Clone(c.Attributes)
	if c.OwnerID != nil {
		owner := *c.OwnerID
		out.OwnerID = &owner
	}
	if c.ClosedAt != nil {
		closed := *c.ClosedAt
		out.ClosedAt = &closed
	}
	return &out
}
