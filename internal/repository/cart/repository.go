package cart

import (
	"context"

	"mycarts/internal/domain"
)

type CreateCartInput struct {
	OwnerID    *string
	Attributes map[string]interface{}
}

// Repository persists carts. GetByID returns carts in any state; callers decide visibility.
// MergeAttributes and Close only touch open carts and return domain.ErrNotFound otherwise.
type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	ListOpenByOwner(ctx context.Context, ownerID string) ([]domain.Cart, error)
	MergeAttributes(ctx context.Context, id string, patch map[string]interface{}) (*domain.Cart, error)
	Close(ctx context.Context, id string) (*domain.Cart, error)
	DeleteAll(ctx context.Context) error
}
