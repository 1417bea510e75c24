package user

import (
	"context"
	"time"

	"mycarts/internal/domain"
)

type CreateUserInput struct {
	Username string
	Guest    bool
}

// Repository persists users keyed by username.
type Repository interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	DeleteGuestsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
