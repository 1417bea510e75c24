package seed

import (
	"context"
	"errors"
	"fmt"

	"mycarts/internal/domain"
	cartrepo "mycarts/internal/repository/cart"
	userrepo "mycarts/internal/repository/user"

	"golang.org/x/sync/errgroup"
)

type purger interface {
	DeleteAll(ctx context.Context) error
}

type userStore interface {
	Create(ctx context.Context, in userrepo.CreateUserInput) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}

type cartStore interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	DeleteAll(ctx context.Context) error
}

// Stores groups the repositories seeding touches.
type Stores struct {
	Carts    cartStore
	Activity purger
	Users    userStore
}

// DemoUsername is the account created by Apply.
const DemoUsername = "demo"

// Reset deletes every cart, every activity entry and the named users concurrently. Missing users
// are ignored. It returns once all deletions finished, with the first error encountered.
func Reset(ctx context.Context, s Stores, usernames ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.Activity.DeleteAll(gctx); err != nil {
			return fmt.Errorf("delete activity logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.Carts.DeleteAll(gctx); err != nil {
			return fmt.Errorf("delete carts: %w", err)
		}
		return nil
	})
	for _, name := range usernames {
		name := name
		g.Go(func() error {
			if err := s.Users.Delete(gctx, name); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("delete user %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Apply inserts a demo user owning one cart, plus one ownerless cart. It is idempotent for the user.
func Apply(ctx context.Context, s Stores) (*domain.User, error) {
	user, err := s.Users.GetByUsername(ctx, DemoUsername)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = s.Users.Create(ctx, userrepo.CreateUserInput{Username: DemoUsername})
	}
	if err != nil {
		return nil, fmt.Errorf("ensure demo user: %w", err)
	}

	owner := user.ID
	if _, err := s.Carts.Create(ctx, cartrepo.CreateCartInput{
		OwnerID:    &owner,
		Attributes: map[string]interface{}{"name": "demo cart", "currency": "USD"},
	}); err != nil {
		return nil, fmt.Errorf("create demo cart: %w", err)
	}
	if _, err := s.Carts.Create(ctx, cartrepo.CreateCartInput{
		Attributes: map[string]interface{}{"name": "unowned cart"},
	}); err != nil {
		return nil, fmt.Errorf("create unowned cart: %w", err)
	}
	return user, nil
}
