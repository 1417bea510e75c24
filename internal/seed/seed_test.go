package seed

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"mycarts/internal/domain"
	activityrepo "mycarts/internal/repository/activity"
	cartrepo "mycarts/internal/repository/cart"
	userrepo "mycarts/internal/repository/user"
)

type failingPurger struct {
	calls atomic.Int32
	err   error
}

func (f *failingPurger) DeleteAll(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func memoryStores() Stores {
	return Stores{
		Carts:    cartrepo.NewMemory(),
		Activity: activityrepo.NewMemory(),
		Users:    userrepo.NewMemory(),
	}
}

func TestApplyThenReset(t *testing.T) {
	ctx := context.Background()
	s := memoryStores()

	user, err := Apply(ctx, s)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	again, err := Apply(ctx, s)
	if err != nil {
		t.Fatalf("Apply twice: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("demo user recreated: %s != %s", again.ID, user.ID)
	}

	carts := s.Carts.(cartrepo.Repository)
	mine, err := carts.ListOpenByOwner(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListOpenByOwner: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 demo carts, got %d", len(mine))
	}

	if err := Reset(ctx, s, DemoUsername, "never-existed"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := s.Users.GetByUsername(ctx, DemoUsername); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("demo user should be deleted, got %v", err)
	}
	mine, err = carts.ListOpenByOwner(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListOpenByOwner: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("carts should be deleted, got %d", len(mine))
	}
}

func TestResetRunsEveryDeletionAndReportsFailure(t *testing.T) {
	ctx := context.Background()
	s := memoryStores()
	activity := &failingPurger{err: errors.New("disk full")}
	s.Activity = activity

	err := Reset(ctx, s, "testuser")
	if err == nil || !strings.Contains(err.Error(), "delete activity logs: disk full") {
		t.Fatalf("expected activity failure, got %v", err)
	}
	if activity.calls.Load() != 1 {
		t.Fatalf("expected one activity purge, got %d", activity.calls.Load())
	}
}
