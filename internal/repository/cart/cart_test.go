package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"mycarts/internal/domain"
	"mycarts/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	var ownerID string
	err := pool.QueryRow(ctx, `INSERT INTO users (username) VALUES ('testuser') RETURNING id::text`).Scan(&ownerID)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	exerciseRepository(ctx, t, NewPostgres(pool), ownerID)
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE activity_logs, carts, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

// exerciseRepository runs the same contract against every Repository implementation.
func exerciseRepository(ctx context.Context, t *testing.T, repo Repository, ownerID string) {
	t.Helper()

	mine, err := repo.Create(ctx, CreateCartInput{OwnerID: &ownerID, Attributes: map[string]interface{}{"foo": "bobo"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if mine.ID == "" || !mine.IsOpen() || !mine.OwnedBy(ownerID) || mine.Attributes["foo"] != "bobo" {
		t.Fatalf("unexpected cart %+v", mine)
	}
	if _, err := repo.Create(ctx, CreateCartInput{Attributes: map[string]interface{}{"foo": "bar"}}); err != nil {
		t.Fatalf("Create ownerless: %v", err)
	}

	list, err := repo.ListOpenByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListOpenByOwner: %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("expected only my cart, got %+v", list)
	}

	merged, err := repo.MergeAttributes(ctx, mine.ID, map[string]interface{}{"bar": "babs"})
	if err != nil {
		t.Fatalf("MergeAttributes: %v", err)
	}
	if merged.Attributes["foo"] != "bobo" || merged.Attributes["bar"] != "babs" {
		t.Fatalf("expected shallow merge, got %+v", merged.Attributes)
	}

	closed, err := repo.Close(ctx, mine.ID)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.IsOpen() || closed.ClosedAt == nil {
		t.Fatalf("expected closed cart, got %+v", closed)
	}

	if _, err := repo.Close(ctx, mine.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("closing twice: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.MergeAttributes(ctx, mine.ID, map[string]interface{}{"x": 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("merge on closed: expected ErrNotFound, got %v", err)
	}
	fetched, err := repo.GetByID(ctx, mine.ID)
	if err != nil {
		t.Fatalf("GetByID closed: %v", err)
	}
	if fetched.State != domain.CartStateClosed {
		t.Fatalf("expected closed state, got %q", fetched.State)
	}

	list, err = repo.ListOpenByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListOpenByOwner: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("closed cart still listed: %+v", list)
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if _, err := repo.GetByID(ctx, mine.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("after DeleteAll: expected ErrNotFound, got %v", err)
	}
}
