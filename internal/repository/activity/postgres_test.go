package activity

import (
	"context"
	"os"
	"testing"

	"mycarts/internal/domain"
	"mycarts/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_ListBySubjectNewestFirst(t *testing.T) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE activity_logs, carts, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	repo := NewPostgres(pool)
	for _, op := range []string{"create", "update", "delete"} {
		if _, err := repo.Record(ctx, domain.ActivityLog{
			SubjectID:  "u1",
			Op:         op,
			TargetType: "cart",
			TargetID:   "c1",
			Data:       map[string]interface{}{"op": op},
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	// close intents carry no data
	entry, err := repo.Record(ctx, domain.ActivityLog{SubjectID: "u2", Op: "delete", TargetType: "cart", TargetID: "c2"})
	if err != nil {
		t.Fatalf("Record without data: %v", err)
	}
	if entry.Data != nil {
		t.Fatalf("expected nil data, got %v", entry.Data)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO activity_logs (subject_id, op, target_type, target_id, data) VALUES ('u2', 'create', 'cart', 'c3', NULL)`); err != nil {
		t.Fatalf("insert NULL data: %v", err)
	}

	got, err := repo.ListBySubject(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(got) != 2 || got[0].Op != "delete" || got[1].Op != "update" {
		t.Fatalf("unexpected entries %+v", got)
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() || got[0].Data["op"] != "delete" {
		t.Fatalf("expected id, timestamp and data, got %+v", got[0])
	}

	got, err = repo.ListBySubject(ctx, "u2", 10)
	if err != nil {
		t.Fatalf("ListBySubject with NULL data: %v", err)
	}
	if len(got) != 2 || got[0].TargetID != "c3" || got[0].Data != nil {
		t.Fatalf("unexpected entries %+v", got)
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	got, err = repo.ListBySubject(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty log, got %+v", got)
	}
}
