package activity

import (
	"context"
	"testing"

	"mycarts/internal/domain"
)

func TestMemory_ListBySubjectNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	for _, op := range []string{"create", "update", "delete"} {
		if _, err := repo.Record(ctx, domain.ActivityLog{SubjectID: "u1", Op: op, TargetType: "cart", TargetID: "c1"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if _, err := repo.Record(ctx, domain.ActivityLog{SubjectID: "u2", Op: "create", TargetType: "cart", TargetID: "c2"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := repo.ListBySubject(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(got) != 2 || got[0].Op != "delete" || got[1].Op != "update" {
		t.Fatalf("unexpected entries %+v", got)
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be assigned, got %+v", got[0])
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	got, err = repo.ListBySubject(ctx, "u2", 10)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty log, got %+v", got)
	}
}
