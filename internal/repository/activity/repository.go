package activity

import (
	"context"

	"mycarts/internal/domain"
)

// Repository stores the log of committed intents.
type Repository interface {
	Record(ctx context.Context, entry domain.ActivityLog) (*domain.ActivityLog, error)
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.ActivityLog, error)
	DeleteAll(ctx context.Context) error
}
