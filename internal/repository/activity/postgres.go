package activity

import (
	"context"

	"mycarts/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Record(ctx context.Context, entry domain.ActivityLog) (*domain.ActivityLog, error) {
	const q = `
INSERT INTO activity_logs (subject_id, op, target_type, target_id, data)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, subject_id, op, target_type, target_id, data, created_at
`
	return scanEntry(r.pool.QueryRow(ctx, q, entry.SubjectID, entry.Op, entry.TargetType, entry.TargetID, entry.Data))
}

func (r *postgresRepo) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.ActivityLog, error) {
	const q = `
SELECT id::text, subject_id, op, target_type, target_id, data, created_at
FROM activity_logs
WHERE subject_id = $1
ORDER BY seq DESC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, subjectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ActivityLog{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *postgresRepo) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activity_logs`)
	return err
}

func scanEntry(row pgx.Row) (*domain.ActivityLog, error) {
	var e domain.ActivityLog
	if err := row.Scan(&e.ID, &e.SubjectID, &e.Op, &e.TargetType, &e.TargetID, &e.Data, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
