package cart

import (
	"context"
	"errors"

	"mycarts/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cartColumns = `id::text, owner_id::text, attributes, state, created_at, updated_at, closed_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	attrs := in.Attributes
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	const q = `
INSERT INTO carts (owner_id, attributes, state)
VALUES ($1, $2, 'open')
RETURNING ` + cartColumns
	return scanCart(r.pool.QueryRow(ctx, q, in.OwnerID, attrs))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`
	return scanCart(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ListOpenByOwner(ctx context.Context, ownerID string) ([]domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE owner_id = $1 AND state = 'open'
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	carts := []domain.Cart{}
	for rows.Next() {
		c, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		carts = append(carts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *postgresRepo) MergeAttributes(ctx context.Context, id string, patch map[string]interface{}) (*domain.Cart, error) {
	if patch == nil {
		patch = map[string]interface{}{}
	}
	const q = `
UPDATE carts
SET attributes = attributes || $2::jsonb,
    updated_at = now()
WHERE id = $1 AND state = 'open'
RETURNING ` + cartColumns
	return scanCart(r.pool.QueryRow(ctx, q, id, patch))
}

func (r *postgresRepo) Close(ctx context.Context, id string) (*domain.Cart, error) {
	const q = `
UPDATE carts
SET state = 'closed',
    closed_at = now(),
    updated_at = now()
WHERE id = $1 AND state = 'open'
RETURNING ` + cartColumns
	return scanCart(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts`)
	return err
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var c domain.Cart
	var ownerID *string
	if err := row.Scan(
		&c.ID,
		&ownerID,
		&c.Attributes,
		&c.State,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ClosedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.OwnerID = ownerID
	if c.Attributes == nil {
		c.Attributes = map[string]interface{}{}
	}
	return &c, nil
}
