package wishlist

import (
	"context"
	"errors"

	"healside/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Add(ctx context.Context, userID, productID int64) (*domain.Wishlist, error) {
	const q = `
INSERT INTO wishlists (user_id, product_id)
VALUES ($1, $2)
RETURNING id, user_id, product_id, created_at
`
	var w domain.Wishlist
	err := r.pool.QueryRow(ctx, q, userID, productID).Scan(&w.ID, &w.UserID, &w.ProductID, &w.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &w, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Wishlist, error) {
	const q = `
SELECT id, user_id, product_id, created_at
FROM wishlists
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Wishlist
	for rows.Next() {
		var w domain.Wishlist
		if err := rows.Scan(&w.ID, &w.UserID, &w.ProductID, &w.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID int64) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlists WHERE user_id = $1 AND product_id = $2)`, userID, productID,
	).Scan(&exists)
	return exists, err
}
