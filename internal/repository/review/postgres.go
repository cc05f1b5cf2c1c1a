package review

import (
	"context"

	"healside/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (product_id, user_id, rating, comment)
VALUES ($1, $2, $3, NULLIF($4, ''))
RETURNING id, created_at
`
	err := r.pool.QueryRow(ctx, q, rv.ProductID, rv.UserID, rv.Rating, rv.Comment).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	const q = `
SELECT id, product_id, user_id, rating, COALESCE(comment, ''), created_at
FROM reviews
WHERE product_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	return result, rows.Err()
}
