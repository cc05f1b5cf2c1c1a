package newsletter

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

func (r *postgresRepo) Subscribe(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	const q = `
INSERT INTO newsletter_subscriptions (email, is_active)
VALUES (lower($1), TRUE)
ON CONFLICT (email) DO UPDATE SET is_active = TRUE
RETURNING id, email, is_active, created_at
`
	var sub domain.NewsletterSubscription
	err := r.pool.QueryRow(ctx, q, email).Scan(&sub.ID, &sub.Email, &sub.IsActive, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *postgresRepo) Unsubscribe(ctx context.Context, email string) (bool, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE newsletter_subscriptions SET is_active = FALSE WHERE email = lower($1)`, email)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
