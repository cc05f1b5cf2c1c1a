package cart

import (
	"context"
	"errors"

	"healside/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, id Identity) (*domain.Cart, error) {
	if id.UserID != nil {
		const q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) WHERE user_id IS NOT NULL
DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id, user_id, session_id, created_at
`
		return r.scanCart(r.pool.QueryRow(ctx, q, *id.UserID))
	}
	if id.SessionID != nil {
		const q = `
INSERT INTO carts (session_id)
VALUES ($1)
ON CONFLICT (session_id) WHERE session_id IS NOT NULL
DO UPDATE SET session_id = EXCLUDED.session_id
RETURNING id, user_id, session_id, created_at
`
		return r.scanCart(r.pool.QueryRow(ctx, q, *id.SessionID))
	}
	return nil, domain.ErrNotFound
}

func (r *postgresRepo) Get(ctx context.Context, id Identity) (*domain.Cart, error) {
	switch {
	case id.UserID != nil:
		return r.scanCart(r.pool.QueryRow(ctx,
			`SELECT id, user_id, session_id, created_at FROM carts WHERE user_id = $1`, *id.UserID))
	case id.SessionID != nil:
		return r.scanCart(r.pool.QueryRow(ctx,
			`SELECT id, user_id, session_id, created_at FROM carts WHERE session_id = $1`, *id.SessionID))
	}
	return nil, domain.ErrNotFound
}

func (r *postgresRepo) Items(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	const q = `
SELECT id, cart_id, product_id, quantity
FROM cart_items
WHERE cart_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) GetItem(ctx context.Context, itemID int64) (*domain.CartItem, error) {
	var it domain.CartItem
	err := r.pool.QueryRow(ctx,
		`SELECT id, cart_id, product_id, quantity FROM cart_items WHERE id = $1`, itemID,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error) {
	// The (cart_id, product_id) constraint turns add into merge-on-add.
	const q = `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id, cart_id, product_id, quantity
`
	var it domain.CartItem
	err := r.pool.QueryRow(ctx, q, cartID, productID, quantity).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartItem, error) {
	const q = `
UPDATE cart_items SET quantity = $2
WHERE id = $1
RETURNING id, cart_id, product_id, quantity
`
	var it domain.CartItem
	err := r.pool.QueryRow(ctx, q, itemID, quantity).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, itemID int64) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) Clear(ctx context.Context, cartID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (r *postgresRepo) AssignUser(ctx context.Context, sessionID string, userID int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var guestCartID int64
	err = tx.QueryRow(ctx, `SELECT id FROM carts WHERE session_id = $1`, sessionID).Scan(&guestCartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	var userCartID int64
	err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) WHERE user_id IS NOT NULL
DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id
`, userID).Scan(&userCartID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity)
SELECT $1, product_id, quantity FROM cart_items WHERE cart_id = $2
ON CONFLICT (cart_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`, userCartID, guestCartID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, guestCartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	err := row.Scan(&cart.ID, &cart.UserID, &cart.SessionID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}
