package order

import (
	"context"
	"errors"
	"io"
	"log"

	"healside/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, user_id, total_cents, status, shipping_address, shipping_city,
shipping_state, shipping_country, shipping_zip_code, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) PlaceOrder(ctx context.Context, o domain.Order, items []domain.OrderItem) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (user_id, total_cents, status, shipping_address, shipping_city, shipping_state, shipping_country, shipping_zip_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at
`
	err = tx.QueryRow(ctx, insertOrder,
		o.UserID, o.TotalCents, o.Status,
		o.ShippingAddress, o.ShippingCity, o.ShippingState, o.ShippingCountry, o.ShippingZipCode,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		r.logger.Printf("order repo: insert order user_id=%d error=%v", o.UserID, err)
		return nil, err
	}

	for i := range items {
		it := &items[i]
		it.OrderID = o.ID

		err = tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, price_cents)
VALUES ($1, $2, $3, $4)
RETURNING id
`, it.OrderID, it.ProductID, it.Quantity, it.PriceCents).Scan(&it.ID)
		if err != nil {
			return nil, err
		}

		// Conditional decrement; zero rows means another checkout won the
		// remaining stock between our pre-check and this commit.
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock_quantity = stock_quantity - $2,
    in_stock = stock_quantity - $2 > 0
WHERE id = $1 AND stock_quantity >= $2
`, it.ProductID, it.Quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			var name string
			var available int
			if scanErr := tx.QueryRow(ctx,
				`SELECT name, stock_quantity FROM products WHERE id = $1`, it.ProductID,
			).Scan(&name, &available); scanErr != nil {
				if errors.Is(scanErr, pgx.ErrNoRows) {
					return nil, domain.ErrNotFound
				}
				return nil, scanErr
			}
			return nil, &domain.InsufficientStockError{
				ProductID: it.ProductID,
				Name:      name,
				Available: available,
				Requested: it.Quantity,
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	o.Items = items
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *postgresRepo) Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, quantity, price_cents FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1 RETURNING `+orderColumns, id, status)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) Stats(ctx context.Context) (int64, int64, error) {
	var count, sales int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(total_cents), 0) FROM orders`).Scan(&count, &sales)
	return count, sales, err
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalCents, &o.Status,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingState, &o.ShippingCountry, &o.ShippingZipCode,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}
