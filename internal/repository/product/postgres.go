package product

import (
	"context"
	"errors"
	"io"
	"log"

	"healside/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, price_cents, description, category, image_url,
COALESCE(supplier, ''), COALESCE(origin, ''), in_stock, stock_quantity, low_stock_threshold`

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

func (r *postgresRepo) List(ctx context.Context, category string) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	args := []interface{}{}
	if category != "" {
		q = `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY id`
		args = append(args, category)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list category=%q error=%v", category, err)
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, price_cents, description, category, image_url, supplier, origin, in_stock, stock_quantity, low_stock_threshold)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8 > 0, $8, $9)
RETURNING id, in_stock
`
	threshold := p.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}
	err := r.pool.QueryRow(ctx, q,
		p.Name, p.PriceCents, p.Description, string(p.Category), p.ImageURL,
		p.Supplier, p.Origin, p.StockQuantity, threshold,
	).Scan(&p.ID, &p.InStock)
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	p.LowStockThreshold = threshold
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Product, error) {
	const q = `
UPDATE products SET
    name = COALESCE($2, name),
    price_cents = COALESCE($3, price_cents),
    description = COALESCE($4, description),
    category = COALESCE($5, category),
    image_url = COALESCE($6, image_url),
    supplier = COALESCE($7, supplier),
    origin = COALESCE($8, origin),
    stock_quantity = COALESCE($9, stock_quantity),
    low_stock_threshold = COALESCE($10, low_stock_threshold),
    in_stock = COALESCE($9, stock_quantity) > 0
WHERE id = $1
RETURNING ` + productColumns
	var category *string
	if in.Category != nil {
		s := string(*in.Category)
		category = &s
	}
	row := r.pool.QueryRow(ctx, q, id,
		in.Name, in.PriceCents, in.Description, category, in.ImageURL,
		in.Supplier, in.Origin, in.StockQuantity, in.LowStockThreshold,
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%d error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	// The guard on negative deltas makes decrement-if-sufficient atomic;
	// concurrent checkouts cannot both take the last unit.
	const q = `
UPDATE products
SET stock_quantity = stock_quantity + $2,
    in_stock = stock_quantity + $2 > 0
WHERE id = $1 AND stock_quantity + $2 >= 0
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q, id, delta)
	p, err := scanProduct(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Printf("product repo: adjust stock id=%d delta=%d error=%v", id, delta, err)
		return nil, err
	}

	// No row updated: either the product is gone or stock was insufficient.
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, &domain.InsufficientStockError{
		ProductID: id,
		Name:      current.Name,
		Available: current.StockQuantity,
		Requested: -delta,
	}
}

func (r *postgresRepo) LowStock(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE stock_quantity <= low_stock_threshold ORDER BY stock_quantity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var category string
	err := row.Scan(
		&p.ID, &p.Name, &p.PriceCents, &p.Description, &category, &p.ImageURL,
		&p.Supplier, &p.Origin, &p.InStock, &p.StockQuantity, &p.LowStockThreshold,
	)
	if err != nil {
		return nil, err
	}
	p.Category = domain.Category(category)
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}
