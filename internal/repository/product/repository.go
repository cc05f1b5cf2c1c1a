package product

import (
	"context"

	"healside/internal/domain"
)

// UpdateInput carries mutable product fields; nil means unchanged. A
// StockQuantity update re-derives in_stock in the same statement.
type UpdateInput struct {
	Name              *string
	PriceCents        *int64
	Description       *string
	Category          *domain.Category
	ImageURL          *string
	Supplier          *string
	Origin            *string
	StockQuantity     *int
	LowStockThreshold *int
}

type Repository interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// AdjustStock applies delta to stock_quantity and re-derives in_stock
	// atomically. A decrement past zero returns InsufficientStockError.
	AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error)
	LowStock(ctx context.Context) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
}
