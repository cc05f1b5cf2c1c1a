package order

import (
	"context"

	"healside/internal/domain"
)

type Repository interface {
	// PlaceOrder inserts the order, its items, and applies every stock
	// decrement in one transaction. Any failed decrement rolls the whole
	// attempt back and surfaces InsufficientStockError; no partial order
	// can be observed.
	PlaceOrder(ctx context.Context, o domain.Order, items []domain.OrderItem) (*domain.Order, error)

	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
	Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	Stats(ctx context.Context) (count int64, salesCents int64, err error)
}
