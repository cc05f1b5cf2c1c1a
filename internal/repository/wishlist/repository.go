package wishlist

import (
	"context"

	"healside/internal/domain"
)

type Repository interface {
	Add(ctx context.Context, userID, productID int64) (*domain.Wishlist, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Wishlist, error)
	Remove(ctx context.Context, userID, productID int64) (bool, error)
	Exists(ctx context.Context, userID, productID int64) (bool, error)
}
