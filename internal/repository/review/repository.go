package review

import (
	"context"

	"healside/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, rv domain.Review) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
}
