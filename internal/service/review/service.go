package review

import (
	"context"
	"errors"

	"healside/internal/domain"
	reviewrepo "healside/internal/repository/review"
)

// ErrInvalidRating rejects ratings outside the 1 to 5 range.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type productGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type Service struct {
	repo     reviewrepo.Repository
	products productGetter
}

func New(repo reviewrepo.Repository, products productGetter) *Service {
	return &Service{repo: repo, products: products}
}

// Create stores a review after checking the rating and that the product
// exists.
func (s *Service) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	if rv.Rating < 1 || rv.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.products.GetByID(ctx, rv.ProductID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, rv)
}

// ListByProduct returns a product's reviews, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	return s.repo.ListByProduct(ctx, productID)
}
