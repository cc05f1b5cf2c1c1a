package wishlist

import (
	"context"
	"errors"

	"healside/internal/domain"
	wishlistrepo "healside/internal/repository/wishlist"
)

type productGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type Service struct {
	repo     wishlistrepo.Repository
	products productGetter
}

func New(repo wishlistrepo.Repository, products productGetter) *Service {
	return &Service{repo: repo, products: products}
}

// Add puts the product on the user's wishlist. A product already on the
// list returns domain.ErrAlreadyExists.
func (s *Service) Add(ctx context.Context, userID, productID int64) (*domain.Wishlist, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	entry.Product = p
	return entry, nil
}

// ListByUser returns the user's wishlist with product details attached.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Wishlist, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Product != nil {
			continue
		}
		p, err := s.products.GetByID(ctx, entries[i].ProductID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		entries[i].Product = p
	}
	return entries, nil
}

// Remove takes the product off the list. A missing entry returns
// domain.ErrNotFound.
func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}
	return nil
}

// Contains reports whether the product is on the user's wishlist.
func (s *Service) Contains(ctx context.Context, userID, productID int64) (bool, error) {
	return s.repo.Exists(ctx, userID, productID)
}
