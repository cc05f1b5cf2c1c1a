package product

import (
	"context"
	"errors"
	"strings"

	"healside/internal/domain"
	productrepo "healside/internal/repository/product"
)

var (
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrNameRequired    = errors.New("name required")
)

// Service owns the catalog and the stock ledger built on top of it.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the catalog, optionally filtered to one category.
func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	if category != "" && !domain.Category(category).Valid() {
		return nil, ErrInvalidCategory
	}
	return s.repo.List(ctx, category)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int64, in productrepo.UpdateInput) (*domain.Product, error) {
	if in.Category != nil && !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if in.PriceCents != nil && *in.PriceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// CheckStock reports whether the product can currently satisfy the requested
// quantity. An unknown product is simply not available.
func (s *Service) CheckStock(ctx context.Context, productID int64, requested int) (bool, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.InStock && p.StockQuantity >= requested, nil
}

// AdjustStock applies a signed delta to the product's stock. A delta that
// would take stock below zero returns *domain.InsufficientStockError.
func (s *Service) AdjustStock(ctx context.Context, productID int64, delta int) (*domain.Product, error) {
	return s.repo.AdjustStock(ctx, productID, delta)
}

// LowStock lists products at or below their per-product threshold.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) LowStock(ctx context.Context) ([]domain.Product, error) {
	return s.repo.LowStock(ctx)
}

func validate(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.PriceCents <= 0 {
		return ErrInvalidPrice
	}
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
