package blog

import (
	"context"

	"healside/internal/domain"
)

// UpdateInput carries mutable post fields; nil means unchanged.
type UpdateInput struct {
	Title     *string
	Slug      *string
	Excerpt   *string
	Content   *string
	ImageURL  *string
	Published *bool
}

type Repository interface {
	ListPublished(ctx context.Context) ([]domain.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	Create(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*domain.BlogPost, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
