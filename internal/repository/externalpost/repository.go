package externalpost

import (
	"context"

	"healside/internal/domain"
)

type Repository interface {
	// UpsertByLink inserts the post or, when the link is already cached,
	// returns the existing row untouched (original fetched_at preserved).
	UpsertByLink(ctx context.Context, post domain.ExternalPost) (*domain.ExternalPost, error)
	List(ctx context.Context, source string) ([]domain.ExternalPost, error)
	GetByID(ctx context.Context, id int64) (*domain.ExternalPost, error)
}
