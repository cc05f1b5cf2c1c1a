package user

import (
	"context"

	"healside/internal/domain"
)

// UpdateProfileInput carries the mutable profile fields; nil means unchanged.
type UpdateProfileInput struct {
	Name            *string
	Address         *string
	City            *string
	State           *string
	Country         *string
	ZipCode         *string
	Phone           *string
	ProfileImageURL *string
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	GetByAppleID(ctx context.Context, appleID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*domain.User, error)
	LinkProvider(ctx context.Context, id int64, provider, subject string) error
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}
