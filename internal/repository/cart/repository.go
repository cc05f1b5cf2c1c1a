package cart

import (
	"context"

	"healside/internal/domain"
)

// Identity names a cart owner: exactly one of UserID or SessionID is set.
type Identity struct {
	UserID    *int64
	SessionID *string
}

type Repository interface {
	// GetOrCreate returns the live cart for the identity, creating it
	// atomically when absent; two racing calls resolve to the same cart.
	GetOrCreate(ctx context.Context, id Identity) (*domain.Cart, error)
	Get(ctx context.Context, id Identity) (*domain.Cart, error)

	Items(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	GetItem(ctx context.Context, itemID int64) (*domain.CartItem, error)
	// AddItem inserts a line or merges quantity into the existing line for
	// the same product.
	AddItem(ctx context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, itemID int64) (bool, error)
	Clear(ctx context.Context, cartID int64) error

	// AssignUser moves a guest cart's items onto the user's cart at login.
	AssignUser(ctx context.Context, sessionID string, userID int64) error
}
