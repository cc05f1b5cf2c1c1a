package newsletter

import (
	"context"

	"healside/internal/domain"
)

type Repository interface {
	// Subscribe inserts or reactivates the subscription for the email.
	Subscribe(ctx context.Context, email string) (*domain.NewsletterSubscription, error)
	// Unsubscribe flips is_active off and reports whether the email was known.
	Unsubscribe(ctx context.Context, email string) (bool, error)
}
