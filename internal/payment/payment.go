// Package payment wraps the Stripe and PayPal APIs behind a provider-neutral
// verification interface. Checkout only trusts a payment the provider itself
// reports as completed.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotCompleted means the provider knows the payment but it has not
// succeeded (still processing, cancelled, or declined).
var ErrNotCompleted = errors.New("payment not completed")

// Verifier confirms with the provider that a payment finished successfully.
type Verifier interface {
	Verify(ctx context.Context, paymentID string) error
}

// Intent is a provider-side payment the client finishes in the browser.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret,omitempty"`
	ApproveURL   string `json:"approveUrl,omitempty"`
}

func formatCentsValue(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
