package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Stripe verifies and creates PaymentIntents.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(secretKey, webhookSecret string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api, webhookSecret: webhookSecret}
}

// CreateIntent opens a PaymentIntent for the given amount. The returned
// client secret lets the browser confirm the payment with Stripe directly.
func (s *Stripe) CreateIntent(ctx context.Context, amountCents int64, currency string) (*Intent, error) {
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Verify checks that the PaymentIntent reached status succeeded.
func (s *Stripe) Verify(ctx context.Context, paymentID string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(paymentID, params)
	if err != nil {
		return fmt.Errorf("stripe: fetch intent %s: %w", paymentID, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: intent %s is %s", ErrNotCompleted, paymentID, pi.Status)
	}
	return nil
}

// IntentStatus reports the current status and amount of a PaymentIntent.
func (s *Stripe) IntentStatus(ctx context.Context, paymentID string) (string, int64, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(paymentID, params)
	if err != nil {
		return "", 0, fmt.Errorf("stripe: fetch intent %s: %w", paymentID, err)
	}
	return string(pi.Status), pi.Amount, nil
}

// ParseWebhook validates a webhook payload's signature and returns the event.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}
