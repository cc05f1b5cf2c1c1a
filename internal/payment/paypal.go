package payment

import (
	"context"
	"fmt"

	paypal "github.com/plutov/paypal/v4"
)

// PayPal verifies and creates PayPal orders.
type PayPal struct {
	client *paypal.Client
}

func NewPayPal(clientID, secret string, live bool) (*PayPal, error) {
	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}
	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("paypal: %w", err)
	}
	return &PayPal{client: c}, nil
}

// CreateOrder opens a capture-intent order for the given amount.
func (p *PayPal) CreateOrder(ctx context.Context, amountCents int64, currency string) (*Intent, error) {
	if currency == "" {
		currency = "USD"
	}
	if _, err := p.client.GetAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("paypal: token: %w", err)
	}

	order, err := p.client.CreateOrder(ctx, paypal.OrderIntentCapture, []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: currency,
				Value:    formatCentsValue(amountCents),
			},
		},
	}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("paypal: create order: %w", err)
	}

	intent := &Intent{ID: order.ID}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			intent.ApproveURL = link.Href
		}
	}
	return intent, nil
}

// Capture captures an approved order.
func (p *PayPal) Capture(ctx context.Context, orderID string) error {
	if _, err := p.client.GetAccessToken(ctx); err != nil {
		return fmt.Errorf("paypal: token: %w", err)
	}
	res, err := p.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return fmt.Errorf("paypal: capture order %s: %w", orderID, err)
	}
	if res.Status != "COMPLETED" {
		return fmt.Errorf("%w: order %s is %s after capture", ErrNotCompleted, orderID, res.Status)
	}
	return nil
}

// Verify checks that the order was captured.
func (p *PayPal) Verify(ctx context.Context, paymentID string) error {
	if _, err := p.client.GetAccessToken(ctx); err != nil {
		return fmt.Errorf("paypal: token: %w", err)
	}
	order, err := p.client.GetOrder(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("paypal: fetch order %s: %w", paymentID, err)
	}
	if order.Status != "COMPLETED" {
		return fmt.Errorf("%w: order %s is %s", ErrNotCompleted, paymentID, order.Status)
	}
	return nil
}
