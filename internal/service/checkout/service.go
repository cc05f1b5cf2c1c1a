// Package checkout turns a verified payment and a cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"healside/internal/domain"
	"healside/internal/notify"
	"healside/internal/payment"
	cartrepo "healside/internal/repository/cart"
	orderrepo "healside/internal/repository/order"
)

var (
	// ErrPaymentNotCompleted means the provider did not confirm the payment.
	ErrPaymentNotCompleted = errors.New("payment has not completed")
	// ErrCartNotFound means the user has no cart to check out.
	ErrCartNotFound = errors.New("cart not found")
	// ErrEmptyCart rejects checkout of a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnknownProvider rejects payment providers nobody registered.
	ErrUnknownProvider = errors.New("unknown payment provider")
)

type cartReader interface {
	Get(ctx context.Context, id cartrepo.Identity) (*domain.Cart, error)
	Items(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	Clear(ctx context.Context, cartID int64) error
}

type productReader interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	LowStock(ctx context.Context) ([]domain.Product, error)
}

type eventSink interface {
	Enqueue(ev notify.Event)
}

// Service orchestrates checkout: verify payment, snapshot the cart, place
// the order in one transaction, then notify and clear the cart.
type Service struct {
	carts      cartReader
	products   productReader
	orders     orderrepo.Repository
	verifiers  map[string]payment.Verifier
	events     eventSink
	adminEmail string
	logger     *log.Logger
}

func New(
	carts cartReader,
	products productReader,
	orders orderrepo.Repository,
	verifiers map[string]payment.Verifier,
	events eventSink,
	adminEmail string,
	logger *log.Logger,
) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:      carts,
		products:   products,
		orders:     orders,
		verifiers:  verifiers,
		events:     events,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Input is what the client submits to place an order.
type Input struct {
	Provider  string `json:"provider"`
	PaymentID string `json:"paymentId"`
	Address   string `json:"shippingAddress"`
	City      string `json:"shippingCity"`
	State     string `json:"shippingState"`
	Country   string `json:"shippingCountry"`
	ZipCode   string `json:"shippingZipCode"`
}

// Place checks out the user's cart. The order total is computed from current
// catalog prices and snapshotted into the order items; stock is decremented
// inside the same transaction that creates the order.
func (s *Service) Place(ctx context.Context, user *domain.User, in Input) (*domain.Order, error) {
	verifier, ok := s.verifiers[in.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, in.Provider)
	}
	if err := verifier.Verify(ctx, in.PaymentID); err != nil {
		if errors.Is(err, payment.ErrNotCompleted) {
			return nil, ErrPaymentNotCompleted
		}
		return nil, err
	}

	cart, err := s.carts.Get(ctx, cartrepo.Identity{UserID: &user.ID})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	lines, err := s.carts.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := domain.Order{
		UserID:          user.ID,
		Status:          domain.OrderStatusPaid,
		ShippingAddress: orDefault(in.Address, user.Address),
		ShippingCity:    orDefault(in.City, user.City),
		ShippingState:   orDefault(in.State, user.State),
		ShippingCountry: orDefault(in.Country, user.Country),
		ShippingZipCode: orDefault(in.ZipCode, user.ZipCode),
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		p, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.OrderItem{
			ProductID:  p.ID,
			Quantity:   line.Quantity,
			PriceCents: p.PriceCents,
		})
		order.TotalCents += p.PriceCents * int64(line.Quantity)
	}

	placed, err := s.orders.PlaceOrder(ctx, order, items)
	if err != nil {
		return nil, err
	}

	s.afterPlace(ctx, placed, user.Email)

	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		// The order exists; a leftover cart is an annoyance, not a failure.
		s.logger.Printf("checkout: clear cart %d after order %d: %v", cart.ID, placed.ID, err)
	}
	return placed, nil
}

func (s *Service) afterPlace(ctx context.Context, order *domain.Order, email string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(notify.OrderPlaced{Order: *order, Email: email})

	if s.adminEmail == "" {
		return
	}
	low, err := s.products.LowStock(ctx)
	if err != nil {
		s.logger.Printf("checkout: low stock query after order %d: %v", order.ID, err)
		return
	}
	if len(low) > 0 {
		s.events.Enqueue(notify.LowStock{Products: low, Email: s.adminEmail})
	}
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
