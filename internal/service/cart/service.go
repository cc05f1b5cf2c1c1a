package cart

import (
	"context"
	"errors"

	"healside/internal/domain"
	cartrepo "healside/internal/repository/cart"
)

var (
	// ErrQuantityTooLow rejects quantities below one.
	ErrQuantityTooLow = errors.New("quantity must be at least 1")
	// ErrNoIdentity means neither a user nor a guest session was supplied.
	ErrNoIdentity = errors.New("cart identity required")
)

type productGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Service manages one live cart per user or guest session.
type Service struct {
	repo     cartrepo.Repository
	products productGetter
}

func New(repo cartrepo.Repository, products productGetter) *Service {
	return &Service{repo: repo, products: products}
}

// View is a cart with its lines and their total.
type View struct {
	Cart       domain.Cart       `json:"cart"`
	Items      []domain.CartItem `json:"items"`
	TotalCents int64             `json:"totalCents"`
}

// Get returns the identity's cart with product details on every line. A
// missing cart returns domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id cartrepo.Identity) (*View, error) {
	if err := checkIdentity(id); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// AddItem puts quantity of the product into the identity's cart, creating the
// cart when absent and merging into an existing line for the same product.
func (s *Service) AddItem(ctx context.Context, id cartrepo.Identity, productID int64, quantity int) (*domain.CartItem, error) {
	if err := checkIdentity(id); err != nil {
		return nil, err
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, ErrQuantityTooLow
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.AddItem(ctx, c.ID, productID, quantity)
	if err != nil {
		return nil, err
	}
	item.Product = p
	return item, nil
}

// UpdateItemQuantity sets a line's quantity. Removal goes through RemoveItem,
// not a zero quantity.
func (s *Service) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrQuantityTooLow
	}
	return s.repo.UpdateItemQuantity(ctx, itemID, quantity)
}

// RemoveItem deletes a line. A line that does not exist, including one
// already removed, returns domain.ErrNotFound.
func (s *Service) RemoveItem(ctx context.Context, itemID int64) error {
	removed, err := s.repo.RemoveItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}
	return nil
}

// Clear empties the identity's cart. A missing cart is already empty.
func (s *Service) Clear(ctx context.Context, id cartrepo.Identity) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.repo.Clear(ctx, c.ID)
}

// MergeGuestCart folds a guest session's cart into the user's cart at login.
func (s *Service) MergeGuestCart(ctx context.Context, sessionID string, userID int64) error {
	if sessionID == "" {
		return nil
	}
	return s.repo.AssignUser(ctx, sessionID, userID)
}

func (s *Service) view(ctx context.Context, c *domain.Cart) (*View, error) {
	items, err := s.repo.Items(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	v := &View{Cart: *c, Items: items}
	for i := range v.Items {
		if v.Items[i].Product == nil {
			p, err := s.products.GetByID(ctx, v.Items[i].ProductID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			v.Items[i].Product = p
		}
		if v.Items[i].Product != nil {
			v.TotalCents += v.Items[i].Product.PriceCents * int64(v.Items[i].Quantity)
		}
	}
	return v, nil
}

func checkIdentity(id cartrepo.Identity) error {
	if id.UserID == nil && (id.SessionID == nil || *id.SessionID == "") {
		return ErrNoIdentity
	}
	return nil
}
