package cart

import (
	"context"
	"errors"
	"testing"

	"healside/internal/domain"
	cartrepo "healside/internal/repository/cart"
)

type stubProducts struct {
	products map[int64]*domain.Product
}

func (s *stubProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

type stubCartRepo struct {
	carts      map[string]*domain.Cart
	items      map[int64]*domain.CartItem
	nextCartID int64
	nextItemID int64
	assigned   []string
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts: map[string]*domain.Cart{}, items: map[int64]*domain.CartItem{},
		nextCartID: 1, nextItemID: 1,
	}
}

func identityKey(id cartrepo.Identity) string {
	if id.UserID != nil {
		return "u"
	}
	return "s:" + *id.SessionID
}

func (s *stubCartRepo) GetOrCreate(_ context.Context, id cartrepo.Identity) (*domain.Cart, error) {
	key := identityKey(id)
	if c, ok := s.carts[key]; ok {
		return c, nil
	}
	c := &domain.Cart{ID: s.nextCartID, UserID: id.UserID, SessionID: id.SessionID}
	s.nextCartID++
	s.carts[key] = c
	return c, nil
}

func (s *stubCartRepo) Get(_ context.Context, id cartrepo.Identity) (*domain.Cart, error) {
	if c, ok := s.carts[identityKey(id)]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCartRepo) Items(_ context.Context, cartID int64) ([]domain.CartItem, error) {
	var out []domain.CartItem
	for _, it := range s.items {
		if it.CartID == cartID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *stubCartRepo) GetItem(_ context.Context, itemID int64) (*domain.CartItem, error) {
	if it, ok := s.items[itemID]; ok {
		return it, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCartRepo) AddItem(_ context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error) {
	for _, it := range s.items {
		if it.CartID == cartID && it.ProductID == productID {
			it.Quantity += quantity
			cp := *it
			return &cp, nil
		}
	}
	it := &domain.CartItem{ID: s.nextItemID, CartID: cartID, ProductID: productID, Quantity: quantity}
	s.nextItemID++
	s.items[it.ID] = it
	cp := *it
	return &cp, nil
}

func (s *stubCartRepo) UpdateItemQuantity(_ context.Context, itemID int64, quantity int) (*domain.CartItem, error) {
	it, ok := s.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	it.Quantity = quantity
	cp := *it
	return &cp, nil
}

func (s *stubCartRepo) RemoveItem(_ context.Context, itemID int64) (bool, error) {
	if _, ok := s.items[itemID]; !ok {
		return false, nil
	}
	delete(s.items, itemID)
	return true, nil
}

func (s *stubCartRepo) Clear(_ context.Context, cartID int64) error {
	for id, it := range s.items {
		if it.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *stubCartRepo) AssignUser(_ context.Context, sessionID string, _ int64) error {
	s.assigned = append(s.assigned, sessionID)
	return nil
}

func testService() (*Service, *stubCartRepo) {
	repo := newStubCartRepo()
	products := &stubProducts{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Lavender Tea", PriceCents: 500, InStock: true, StockQuantity: 10},
		2: {ID: 2, Name: "Jade Roller", PriceCents: 2200, InStock: true, StockQuantity: 4},
	}}
	return New(repo, products), repo
}

func guest(sessionID string) cartrepo.Identity {
	return cartrepo.Identity{SessionID: &sessionID}
}

func TestAddItemCreatesCartAndMergesLines(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()
	id := guest("sess-1")

	item, err := svc.AddItem(ctx, id, 1, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Quantity != 2 || item.Product == nil {
		t.Fatalf("item = %+v", item)
	}

	// Adding the same product again merges into one line.
	item, err = svc.AddItem(ctx, id, 1, 3)
	if err != nil {
		t.Fatalf("second AddItem: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("merged quantity = %d, want 5", item.Quantity)
	}

	view, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(view.Items))
	}
	if view.TotalCents != 2500 {
		t.Fatalf("TotalCents = %d, want 2500", view.TotalCents)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := testService()
	if _, err := svc.AddItem(context.Background(), guest("sess-1"), 99, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	svc, _ := testService()
	item, err := svc.AddItem(context.Background(), guest("sess-1"), 2, 0)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Quantity != 1 {
		t.Fatalf("quantity = %d, want 1", item.Quantity)
	}
}

func TestUpdateItemQuantityRejectsZero(t *testing.T) {
	svc, _ := testService()
	item, _ := svc.AddItem(context.Background(), guest("sess-1"), 1, 2)

	if _, err := svc.UpdateItemQuantity(context.Background(), item.ID, 0); !errors.Is(err, ErrQuantityTooLow) {
		t.Fatalf("expected ErrQuantityTooLow, got %v", err)
	}
	updated, err := svc.UpdateItemQuantity(context.Background(), item.ID, 7)
	if err != nil {
		t.Fatalf("UpdateItemQuantity: %v", err)
	}
	if updated.Quantity != 7 {
		t.Fatalf("quantity = %d, want 7", updated.Quantity)
	}
}

func TestRemoveItemReportsMissingLine(t *testing.T) {
	svc, _ := testService()
	item, _ := svc.AddItem(context.Background(), guest("sess-1"), 1, 1)

	if err := svc.RemoveItem(context.Background(), item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := svc.RemoveItem(context.Background(), item.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second RemoveItem = %v, want ErrNotFound", err)
	}
}

func TestClearMissingCartIsNoop(t *testing.T) {
	svc, _ := testService()
	if err := svc.Clear(context.Background(), guest("nope")); err != nil {
		t.Fatalf("Clear: %v", err)
	}
}

func TestGetRequiresIdentity(t *testing.T) {
	svc, _ := testService()
	if _, err := svc.Get(context.Background(), cartrepo.Identity{}); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestMergeGuestCart(t *testing.T) {
	svc, repo := testService()
	if err := svc.MergeGuestCart(context.Background(), "sess-1", 42); err != nil {
		t.Fatalf("MergeGuestCart: %v", err)
	}
	if len(repo.assigned) != 1 || repo.assigned[0] != "sess-1" {
		t.Fatalf("assigned = %v", repo.assigned)
	}
	// An empty session id means there is nothing to merge.
	if err := svc.MergeGuestCart(context.Background(), "", 42); err != nil {
		t.Fatalf("empty session: %v", err)
	}
	if len(repo.assigned) != 1 {
		t.Fatal("empty session must not hit the repository")
	}
}
