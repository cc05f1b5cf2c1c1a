package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"healside/internal/domain"
	"healside/internal/payment"
	cartrepo "healside/internal/repository/cart"
	productrepo "healside/internal/repository/product"
	userrepo "healside/internal/repository/user"
	"healside/internal/service/auth"
	"healside/internal/service/cart"
	"healside/internal/service/checkout"
	"healside/internal/service/newsletter"
	"healside/internal/service/product"
	"healside/internal/service/review"
	"healside/internal/service/wishlist"
	"github.com/gin-gonic/gin"
)

// ---- in-memory repositories -------------------------------------------------

type memUsers struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMemUsers() *memUsers { return &memUsers{users: map[int64]*domain.User{}, nextID: 1} }

func (m *memUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, e := range m.users {
		if e.Username == u.Username || e.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = &u
	return &u, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByGoogleID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByAppleID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.AppleID != nil && *u.AppleID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) UpdateProfile(_ context.Context, id int64, in userrepo.UpdateProfileInput) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.City != nil {
		u.City = *in.City
	}
	return u, nil
}

func (m *memUsers) LinkProvider(_ context.Context, id int64, provider, subject string) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if provider == "google" {
		u.GoogleID = &subject
	} else {
		u.AppleID = &subject
	}
	return nil
}

func (m *memUsers) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) Count(_ context.Context) (int64, error) { return int64(len(m.users)), nil }

type memProducts struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMemProducts(seed ...domain.Product) *memProducts {
	m := &memProducts{products: map[int64]*domain.Product{}, nextID: 1}
	for i := range seed {
		p := seed[i]
		p.ID = m.nextID
		m.nextID++
		m.products[p.ID] = &p
	}
	return m
}

func (m *memProducts) List(_ context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if category == "" || string(p.Category) == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if p, ok := m.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memProducts) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = m.nextID
	m.nextID++
	p.InStock = p.StockQuantity > 0
	m.products[p.ID] = &p
	return &p, nil
}

func (m *memProducts) Update(_ context.Context, id int64, in productrepo.UpdateInput) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.PriceCents != nil {
		p.PriceCents = *in.PriceCents
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
		p.InStock = p.StockQuantity > 0
	}
	return p, nil
}

func (m *memProducts) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.products[id]; !ok {
		return false, nil
	}
	delete(m.products, id)
	return true, nil
}

func (m *memProducts) AdjustStock(_ context.Context, id int64, delta int) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.StockQuantity+delta < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: id, Name: p.Name, Available: p.StockQuantity, Requested: -delta,
		}
	}
	p.StockQuantity += delta
	p.InStock = p.StockQuantity > 0
	cp := *p
	return &cp, nil
}

func (m *memProducts) LowStock(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if p.StockQuantity <= p.LowStockThreshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Count(_ context.Context) (int64, error) { return int64(len(m.products)), nil }

type memCarts struct {
	carts      map[string]*domain.Cart
	items      map[int64]*domain.CartItem
	nextCartID int64
	nextItemID int64
}

func newMemCarts() *memCarts {
	return &memCarts{
		carts: map[string]*domain.Cart{}, items: map[int64]*domain.CartItem{},
		nextCartID: 1, nextItemID: 1,
	}
}

func cartKey(id cartrepo.Identity) string {
	if id.UserID != nil {
		return "u:" + strconv.FormatInt(*id.UserID, 10)
	}
	return "s:" + *id.SessionID
}

func (m *memCarts) GetOrCreate(_ context.Context, id cartrepo.Identity) (*domain.Cart, error) {
	key := cartKey(id)
	if c, ok := m.carts[key]; ok {
		return c, nil
	}
	c := &domain.Cart{ID: m.nextCartID, UserID: id.UserID, SessionID: id.SessionID}
	m.nextCartID++
	m.carts[key] = c
	return c, nil
}

func (m *memCarts) Get(_ context.Context, id cartrepo.Identity) (*domain.Cart, error) {
	if c, ok := m.carts[cartKey(id)]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memCarts) Items(_ context.Context, cartID int64) ([]domain.CartItem, error) {
	var out []domain.CartItem
	for _, it := range m.items {
		if it.CartID == cartID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memCarts) GetItem(_ context.Context, itemID int64) (*domain.CartItem, error) {
	if it, ok := m.items[itemID]; ok {
		return it, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memCarts) AddItem(_ context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error) {
	for _, it := range m.items {
		if it.CartID == cartID && it.ProductID == productID {
			it.Quantity += quantity
			cp := *it
			return &cp, nil
		}
	}
	it := &domain.CartItem{ID: m.nextItemID, CartID: cartID, ProductID: productID, Quantity: quantity}
	m.nextItemID++
	m.items[it.ID] = it
	cp := *it
	return &cp, nil
}

func (m *memCarts) UpdateItemQuantity(_ context.Context, itemID int64, quantity int) (*domain.CartItem, error) {
	it, ok := m.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	it.Quantity = quantity
	cp := *it
	return &cp, nil
}

func (m *memCarts) RemoveItem(_ context.Context, itemID int64) (bool, error) {
	if _, ok := m.items[itemID]; !ok {
		return false, nil
	}
	delete(m.items, itemID)
	return true, nil
}

func (m *memCarts) Clear(_ context.Context, cartID int64) error {
	for id, it := range m.items {
		if it.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *memCarts) AssignUser(_ context.Context, sessionID string, userID int64) error {
	guestKey := "s:" + sessionID
	guest, ok := m.carts[guestKey]
	if !ok {
		return nil
	}
	userCart, err := m.GetOrCreate(context.Background(), cartrepo.Identity{UserID: &userID})
	if err != nil {
		return err
	}
	for _, it := range m.items {
		if it.CartID == guest.ID {
			it.CartID = userCart.ID
		}
	}
	delete(m.carts, guestKey)
	return nil
}

type memOrders struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newMemOrders() *memOrders { return &memOrders{orders: map[int64]*domain.Order{}, nextID: 1} }

func (m *memOrders) PlaceOrder(_ context.Context, o domain.Order, items []domain.OrderItem) (*domain.Order, error) {
	o.ID = m.nextID
	m.nextID++
	o.CreatedAt = time.Now().UTC()
	for i := range items {
		items[i].OrderID = o.ID
		items[i].ID = int64(i + 1)
	}
	o.Items = items
	m.orders[o.ID] = &o
	return &o, nil
}

func (m *memOrders) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if o, ok := m.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memOrders) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) List(_ context.Context, _ int) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memOrders) Items(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	if o, ok := m.orders[orderID]; ok {
		return o.Items, nil
	}
	return nil, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id int64, status string) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (m *memOrders) Stats(_ context.Context) (int64, int64, error) {
	var sales int64
	for _, o := range m.orders {
		sales += o.TotalCents
	}
	return int64(len(m.orders)), sales, nil
}

type memReviews struct{ reviews []domain.Review }

func (m *memReviews) Create(_ context.Context, rv domain.Review) (*domain.Review, error) {
	rv.ID = int64(len(m.reviews) + 1)
	m.reviews = append(m.reviews, rv)
	return &rv, nil
}

func (m *memReviews) ListByProduct(_ context.Context, productID int64) ([]domain.Review, error) {
	var out []domain.Review
	for _, rv := range m.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}

type memWishlist struct {
	entries []domain.Wishlist
}

func (m *memWishlist) Add(_ context.Context, userID, productID int64) (*domain.Wishlist, error) {
	for _, e := range m.entries {
		if e.UserID == userID && e.ProductID == productID {
			return nil, domain.ErrAlreadyExists
		}
	}
	e := domain.Wishlist{ID: int64(len(m.entries) + 1), UserID: userID, ProductID: productID}
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memWishlist) ListByUser(_ context.Context, userID int64) ([]domain.Wishlist, error) {
	var out []domain.Wishlist
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memWishlist) Remove(_ context.Context, userID, productID int64) (bool, error) {
	for i, e := range m.entries {
		if e.UserID == userID && e.ProductID == productID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memWishlist) Exists(_ context.Context, userID, productID int64) (bool, error) {
	for _, e := range m.entries {
		if e.UserID == userID && e.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

type memNewsletter struct{ active map[string]bool }

func (m *memNewsletter) Subscribe(_ context.Context, email string) (*domain.NewsletterSubscription, error) {
	m.active[email] = true
	return &domain.NewsletterSubscription{ID: 1, Email: email, IsActive: true}, nil
}

func (m *memNewsletter) Unsubscribe(_ context.Context, email string) (bool, error) {
	if _, ok := m.active[email]; !ok {
		return false, nil
	}
	m.active[email] = false
	return true, nil
}

type okVerifier struct{ err error }

func (v okVerifier) Verify(_ context.Context, _ string) error { return v.err }

// ---- fixture ---------------------------------------------------------------

type apiFixture struct {
	router   *gin.Engine
	users    *memUsers
	products *memProducts
	carts    *memCarts
	orders   *memOrders
	authSvc  *auth.Service
	verifier *okVerifier
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemUsers()
	products := newMemProducts(
		domain.Product{Name: "Lavender Tea", PriceCents: 500, Category: domain.CategoryRelaxation, StockQuantity: 10, InStock: true, LowStockThreshold: 2},
		domain.Product{Name: "Jade Roller", PriceCents: 2200, Category: domain.CategorySkincare, StockQuantity: 4, InStock: true, LowStockThreshold: 2},
	)
	carts := newMemCarts()
	orders := newMemOrders()
	verifier := &okVerifier{}

	authSvc := auth.New(users, "test-secret", time.Hour)
	productSvc := product.New(products)
	cartSvc := cart.New(carts, products)
	checkoutSvc := checkout.New(carts, productSvc, orders,
		map[string]payment.Verifier{"stripe": verifier}, nil, "", nil)

	deps := Deps{
		Auth:       authSvc,
		Products:   productSvc,
		Carts:      cartSvc,
		Checkout:   checkoutSvc,
		Orders:     orders,
		Users:      users,
		Reviews:    review.New(&memReviews{}, products),
		Wishlist:   wishlist.New(&memWishlist{}, products),
		Newsletter: newsletter.New(&memNewsletter{active: map[string]bool{}}),
	}

	logger := log.New(io.Discard, "", 0)
	return &apiFixture{
		router:   buildRouter(logger, nil, deps),
		users:    users,
		products: products,
		carts:    carts,
		orders:   orders,
		authSvc:  authSvc,
		verifier: verifier,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) tokenFor(t *testing.T, u *domain.User) string {
	t.Helper()
	token, err := f.authSvc.IssueToken(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (f *apiFixture) newUser(t *testing.T, username string, admin bool) (*domain.User, string) {
	t.Helper()
	u, err := f.users.Create(context.Background(), domain.User{
		Username: username, Email: username + "@example.com", IsAdmin: admin,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u, f.tokenFor(t, u)
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// ---- tests -----------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/register", gin.H{
		"username": "zoe", "email": "zoe@example.com", "password": "Sunlight7pass",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d body=%s", w.Code, w.Body)
	}

	w = f.do(t, http.MethodPost, "/api/login", gin.H{
		"username": "zoe", "password": "Sunlight7pass",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", w.Code, w.Body)
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" || resp.User.Username != "zoe" {
		t.Fatalf("resp = %+v", resp)
	}

	w = f.do(t, http.MethodGet, "/api/user", nil, authHeader(resp.Token))
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}
}

func TestLoginBadPassword(t *testing.T) {
	f := newAPIFixture(t)
	f.do(t, http.MethodPost, "/api/register", gin.H{
		"username": "zoe", "email": "zoe@example.com", "password": "Sunlight7pass",
	}, nil)

	w := f.do(t, http.MethodPost, "/api/login", gin.H{"username": "zoe", "password": "nope"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/products", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var products []domain.Product
	json.Unmarshal(w.Body.Bytes(), &products)
	if len(products) != 2 {
		t.Fatalf("got %d products", len(products))
	}

	w = f.do(t, http.MethodGet, "/api/products?category=Skincare", nil, nil)
	json.Unmarshal(w.Body.Bytes(), &products)
	if len(products) != 1 || products[0].Name != "Jade Roller" {
		t.Fatalf("filtered = %+v", products)
	}

	if w := f.do(t, http.MethodGet, "/api/products?category=Gadgets", nil, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown category status = %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/products/999", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing product status = %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/products/abc", nil, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("garbage id status = %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/categories", nil, nil)
	var categories []string
	json.Unmarshal(w.Body.Bytes(), &categories)
	if len(categories) != 4 {
		t.Fatalf("categories = %v", categories)
	}
}

func TestNewSession(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/session", nil, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("empty session id")
	}
}

func TestGuestCartFlow(t *testing.T) {
	f := newAPIFixture(t)
	session := map[string]string{sessionHeader: "guest-1"}

	// Empty cart reads as empty, not as an error.
	w := f.do(t, http.MethodGet, "/api/cart", nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("empty cart status = %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": 1, "quantity": 2}, session)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d body=%s", w.Code, w.Body)
	}
	var item domain.CartItem
	json.Unmarshal(w.Body.Bytes(), &item)

	w = f.do(t, http.MethodGet, "/api/cart", nil, session)
	var view struct {
		Items      []domain.CartItem `json:"items"`
		TotalCents int64             `json:"totalCents"`
	}
	json.Unmarshal(w.Body.Bytes(), &view)
	if len(view.Items) != 1 || view.TotalCents != 1000 {
		t.Fatalf("view = %+v", view)
	}

	if w := f.do(t, http.MethodDelete, "/api/cart/items/"+itoa(item.ID), nil, session); w.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d", w.Code)
	}

	// Deleting the same line again reports there was nothing to remove.
	if w := f.do(t, http.MethodDelete, "/api/cart/items/"+itoa(item.ID), nil, session); w.Code != http.StatusNotFound {
		t.Fatalf("second remove status = %d", w.Code)
	}

	// No identity at all is rejected.
	if w := f.do(t, http.MethodGet, "/api/cart", nil, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("no identity status = %d", w.Code)
	}
}

func TestCheckoutFlow(t *testing.T) {
	f := newAPIFixture(t)
	user, token := f.newUser(t, "zoe", false)

	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": 1, "quantity": 2}, authHeader(token))

	w := f.do(t, http.MethodPost, "/api/checkout", gin.H{
		"provider": "stripe", "paymentId": "pi_1", "shippingAddress": "1 Calm St",
	}, authHeader(token))
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d body=%s", w.Code, w.Body)
	}
	var order domain.Order
	json.Unmarshal(w.Body.Bytes(), &order)
	if order.TotalCents != 1000 || order.UserID != user.ID {
		t.Fatalf("order = %+v", order)
	}

	w = f.do(t, http.MethodGet, "/api/orders", nil, authHeader(token))
	var orders []domain.Order
	json.Unmarshal(w.Body.Bytes(), &orders)
	if len(orders) != 1 {
		t.Fatalf("orders = %+v", orders)
	}

	// The cart is gone after checkout; second attempt has nothing to buy.
	w = f.do(t, http.MethodPost, "/api/checkout", gin.H{
		"provider": "stripe", "paymentId": "pi_2",
	}, authHeader(token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart checkout status = %d body=%s", w.Code, w.Body)
	}
}

func TestCheckoutFailedPayment(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser(t, "zoe", false)
	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": 1, "quantity": 1}, authHeader(token))

	f.verifier.err = payment.ErrNotCompleted
	w := f.do(t, http.MethodPost, "/api/checkout", gin.H{"provider": "stripe", "paymentId": "pi_1"}, authHeader(token))
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
	if len(f.orders.orders) != 0 {
		t.Fatal("order created despite failed payment")
	}
}

func TestOrderOwnership(t *testing.T) {
	f := newAPIFixture(t)
	_, zoeToken := f.newUser(t, "zoe", false)
	_, maxToken := f.newUser(t, "max", false)

	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": 1, "quantity": 1}, authHeader(zoeToken))
	w := f.do(t, http.MethodPost, "/api/checkout", gin.H{"provider": "stripe", "paymentId": "pi"}, authHeader(zoeToken))
	var order domain.Order
	json.Unmarshal(w.Body.Bytes(), &order)

	if w := f.do(t, http.MethodGet, "/api/orders/"+itoa(order.ID), nil, authHeader(zoeToken)); w.Code != http.StatusOK {
		t.Fatalf("owner status = %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/orders/"+itoa(order.ID), nil, authHeader(maxToken)); w.Code != http.StatusNotFound {
		t.Fatalf("other user status = %d", w.Code)
	}
}

func TestAdminGate(t *testing.T) {
	f := newAPIFixture(t)
	_, userToken := f.newUser(t, "zoe", false)
	_, adminToken := f.newUser(t, "root", true)

	body := gin.H{"name": "Sage Bundle", "priceCents": 900, "category": "Spirituality"}

	if w := f.do(t, http.MethodPost, "/api/admin/products", body, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/admin/products", body, authHeader(userToken)); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin status = %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/admin/products", body, authHeader(adminToken)); w.Code != http.StatusCreated {
		t.Fatalf("admin status = %d body=%s", w.Code, w.Body)
	}

	if w := f.do(t, http.MethodGet, "/api/admin/dashboard", nil, authHeader(adminToken)); w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
}

func TestAdminStockAdjust(t *testing.T) {
	f := newAPIFixture(t)
	_, adminToken := f.newUser(t, "root", true)

	w := f.do(t, http.MethodPost, "/api/admin/products/1/stock", gin.H{"delta": -4}, authHeader(adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("adjust status = %d body=%s", w.Code, w.Body)
	}

	// Draining past zero is a conflict, not a silent clamp.
	w = f.do(t, http.MethodPost, "/api/admin/products/1/stock", gin.H{"delta": -100}, authHeader(adminToken))
	if w.Code != http.StatusConflict {
		t.Fatalf("overdraw status = %d body=%s", w.Code, w.Body)
	}
}

func TestReviewEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser(t, "zoe", false)

	w := f.do(t, http.MethodPost, "/api/products/1/reviews", gin.H{"rating": 5, "comment": "Lovely"}, authHeader(token))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body)
	}
	if w := f.do(t, http.MethodPost, "/api/products/1/reviews", gin.H{"rating": 9}, authHeader(token)); w.Code != http.StatusBadRequest {
		t.Fatalf("bad rating status = %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/products/1/reviews", nil, nil)
	var reviews []domain.Review
	json.Unmarshal(w.Body.Bytes(), &reviews)
	if len(reviews) != 1 {
		t.Fatalf("reviews = %+v", reviews)
	}
}

func TestWishlistEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser(t, "zoe", false)

	if w := f.do(t, http.MethodPost, "/api/wishlist/2", nil, authHeader(token)); w.Code != http.StatusCreated {
		t.Fatalf("add status = %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/wishlist/2", nil, authHeader(token)); w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", w.Code)
	}

	var check struct {
		InWishlist bool `json:"inWishlist"`
	}
	w := f.do(t, http.MethodGet, "/api/wishlist/check/2", nil, authHeader(token))
	if w.Code != http.StatusOK {
		t.Fatalf("check status = %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &check)
	if !check.InWishlist {
		t.Fatalf("check = %+v, want inWishlist true", check)
	}
	w = f.do(t, http.MethodGet, "/api/wishlist/check/1", nil, authHeader(token))
	json.Unmarshal(w.Body.Bytes(), &check)
	if check.InWishlist {
		t.Fatalf("check = %+v, want inWishlist false", check)
	}

	if w := f.do(t, http.MethodDelete, "/api/wishlist/2", nil, authHeader(token)); w.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/api/wishlist/2", nil, authHeader(token)); w.Code != http.StatusNotFound {
		t.Fatalf("second remove status = %d", w.Code)
	}
}

func TestNewsletterEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	if w := f.do(t, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": "zoe@example.com"}, nil); w.Code != http.StatusCreated {
		t.Fatalf("subscribe status = %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": "not-an-email"}, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad email status = %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/newsletter/unsubscribe", gin.H{"email": "nobody@example.com"}, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown unsubscribe status = %d", w.Code)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
