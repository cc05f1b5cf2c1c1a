package domain

import "time"

// Cart belongs to exactly one of a registered user or a guest session.
type Cart struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId,omitempty"`
	SessionID *string   `json:"sessionId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItem is a line item; (CartID, ProductID) is unique per cart and adds
// for an existing product merge into the row's quantity.
type CartItem struct {
	ID        int64    `json:"id"`
	CartID    int64    `json:"cartId"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}
