package domain

import "time"

// Order statuses as they progress through fulfilment.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order snapshots a cart at checkout time. TotalCents equals the sum of its
// item snapshots; later catalog price changes never affect past orders.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	TotalCents      int64       `json:"totalCents"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	ShippingCity    string      `json:"shippingCity"`
	ShippingState   string      `json:"shippingState"`
	ShippingCountry string      `json:"shippingCountry"`
	ShippingZipCode string      `json:"shippingZipCode"`
	CreatedAt       time.Time   `json:"createdAt"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem carries the price of the product at the instant of checkout.
type OrderItem struct {
	ID         int64    `json:"id"`
	OrderID    int64    `json:"orderId"`
	ProductID  int64    `json:"productId"`
	Quantity   int      `json:"quantity"`
	PriceCents int64    `json:"priceCents"`
	Product    *Product `json:"product,omitempty"`
}
