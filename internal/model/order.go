package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order lifecycle: pending -> processing -> shipped -> delivered, with
// cancelled reachable from pending or processing only.
const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether an order in this status may still be
// cancelled. Only pending and processing orders qualify, which guarantees
// the cancelled state is entered at most once.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

// Order is an immutable snapshot of a checked-out cart. Shipping fields and
// TotalCost are captured once at creation; status is the only field that
// changes afterwards.
type Order struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"userId" db:"user_id"`
	FirstName  string          `json:"firstName" db:"first_name"`
	LastName   string          `json:"lastName" db:"last_name"`
	Email      string          `json:"email" db:"email"`
	Address    string          `json:"address" db:"address"`
	City       string          `json:"city" db:"city"`
	PostalCode string          `json:"postalCode" db:"postal_code"`
	Status     OrderStatus     `json:"status" db:"status"`
	TotalCost  decimal.Decimal `json:"totalCost" db:"total_cost"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is one line of an order. Price is the product's effective price
// at checkout time and is never touched by later catalogue price changes.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	Size      string          `json:"size" db:"size"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// Cost returns the line total: snapshot price times quantity.
func (i *OrderItem) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CheckoutRequest carries the shipping details captured on the order.
type CheckoutRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// OrderResponse is an order together with its items.
type OrderResponse struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}
