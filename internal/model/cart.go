package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's open shopping cart. A user has at most one cart; it is
// created lazily on the first add and deleted when its contents become an
// order.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is a single line in a cart, unique per (cart, product, size).
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"-" db:"cart_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Size      string    `json:"size" db:"size"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// CartLine is a cart item joined with the product fields needed to price it.
type CartLine struct {
	CartItem
	ProductName   string           `json:"productName" db:"product_name"`
	Price         decimal.Decimal  `json:"price" db:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty" db:"discount_price"`
}

// UnitPrice returns the discount price when set, otherwise the list price.
func (l *CartLine) UnitPrice() decimal.Decimal {
	if l.DiscountPrice != nil {
		return *l.DiscountPrice
	}
	return l.Price
}

// Cost returns the line total: unit price times quantity.
func (l *CartLine) Cost() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartView is the read model returned to callers: the cart plus its lines in
// insertion order. A user with no cart gets a view with a nil Cart and no
// lines.
type CartView struct {
	Cart  *Cart      `json:"cart,omitempty"`
	Lines []CartLine `json:"lines"`
}

// TotalPrice sums line costs. Recomputed on every call.
func (v *CartView) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range v.Lines {
		total = total.Add(v.Lines[i].Cost())
	}
	return total
}

// TotalItems sums line quantities.
func (v *CartView) TotalItems() int {
	n := 0
	for i := range v.Lines {
		n += v.Lines[i].Quantity
	}
	return n
}

// AddItemRequest is the payload for adding a product to the cart. When
// Override is true the given quantity replaces any existing line quantity;
// otherwise it is added to it.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	Override  bool      `json:"override"`
}

// RemoveItemRequest identifies the cart line to delete.
type RemoveItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Size      string    `json:"size"`
}
