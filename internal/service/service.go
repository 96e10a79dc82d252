package service

import (
	"context"

	"solestore/internal/inventory"
	"solestore/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines read operations over the product catalogue.
type CatalogService interface {
	// ListProducts retrieves available products matching the filter.
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetProduct retrieves a single product with its sizes and images.
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// ListCategories retrieves all categories.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// ListBrands retrieves all brands.
	ListBrands(ctx context.Context) ([]model.Brand, error)
}

// CartService defines operations on a user's shopping cart.
type CartService interface {
	// AddItem adds a product+size line to the user's cart, creating the cart
	// on first use. Re-adding an existing line adds to its quantity, or
	// replaces it when req.Override is set. Stock is not checked here;
	// availability is only enforced at checkout.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddItemRequest) (*model.CartView, error)

	// RemoveItem deletes the matching line. Removing an absent line or from
	// an absent cart is a no-op.
	RemoveItem(ctx context.Context, userID uuid.UUID, req *model.RemoveItemRequest) error

	// GetCart retrieves the user's cart with its lines and totals. A user
	// with no cart gets an empty view.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error)
}

// OrderService defines operations on orders.
type OrderService interface {
	// Checkout materialises the user's cart into an order: every line's
	// stock is reserved, the order and its items are written with prices
	// snapshotted, and the cart is deleted, all in one transaction. Any
	// reservation failure aborts the whole operation.
	Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// Cancel transitions a pending or processing order to cancelled and
	// returns each item's quantity to product stock. Any other starting
	// status fails with InvalidTransitionError.
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)

	// ListOrders retrieves the user's orders, newest first.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetOrder retrieves an order owned by the user with its items.
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.OrderResponse, error)
}

// StockLedger is the inventory surface the order service depends on.
// *inventory.Ledger satisfies it.
type StockLedger interface {
	Reserve(ctx context.Context, q inventory.Querier, product *model.Product, quantity int) error
	Release(ctx context.Context, q inventory.Querier, productID uuid.UUID, quantity int) error
}
