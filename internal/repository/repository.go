package repository

import (
	"context"

	"solestore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// List retrieves available products matching the filter, ordered by name.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product with its sizes and images.
	// Returns nil when the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// ListCategories retrieves all categories ordered by name.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// ListBrands retrieves all brands ordered by name.
	ListBrands(ctx context.Context) ([]model.Brand, error)
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetByUser retrieves the user's cart, or nil when they have none.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetOrCreate retrieves the user's cart, creating it when absent.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// UpsertItem inserts a cart line or, when a line for the same
	// (cart, product, size) already exists, adds to its quantity
	// (override=false) or replaces it (override=true).
	UpsertItem(ctx context.Context, cartID uuid.UUID, item model.CartItem, override bool) error

	// DeleteItem removes the matching line. Returns false when no line
	// matched; that is not an error.
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID, size string) (bool, error)

	// Lines retrieves the cart's lines in insertion order, joined with
	// product pricing.
	Lines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error)

	// LinesTx is Lines within the provided transaction, used during checkout.
	LinesTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartLine, error)

	// DeleteTx deletes the cart within the provided transaction; its lines
	// go with it via cascade.
	DeleteTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts order items within the provided transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order owned by the user along with its items.
	// Returns nil when the order does not exist or belongs to someone else.
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetForUpdate retrieves an order owned by the user within the provided
	// transaction, locking the row until the transaction ends. Returns nil
	// when the order does not exist or belongs to someone else.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID) (*model.Order, error)

	// ItemsTx retrieves the order's items within the provided transaction.
	ItemsTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error)

	// UpdateStatus sets the order's status within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus) error
}
