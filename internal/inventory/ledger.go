// Package inventory keeps product stock consistent with outstanding order
// commitments. Reserve and Release are the only two operations that touch
// the stock column; they are invoked exclusively from order checkout and
// cancellation, on the caller's transaction, so stock adjustments commit or
// roll back together with the order writes.
package inventory

import (
	"context"
	"fmt"

	"solestore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Querier is the slice of pgx.Tx the ledger needs. Checkout and cancel
// always pass their transaction so stock writes share its fate.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ledger adjusts product stock for order commitments.
type Ledger struct {
	logger zerolog.Logger
}

// NewLedger creates a new inventory ledger.
func NewLedger(logger zerolog.Logger) *Ledger {
	return &Ledger{
		logger: logger.With().Str("component", "inventory").Logger(),
	}
}

// Reserve decrements the product's stock by quantity. The decrement is a
// single conditional UPDATE guarded by stock >= quantity, so concurrent
// reservations against the same product serialise on the row and stock can
// never go negative. When the guard rejects the update, Reserve returns an
// InsufficientStockError carrying the current stock level and the caller
// must roll back its transaction.
func (l *Ledger) Reserve(ctx context.Context, q Querier, product *model.Product, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	tag, err := q.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		product.ID, quantity)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("product_id", product.ID.String()).
			Int("quantity", quantity).
			Msg("failed to reserve stock")
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		available := 0
		if err := q.QueryRow(ctx,
			`SELECT stock FROM products WHERE id = $1`, product.ID).Scan(&available); err != nil {
			l.logger.Error().
				Err(err).
				Str("product_id", product.ID.String()).
				Msg("failed to read stock after rejected reservation")
		}
		l.logger.Warn().
			Str("product_id", product.ID.String()).
			Str("product", product.Name).
			Int("requested", quantity).
			Int("available", available).
			Msg("insufficient stock")
		return &model.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   available,
		}
	}

	l.logger.Debug().
		Str("product_id", product.ID.String()).
		Int("quantity", quantity).
		Msg("stock reserved")

	return nil
}

// Release returns previously reserved stock to availability. It is called
// once per order item when an order enters the cancelled state; the order
// state machine guarantees that transition happens at most once, so a
// cancelled order can never re-credit stock twice.
func (l *Ledger) Release(ctx context.Context, q Querier, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	_, err := q.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1`,
		productID, quantity)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("failed to release stock")
		return fmt.Errorf("failed to release stock: %w", err)
	}

	l.logger.Debug().
		Str("product_id", productID.String()).
		Int("quantity", quantity).
		Msg("stock released")

	return nil
}
