package repository

import (
	"context"
	"fmt"
	"time"

	"solestore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByUser retrieves the user's cart, or nil when they have none.
func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &cart, nil
}

// GetOrCreate retrieves the user's cart, creating it when absent. The upsert
// keeps concurrent first-adds from the same user down to one cart row.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	now := time.Now()
	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, created_at, updated_at
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID, now).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get or create cart")
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return &cart, nil
}

// UpsertItem inserts a cart line or folds the quantity into an existing one.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, item model.CartItem, override bool) error {
	// Same statement shape either way; only the conflict action differs.
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, size, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`
	if override {
		query = `
			INSERT INTO cart_items (id, cart_id, product_id, size, quantity)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (cart_id, product_id, size)
			DO UPDATE SET quantity = EXCLUDED.quantity
		`
	}

	_, err := r.pool.Exec(ctx, query, uuid.New(), cartID, item.ProductID, item.Size, item.Quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", item.ProductID.String()).
			Str("size", item.Size).
			Msg("failed to upsert cart item")
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", cartID.String()).
		Str("product_id", item.ProductID.String()).
		Str("size", item.Size).
		Int("quantity", item.Quantity).
		Bool("override", override).
		Msg("cart item upserted")

	return nil
}

// DeleteItem removes the matching line. Returns false when no line matched.
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID, size string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2 AND size = $3`,
		cartID, productID, size)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", productID.String()).
			Msg("failed to delete cart item")
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Lines retrieves the cart's lines in insertion order, joined with product
// pricing.
func (r *cartRepository) Lines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	return r.lines(ctx, r.pool, cartID)
}

// LinesTx is Lines within the provided transaction, used during checkout.
func (r *cartRepository) LinesTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartLine, error) {
	return r.lines(ctx, tx, cartID)
}

// querier is the common query surface of *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *cartRepository) lines(ctx context.Context, q querier, cartID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.size, ci.quantity,
			p.name, p.price, p.discount_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id
	`

	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		err := rows.Scan(
			&l.ID,
			&l.CartID,
			&l.ProductID,
			&l.Size,
			&l.Quantity,
			&l.ProductName,
			&l.Price,
			&l.DiscountPrice,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// DeleteTx deletes the cart within the provided transaction; cart_items
// cascade with it.
func (r *cartRepository) DeleteTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", cartID.String()).Msg("cart deleted")

	return nil
}
