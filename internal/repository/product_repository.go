package repository

import (
	"context"
	"fmt"
	"strings"

	"solestore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, category_id, brand_id, name, slug, description,
	price, discount_price, gender, available, stock, created_at, updated_at`

// List retrieves available products matching the filter, ordered by name.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT p.id, p.category_id, p.brand_id, p.name, p.slug, p.description,
		p.price, p.discount_price, p.gender, p.available, p.stock, p.created_at, p.updated_at
		FROM products p
		WHERE p.available = TRUE`)

	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CategorySlug != "" {
		sb.WriteString(" AND p.category_id = (SELECT id FROM categories WHERE slug = " + arg(filter.CategorySlug) + ")")
	}
	if filter.BrandID != uuid.Nil {
		sb.WriteString(" AND p.brand_id = " + arg(filter.BrandID))
	}
	if filter.Gender != "" {
		sb.WriteString(" AND p.gender = " + arg(filter.Gender))
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		p := arg(pattern)
		sb.WriteString(" AND (p.name ILIKE " + p + " OR p.description ILIKE " + p + ")")
	}

	sb.WriteString(" ORDER BY p.name")
	sb.WriteString(" LIMIT " + arg(filter.Limit))
	sb.WriteString(" OFFSET " + arg(filter.Offset))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", filter.CategorySlug).
			Str("gender", filter.Gender).
			Str("query", filter.Query).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product with its sizes and images.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	if err := r.loadSizes(ctx, &p); err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// ListCategories retrieves all categories ordered by name.
func (r *productRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// ListBrands retrieves all brands ordered by name.
func (r *productRepository) ListBrands(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, COALESCE(logo_url, '') FROM brands ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query brands")
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	defer rows.Close()

	var brands []model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.LogoURL); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan brand row")
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	return brands, nil
}

func (r *productRepository) loadSizes(ctx context.Context, p *model.Product) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, size, stock FROM product_sizes WHERE product_id = $1 ORDER BY size`,
		p.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to query product sizes")
		return fmt.Errorf("failed to query product sizes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.ProductSize
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Size, &s.Stock); err != nil {
			return fmt.Errorf("failed to scan product size: %w", err)
		}
		p.Sizes = append(p.Sizes, s)
	}

	return rows.Err()
}

func (r *productRepository) loadImages(ctx context.Context, p *model.Product) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, url, COALESCE(alt_text, '') FROM product_images WHERE product_id = $1 ORDER BY id`,
		p.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to query product images")
		return fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img model.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		p.Images = append(p.Images, img)
	}

	return rows.Err()
}

// scanProduct scans a product row in productColumns order.
func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.BrandID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.DiscountPrice,
		&p.Gender,
		&p.Available,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}
