// Command seed populates the database schema and a starter catalogue. It is
// idempotent: rerunning it leaves existing rows in place.
package main

import (
	"context"
	"fmt"
	"os"

	"solestore/internal/config"
	"solestore/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := createSchema(ctx, pool); err != nil {
		return err
	}
	logger.Info().Msg("schema created")

	if err := seedCatalog(ctx, pool); err != nil {
		return err
	}
	logger.Info().Msg("catalogue seeded")

	return nil
}

func createSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS brands (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL UNIQUE,
			logo_url TEXT
		);

		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			category_id UUID NOT NULL REFERENCES categories(id),
			brand_id UUID NOT NULL REFERENCES brands(id),
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			discount_price DECIMAL(10, 2),
			gender VARCHAR(1) NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS product_sizes (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			size VARCHAR(10) NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0,
			UNIQUE (product_id, size)
		);

		CREATE TABLE IF NOT EXISTS product_images (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			alt_text TEXT
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			size VARCHAR(10) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (cart_id, product_id, size)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			address VARCHAR(255) NOT NULL,
			city VARCHAR(255) NOT NULL,
			postal_code VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL,
			total_cost DECIMAL(10, 2) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			size VARCHAR(10) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
		CREATE INDEX IF NOT EXISTS idx_products_brand_id ON products(brand_id);
		CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

type seedProduct struct {
	name          string
	slug          string
	category      string
	brand         string
	description   string
	price         string
	discountPrice string
	gender        string
	stock         int
	sizes         []string
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	categories := map[string]string{
		"running":    "Running",
		"basketball": "Basketball",
		"lifestyle":  "Lifestyle",
		"football":   "Football",
	}
	categoryIDs := make(map[string]uuid.UUID, len(categories))
	for slug, name := range categories {
		id := uuid.New()
		err := pool.QueryRow(ctx, `
			INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			id, name, slug).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", slug, err)
		}
		categoryIDs[slug] = id
	}

	brands := map[string]string{
		"nike":        "Nike",
		"adidas":      "Adidas",
		"new-balance": "New Balance",
		"puma":        "Puma",
	}
	brandIDs := make(map[string]uuid.UUID, len(brands))
	for slug, name := range brands {
		id := uuid.New()
		err := pool.QueryRow(ctx, `
			INSERT INTO brands (id, name, slug) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			id, name, slug).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed brand %s: %w", slug, err)
		}
		brandIDs[slug] = id
	}

	products := []seedProduct{
		{
			name: "Air Zoom 90", slug: "air-zoom-90",
			category: "running", brand: "nike",
			description: "Lightweight daily trainer with responsive foam.",
			price:       "129.99", gender: "M", stock: 40,
			sizes: []string{"8", "9", "9.5", "10", "11"},
		},
		{
			name: "Court Classic", slug: "court-classic",
			category: "lifestyle", brand: "adidas",
			description: "Leather low-top in an everyday silhouette.",
			price:       "99.99", discountPrice: "79.99", gender: "W", stock: 25,
			sizes: []string{"6", "7", "8", "9"},
		},
		{
			name: "Trail Glide", slug: "trail-glide",
			category: "running", brand: "new-balance",
			description: "Grippy outsole for mixed terrain.",
			price:       "139.99", gender: "U", stock: 18,
			sizes: []string{"8", "9", "10", "11", "12"},
		},
		{
			name: "Hoop Rise Pro", slug: "hoop-rise-pro",
			category: "basketball", brand: "nike",
			description: "Mid-cut support with a wide base for quick cuts.",
			price:       "149.99", discountPrice: "119.99", gender: "M", stock: 12,
			sizes: []string{"9", "10", "11", "12", "13"},
		},
		{
			name: "Street Low Kids", slug: "street-low-kids",
			category: "lifestyle", brand: "puma",
			description: "Durable everyday sneaker for kids.",
			price:       "49.99", gender: "K", stock: 30,
			sizes: []string{"1", "2", "3", "4"},
		},
		{
			name: "Strike Elite FG", slug: "strike-elite-fg",
			category: "football", brand: "adidas",
			description: "Firm-ground boot with a textured strike zone.",
			price:       "199.99", gender: "U", stock: 8,
			sizes: []string{"7", "8", "9", "10"},
		},
	}

	for _, p := range products {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return fmt.Errorf("invalid price for %s: %w", p.slug, err)
		}

		var discount *decimal.Decimal
		if p.discountPrice != "" {
			d, err := decimal.NewFromString(p.discountPrice)
			if err != nil {
				return fmt.Errorf("invalid discount price for %s: %w", p.slug, err)
			}
			discount = &d
		}

		id := uuid.New()
		err = pool.QueryRow(ctx, `
			INSERT INTO products (id, category_id, brand_id, name, slug, description,
				price, discount_price, gender, available, stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10)
			ON CONFLICT (slug) DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			id, categoryIDs[p.category], brandIDs[p.brand], p.name, p.slug,
			p.description, price, discount, p.gender, p.stock).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.slug, err)
		}

		for _, size := range p.sizes {
			_, err := pool.Exec(ctx, `
				INSERT INTO product_sizes (id, product_id, size, stock)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (product_id, size) DO NOTHING`,
				uuid.New(), id, size, p.stock/len(p.sizes))
			if err != nil {
				return fmt.Errorf("failed to seed sizes for %s: %w", p.slug, err)
			}
		}
	}

	return nil
}
