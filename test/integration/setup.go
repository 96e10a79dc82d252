package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"solestore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

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

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// Catalog holds the IDs of the seeded catalogue rows.
type Catalog struct {
	CategoryRunning   uuid.UUID
	CategoryLifestyle uuid.UUID
	BrandNike         uuid.UUID
	BrandAdidas       uuid.UUID
	Products          map[string]uuid.UUID
}

// SeedCatalog inserts a small catalogue: two categories, two brands and four
// products with known prices and stock levels.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) *Catalog {
	t.Helper()

	ctx := context.Background()

	cat := &Catalog{
		CategoryRunning:   uuid.New(),
		CategoryLifestyle: uuid.New(),
		BrandNike:         uuid.New(),
		BrandAdidas:       uuid.New(),
		Products:          make(map[string]uuid.UUID),
	}

	categories := []struct {
		id   uuid.UUID
		name string
		slug string
	}{
		{cat.CategoryRunning, "Running", "running"},
		{cat.CategoryLifestyle, "Lifestyle", "lifestyle"},
	}
	for _, c := range categories {
		_, err := pool.Exec(ctx,
			"INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)",
			c.id, c.name, c.slug)
		if err != nil {
			t.Fatalf("failed to seed category %s: %v", c.slug, err)
		}
	}

	brands := []struct {
		id   uuid.UUID
		name string
		slug string
	}{
		{cat.BrandNike, "Nike", "nike"},
		{cat.BrandAdidas, "Adidas", "adidas"},
	}
	for _, b := range brands {
		_, err := pool.Exec(ctx,
			"INSERT INTO brands (id, name, slug) VALUES ($1, $2, $3)",
			b.id, b.name, b.slug)
		if err != nil {
			t.Fatalf("failed to seed brand %s: %v", b.slug, err)
		}
	}

	products := []struct {
		name          string
		slug          string
		categoryID    uuid.UUID
		brandID       uuid.UUID
		price         string
		discountPrice *string
		gender        string
		stock         int
	}{
		{"Air Zoom 90", "air-zoom-90", cat.CategoryRunning, cat.BrandNike, "100.00", nil, model.GenderMen, 10},
		{"Court Classic", "court-classic", cat.CategoryLifestyle, cat.BrandAdidas, "100.00", strPtr("80.00"), model.GenderWomen, 3},
		{"Trail Glide", "trail-glide", cat.CategoryRunning, cat.BrandAdidas, "120.00", nil, model.GenderUnisex, 5},
		{"Street Low", "street-low", cat.CategoryLifestyle, cat.BrandNike, "59.99", nil, model.GenderKids, 0},
	}
	for _, p := range products {
		id := uuid.New()
		cat.Products[p.slug] = id

		price := decimal.RequireFromString(p.price)
		var discount *decimal.Decimal
		if p.discountPrice != nil {
			d := decimal.RequireFromString(*p.discountPrice)
			discount = &d
		}

		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, category_id, brand_id, name, slug, price, discount_price, gender, available, stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)`,
			id, p.categoryID, p.brandID, p.name, p.slug, price, discount, p.gender, p.stock)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.slug, err)
		}
	}

	return cat
}

func strPtr(s string) *string {
	return &s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ProductStock reads a product's current stock level.
func ProductStock(t *testing.T, pool *pgxpool.Pool, productID uuid.UUID) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(),
		"SELECT stock FROM products WHERE id = $1", productID).Scan(&stock)
	if err != nil {
		t.Fatalf("failed to read stock for %s: %v", productID, err)
	}
	return stock
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_items", "orders",
		"cart_items", "carts",
		"product_images", "product_sizes", "products",
		"brands", "categories",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
