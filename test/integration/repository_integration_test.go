package integration

import (
	"context"
	"testing"

	"solestore/internal/model"
	"solestore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("List returns seeded products ordered by name", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		products, err := repo.List(ctx, model.ProductFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, products, 4)
		assert.Equal(t, "Air Zoom 90", products[0].Name)
		assert.Equal(t, "Court Classic", products[1].Name)
	})

	t.Run("List filters by category slug", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		products, err := repo.List(ctx, model.ProductFilter{CategorySlug: "running", Limit: 10})
		require.NoError(t, err)
		require.Len(t, products, 2)
		for _, p := range products {
			assert.Contains(t, []string{"air-zoom-90", "trail-glide"}, p.Slug)
		}
	})

	t.Run("List filters by brand", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cat := SeedCatalog(t, testDB.Pool)

		products, err := repo.List(ctx, model.ProductFilter{BrandID: cat.BrandAdidas, Limit: 10})
		require.NoError(t, err)
		require.Len(t, products, 2)
		for _, p := range products {
			assert.Equal(t, cat.BrandAdidas, p.BrandID)
		}
	})

	t.Run("List filters by gender", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		products, err := repo.List(ctx, model.ProductFilter{Gender: model.GenderWomen, Limit: 10})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Court Classic", products[0].Name)
	})

	t.Run("List searches name case-insensitively", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		products, err := repo.List(ctx, model.ProductFilter{Query: "zoom", Limit: 10})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Air Zoom 90", products[0].Name)
	})

	t.Run("List with pagination", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		page1, err := repo.List(ctx, model.ProductFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		page2, err := repo.List(ctx, model.ProductFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, page2, 2)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)
	})

	t.Run("GetByID returns product with discount price", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cat := SeedCatalog(t, testDB.Pool)

		product, err := repo.GetByID(ctx, cat.Products["court-classic"])
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Court Classic", product.Name)
		require.NotNil(t, product.DiscountPrice)
		assert.True(t, product.DiscountPrice.Equal(dec("80")))
		assert.True(t, product.EffectivePrice().Equal(dec("80")))
		assert.Equal(t, 3, product.Stock)
	})

	t.Run("GetByID returns nil for unknown product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		product, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("ListCategories and ListBrands", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		categories, err := repo.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 2)

		brands, err := repo.ListBrands(ctx)
		require.NoError(t, err)
		assert.Len(t, brands, 2)
		assert.Equal(t, "Adidas", brands[0].Name)
	})
}

func TestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewCartRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("GetByUser returns nil when user has no cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		cart, err := repo.GetByUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, cart)
	})

	t.Run("GetOrCreate is idempotent per user", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		userID := uuid.New()
		first, err := repo.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := repo.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("UpsertItem sums quantities on re-add", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cat := SeedCatalog(t, testDB.Pool)

		cart, err := repo.GetOrCreate(ctx, uuid.New())
		require.NoError(t, err)

		productID := cat.Products["air-zoom-90"]
		item := model.CartItem{ProductID: productID, Size: "9", Quantity: 2}

		require.NoError(t, repo.UpsertItem(ctx, cart.ID, item, false))
		require.NoError(t, repo.UpsertItem(ctx, cart.ID, item, false))

		lines, err := repo.Lines(ctx, cart.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 4, lines[0].Quantity)
	})

	t.Run("UpsertItem with override replaces the quantity", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cat := SeedCatalog(t, testDB.Pool)

		cart, err := repo.GetOrCreate(ctx, uuid.New())
		require.NoError(t, err)

		productID := cat.Products["air-zoom-90"]
		require.NoError(t, repo.UpsertItem(ctx, cart.ID,
			model.CartItem{ProductID: productID, Size: "9", Quantity: 2}, false))
		require.NoError(t, repo.UpsertItem(ctx, cart.ID,
			model.CartItem{ProductID: productID, Size: "9", Quantity: 5}, true))

		lines, err := repo.Lines(ctx, cart.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("same product in two sizes makes two lines", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cat := SeedCatalog(t, testDB.Pool)

		cart, err := repo.GetOrCreate(ctx, uuid.New())
		require.NoError(t, err)

		productID := cat.Products["air-zoom-90"]
		require.NoError(t, repo.UpsertItem(ctx, cart.ID,
			model.CartItem{ProductID: productID, Size: "9", Quantity: 1}, false))
		require.NoError(t, repo.UpsertItem(ctx, cart.ID,
			model.CartItem{ProductID: productID, Size: "10", Quantity: 1}, false))

		lines, err := repo.Lines(ctx, cart.ID)
		require.NoError(t, err)
		assert.Len(t, lines, 2)
	})

	t.Run("Lines joins product pricing", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cat := SeedCatalog(t, testDB.Pool)

		cart, err := repo.GetOrCreate(ctx, uuid.New())
		require.NoError(t, err)

		require.NoError(t, repo.UpsertItem(ctx, cart.ID,
			model.CartItem{ProductID: cat.Products["court-classic"], Size: "8", Quantity: 3}, false))

		lines, err := repo.Lines(ctx, cart.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "Court Classic", lines[0].ProductName)
		assert.True(t, lines[0].Price.Equal(dec("100")))
		require.NotNil(t, lines[0].DiscountPrice)
		assert.True(t, lines[0].Cost().Equal(dec("240")))
	})

	t.Run("DeleteItem reports whether a line matched", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cat := SeedCatalog(t, testDB.Pool)

		cart, err := repo.GetOrCreate(ctx, uuid.New())
		require.NoError(t, err)

		productID := cat.Products["trail-glide"]
		require.NoError(t, repo.UpsertItem(ctx, cart.ID,
			model.CartItem{ProductID: productID, Size: "11", Quantity: 1}, false))

		deleted, err := repo.DeleteItem(ctx, cart.ID, productID, "11")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteItem(ctx, cart.ID, productID, "11")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
