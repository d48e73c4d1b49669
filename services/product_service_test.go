package services

import (
	"context"
	"testing"

	"kuberfashion-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCatalog(t *testing.T) (*gorm.DB, *ProductService, *CategoryService, *models.Category) {
	t.Helper()
	db := setupTestDB(t)
	cache := NewCache(nil) // cache degrades to pass-through without Redis
	products := NewProductService(db, cache)
	categories := NewCategoryService(db, cache)

	cat := &models.Category{Name: "T-Shirts"}
	require.NoError(t, categories.Create(context.Background(), cat))
	return db, products, categories, cat
}

func TestProductCreate(t *testing.T) {
	_, products, _, cat := setupCatalog(t)
	ctx := context.Background()

	t.Run("Success - slug and discount are derived", func(t *testing.T) {
		p := &models.Product{
			Name:          "Classic White Tee",
			Price:         20.00,
			OriginalPrice: 25.00,
			CategoryID:    cat.ID,
			Active:        true,
		}
		require.NoError(t, products.Create(ctx, p))

		assert.Equal(t, "classic-white-tee", p.Slug)
		assert.Equal(t, 20, p.Discount)
	})

	t.Run("Success - slug collision gets a suffix", func(t *testing.T) {
		p := &models.Product{
			Name:       "Classic White Tee",
			Price:      22.00,
			CategoryID: cat.ID,
			Active:     true,
		}
		require.NoError(t, products.Create(ctx, p))
		assert.Equal(t, "classic-white-tee-2", p.Slug)
	})

	t.Run("Success - category counter follows create and delete", func(t *testing.T) {
		db, products, _, cat := setupCatalog(t)

		p := &models.Product{Name: "Polo", Price: 30, CategoryID: cat.ID, Active: true}
		require.NoError(t, products.Create(ctx, p))

		var got models.Category
		require.NoError(t, db.First(&got, cat.ID).Error)
		assert.Equal(t, 1, got.ProductCount)

		require.NoError(t, products.Delete(ctx, p.ID))
		require.NoError(t, db.First(&got, cat.ID).Error)
		assert.Zero(t, got.ProductCount)
	})
}

func TestProductQueries(t *testing.T) {
	_, products, _, cat := setupCatalog(t)
	ctx := context.Background()

	seed := []*models.Product{
		{Name: "Budget Tee", Price: 10, CategoryID: cat.ID, Active: true, Rating: 3.5, InStock: true},
		{Name: "Premium Tee", Price: 80, CategoryID: cat.ID, Active: true, Rating: 4.8, Featured: true, InStock: true},
		{Name: "Hidden Tee", Price: 15, CategoryID: cat.ID, Active: true},
	}
	for _, p := range seed {
		require.NoError(t, products.Create(ctx, p))
	}
	// Deactivate after create; a zero-value bool would be overridden by the
	// column default on insert.
	require.NoError(t, products.DB.Model(&models.Product{}).
		Where("name = ?", "Hidden Tee").Update("active", false).Error)

	t.Run("Success - inactive products are invisible", func(t *testing.T) {
		all, err := products.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = products.GetBySlug("hidden-tee")
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("Success - featured filter", func(t *testing.T) {
		featured, err := products.GetFeatured(ctx)
		require.NoError(t, err)
		require.Len(t, featured, 1)
		assert.Equal(t, "Premium Tee", featured[0].Name)
	})

	t.Run("Success - search is case-insensitive", func(t *testing.T) {
		page, err := products.Search("BUDGET", 1, 20)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Budget Tee", page.Items[0].Name)
	})

	t.Run("Success - price range", func(t *testing.T) {
		page, err := products.GetByPriceRange(5, 50, 1, 20)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Budget Tee", page.Items[0].Name)
	})

	t.Run("Success - category paging with price sort", func(t *testing.T) {
		page, err := products.GetByCategory("t-shirts", 1, 20, "price", "asc")
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Budget Tee", page.Items[0].Name)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("Success - unknown sort column falls back", func(t *testing.T) {
		_, err := products.GetByCategory("t-shirts", 1, 20, "; DROP TABLE products", "asc")
		require.NoError(t, err)
	})

	t.Run("Failure - unknown category", func(t *testing.T) {
		_, err := products.GetByCategory("no-such-category", 1, 20, "price", "asc")
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCategoryService(t *testing.T) {
	db, _, categories, cat := setupCatalog(t)
	ctx := context.Background()

	t.Run("Success - create slugifies the name", func(t *testing.T) {
		assert.Equal(t, "t-shirts", cat.Slug)

		exists, err := categories.ExistsBySlug("t-shirts")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Success - lookup by slug", func(t *testing.T) {
		got, err := categories.GetBySlug("t-shirts")
		require.NoError(t, err)
		assert.Equal(t, cat.ID, got.ID)
	})

	t.Run("Success - delete", func(t *testing.T) {
		require.NoError(t, categories.Delete(ctx, cat.ID))

		var count int64
		require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}
