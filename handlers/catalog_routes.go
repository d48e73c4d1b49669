// handlers/catalog_routes.go
package handlers

import (
	"errors"
	"strconv"

	"kuberfashion-backend/config"
	"kuberfashion-backend/middleware"
	"kuberfashion-backend/models"
	"kuberfashion-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCatalogRoutes(app *fiber.App, cfg *config.Config, products *services.ProductService, categories *services.CategoryService) {
	pub := app.Group("/api/products")

	pub.Get("/", func(c *fiber.Ctx) error {
		list, err := products.GetAll(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(list)
	})

	pub.Get("/featured", func(c *fiber.Ctx) error {
		list, err := products.GetFeatured(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(list)
	})

	pub.Get("/top-rated", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		list, err := products.GetTopRated(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(list)
	})

	pub.Get("/newest", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		list, err := products.GetNewest(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(list)
	})

	pub.Get("/trending", func(c *fiber.Ctx) error {
		list, err := products.GetTrending(10)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(list)
	})

	pub.Get("/search", func(c *fiber.Ctx) error {
		keyword := c.Query("q")
		if keyword == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "q query param required"})
		}
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		result, err := products.Search(keyword, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Search failed"})
		}
		return c.JSON(result)
	})

	pub.Get("/price-range", func(c *fiber.Ctx) error {
		min, err1 := strconv.ParseFloat(c.Query("min", "0"), 64)
		max, err2 := strconv.ParseFloat(c.Query("max", "0"), 64)
		if err1 != nil || err2 != nil || max < min {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid price range"})
		}
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		result, err := products.GetByPriceRange(min, max, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(result)
	})

	pub.Get("/category/:slug", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		result, err := products.GetByCategory(c.Params("slug"), page, size, c.Query("sort_by", "created_at"), c.Query("sort_dir", "desc"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(result)
	})

	pub.Get("/slug/:slug", func(c *fiber.Ctx) error {
		p, err := products.GetBySlug(c.Params("slug"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(p)
	})

	pub.Get("/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		p, err := products.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(p)
	})

	cat := app.Group("/api/categories")

	cat.Get("/", func(c *fiber.Ctx) error {
		list, err := categories.GetAll(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch categories"})
		}
		return c.JSON(list)
	})

	cat.Get("/with-products", func(c *fiber.Ctx) error {
		list, err := categories.GetWithProducts(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch categories"})
		}
		return c.JSON(list)
	})

	cat.Get("/:slug", func(c *fiber.Ctx) error {
		cg, err := categories.GetBySlug(c.Params("slug"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(cg)
	})

	admin := app.Group("/api/admin", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())

	admin.Post("/products", func(c *fiber.Ctx) error {
		var req struct {
			Name          string  `json:"name" validate:"required,max=200"`
			Price         float64 `json:"price" validate:"required,gt=0"`
			OriginalPrice float64 `json:"original_price" validate:"omitempty,gt=0"`
			CategoryID    uint    `json:"category_id" validate:"required"`
			Image         string  `json:"image"`
			Description   string  `json:"description" validate:"max=1000"`
			Sizes         string  `json:"sizes"`
			Colors        string  `json:"colors"`
			Featured      bool    `json:"featured"`
			StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		if _, err := categories.GetByID(req.CategoryID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown category"})
		}

		p := models.Product{
			Name:          req.Name,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			CategoryID:    req.CategoryID,
			Image:         req.Image,
			Description:   req.Description,
			Sizes:         req.Sizes,
			Colors:        req.Colors,
			Featured:      req.Featured,
			StockQuantity: req.StockQuantity,
			InStock:       req.StockQuantity > 0,
			Active:        true,
		}
		if err := products.Create(c.Context(), &p); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	admin.Put("/products/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		p, err := products.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}

		var req struct {
			Name          *string  `json:"name"`
			Price         *float64 `json:"price"`
			OriginalPrice *float64 `json:"original_price"`
			Image         *string  `json:"image"`
			Description   *string  `json:"description"`
			Sizes         *string  `json:"sizes"`
			Colors        *string  `json:"colors"`
			Featured      *bool    `json:"featured"`
			StockQuantity *int     `json:"stock_quantity"`
			Active        *bool    `json:"active"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.OriginalPrice != nil {
			p.OriginalPrice = *req.OriginalPrice
		}
		if req.Image != nil {
			p.Image = *req.Image
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Sizes != nil {
			p.Sizes = *req.Sizes
		}
		if req.Colors != nil {
			p.Colors = *req.Colors
		}
		if req.Featured != nil {
			p.Featured = *req.Featured
		}
		if req.StockQuantity != nil {
			p.StockQuantity = *req.StockQuantity
			p.InStock = *req.StockQuantity > 0
		}
		if req.Active != nil {
			p.Active = *req.Active
		}

		if err := products.Update(c.Context(), p); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
		}
		return c.JSON(p)
	})

	admin.Delete("/products/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		if err := products.Delete(c.Context(), id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
		}
		return c.JSON(fiber.Map{"message": "Product deleted"})
	})

	admin.Post("/categories", func(c *fiber.Ctx) error {
		var req struct {
			Name        string `json:"name" validate:"required,max=100"`
			Image       string `json:"image"`
			Description string `json:"description" validate:"max=500"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		cg := models.Category{
			Name:        req.Name,
			Image:       req.Image,
			Description: req.Description,
			Active:      true,
		}
		if err := categories.Create(c.Context(), &cg); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create category"})
		}
		return c.Status(fiber.StatusCreated).JSON(cg)
	})

	admin.Put("/categories/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		var req struct {
			Name        *string `json:"name"`
			Image       *string `json:"image"`
			Description *string `json:"description"`
			Active      *bool   `json:"active"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		cg, err := categories.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}

		if req.Name != nil {
			cg.Name = *req.Name
		}
		if req.Image != nil {
			cg.Image = *req.Image
		}
		if req.Description != nil {
			cg.Description = *req.Description
		}
		if req.Active != nil {
			cg.Active = *req.Active
		}

		if err := categories.Update(c.Context(), cg); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update category"})
		}
		return c.JSON(cg)
	})

	admin.Delete("/categories/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		if err := categories.Delete(c.Context(), id); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete category"})
		}
		return c.JSON(fiber.Map{"message": "Category deleted"})
	})
}
