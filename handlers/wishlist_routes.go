// handlers/wishlist_routes.go
package handlers

import (
	"errors"

	"kuberfashion-backend/config"
	"kuberfashion-backend/middleware"
	"kuberfashion-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupWishlistRoutes(app *fiber.App, cfg *config.Config, wishlist *services.WishlistService) {
	group := app.Group("/api/wishlist", middleware.RequireAuth(cfg.JWTSecret))

	group.Get("/", func(c *fiber.Ctx) error {
		products, err := wishlist.GetProducts(currentUserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch wishlist"})
		}
		return c.JSON(products)
	})

	group.Get("/count", func(c *fiber.Ctx) error {
		count, err := wishlist.Count(currentUserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"count": count})
	})

	group.Get("/contains/:productId", func(c *fiber.Ctx) error {
		productID := parseID(c, "productId")
		if productID == 0 {
			return nil
		}
		in, err := wishlist.Contains(currentUserID(c), productID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"in_wishlist": in})
	})

	group.Post("/:productId", func(c *fiber.Ctx) error {
		productID := parseID(c, "productId")
		if productID == 0 {
			return nil
		}
		product, err := wishlist.Add(currentUserID(c), productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add to wishlist"})
		}
		return c.Status(fiber.StatusCreated).JSON(product)
	})

	group.Delete("/:productId", func(c *fiber.Ctx) error {
		productID := parseID(c, "productId")
		if productID == 0 {
			return nil
		}
		if err := wishlist.Remove(currentUserID(c), productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not in wishlist"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove"})
		}
		return c.JSON(fiber.Map{"message": "Removed from wishlist"})
	})

	group.Delete("/", func(c *fiber.Ctx) error {
		if err := wishlist.Clear(currentUserID(c)); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear wishlist"})
		}
		return c.JSON(fiber.Map{"message": "Wishlist cleared"})
	})
}
