// handlers/cart_routes.go
package handlers

import (
	"errors"

	"kuberfashion-backend/config"
	"kuberfashion-backend/middleware"
	"kuberfashion-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCartRoutes(app *fiber.App, cfg *config.Config, cart *services.CartService) {
	group := app.Group("/api/cart", middleware.RequireAuth(cfg.JWTSecret))

	group.Get("/", func(c *fiber.Ctx) error {
		items, err := cart.GetItems(currentUserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch cart"})
		}
		return c.JSON(items)
	})

	group.Get("/count", func(c *fiber.Ctx) error {
		count, err := cart.Count(currentUserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"count": count})
	})

	group.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			ProductID uint   `json:"product_id" validate:"required"`
			Quantity  int    `json:"quantity" validate:"required,gte=1"`
			Size      string `json:"size"`
			Color     string `json:"color"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		item, err := cart.AddItem(currentUserID(c), req.ProductID, req.Quantity, req.Size, req.Color)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add to cart"})
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	group.Put("/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		var req struct {
			Quantity int `json:"quantity" validate:"required,gte=1"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		item, err := cart.UpdateQuantity(currentUserID(c), id, req.Quantity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cart item not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update cart item"})
		}
		return c.JSON(item)
	})

	group.Delete("/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		if err := cart.RemoveItem(currentUserID(c), id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cart item not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove item"})
		}
		return c.JSON(fiber.Map{"message": "Item removed"})
	})

	group.Delete("/", func(c *fiber.Ctx) error {
		if err := cart.Clear(currentUserID(c)); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear cart"})
		}
		return c.JSON(fiber.Map{"message": "Cart cleared"})
	})
}
