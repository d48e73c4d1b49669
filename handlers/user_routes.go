// handlers/user_routes.go
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

func SetupUserRoutes(app *fiber.App, cfg *config.Config, userService *services.UserService) {
	me := app.Group("/api/users", middleware.RequireAuth(cfg.JWTSecret))

	me.Put("/me", func(c *fiber.Ctx) error {
		var req struct {
			FirstName string `json:"first_name" validate:"required,max=50"`
			LastName  string `json:"last_name" validate:"required,max=50"`
			Phone     string `json:"phone" validate:"required,min=10,max=15"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		user, err := userService.UpdateProfile(currentUserID(c), req.FirstName, req.LastName, req.Phone)
		if err != nil {
			if errors.Is(err, services.ErrPhoneTaken) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
		}
		return c.JSON(user)
	})

	me.Put("/me/password", func(c *fiber.Ctx) error {
		var req struct {
			CurrentPassword string `json:"current_password" validate:"required"`
			NewPassword     string `json:"new_password" validate:"required,min=8"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		err := userService.ChangePassword(currentUserID(c), req.CurrentPassword, req.NewPassword)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Current password is incorrect"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to change password"})
		}
		return c.JSON(fiber.Map{"message": "Password changed"})
	})

	admin := app.Group("/api/admin/users", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())

	admin.Get("/", func(c *fiber.Ctx) error {
		users, err := userService.ListAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(users)
	})

	admin.Put("/:id/status", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := userService.SetEnabled(id, req.Enabled); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
		}
		return c.JSON(fiber.Map{"message": "Status updated"})
	})

	admin.Put("/:id/role", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		var req struct {
			Role models.Role `json:"role" validate:"required,oneof=USER ADMIN"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		if err := userService.SetRole(id, req.Role); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update role"})
		}
		return c.JSON(fiber.Map{"message": "Role updated"})
	})

	admin.Delete("/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		if err := userService.Delete(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
		}
		return c.JSON(fiber.Map{"message": "User deleted"})
	})
}

// parseID pulls a positive integer path param, writing the 400 itself on
// failure and returning 0.
func parseID(c *fiber.Ctx, name string) uint {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + name})
		return 0
	}
	return uint(id)
}
