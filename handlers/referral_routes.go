// handlers/referral_routes.go
package handlers

import (
	"errors"

	"kuberfashion-backend/config"
	"kuberfashion-backend/middleware"
	"kuberfashion-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReferralRoutes(app *fiber.App, cfg *config.Config, users *services.UserService, referrals *services.ReferralService) {
	group := app.Group("/api/referral", middleware.RequireAuth(cfg.JWTSecret))

	// The referral code a user shares is their registered phone number.
	group.Get("/code", func(c *fiber.Ctx) error {
		user, err := users.GetByID(currentUserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"referral_code": user.Phone})
	})

	group.Get("/stats", func(c *fiber.Ctx) error {
		user, err := users.GetByID(currentUserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		stats, err := referrals.GetReferralStats(user)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch referral stats"})
		}
		return c.JSON(stats)
	})

	group.Get("/coins", func(c *fiber.Ctx) error {
		balance, err := referrals.CoinBalanceOf(currentUserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"balance": balance})
	})

	group.Post("/coins/spend", func(c *fiber.Ctx) error {
		var req struct {
			Amount int64  `json:"amount" validate:"required,gt=0"`
			Reason string `json:"reason" validate:"required,max=100"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		if err := referrals.SpendCoins(currentUserID(c), req.Amount, req.Reason); err != nil {
			if errors.Is(err, services.ErrInsufficientCoins) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to spend coins"})
		}
		return c.JSON(fiber.Map{"message": "Coins spent"})
	})

	admin := app.Group("/api/admin/referrals", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())

	// Tree rooted at the user owning the given phone, or the earliest
	// registered user when no phone is supplied.
	admin.Get("/tree", func(c *fiber.Ctx) error {
		tree, err := referrals.BuildReferralTree(c.Query("phone"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build referral tree"})
		}
		return c.JSON(tree)
	})

	admin.Get("/users/:id/stats", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		user, err := users.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		stats, err := referrals.GetReferralStats(user)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch referral stats"})
		}
		return c.JSON(stats)
	})
}
