// handlers/auth_routes.go
package handlers

import (
	"errors"
	"log"

	"kuberfashion-backend/config"
	"kuberfashion-backend/middleware"
	"kuberfashion-backend/services"
	"kuberfashion-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, cfg *config.Config, userService *services.UserService, otpService *services.OtpService) {
	auth := app.Group("/api/auth")

	auth.Post("/register", func(c *fiber.Ctx) error {
		var req struct {
			FirstName       string `json:"first_name" validate:"required,max=50"`
			LastName        string `json:"last_name" validate:"required,max=50"`
			Email           string `json:"email" validate:"required,email"`
			Phone           string `json:"phone" validate:"required,min=10,max=15"`
			Password        string `json:"password" validate:"required,min=8"`
			ConfirmPassword string `json:"confirm_password" validate:"required"`
			ReferralCode    string `json:"referral_code"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		if req.Password != req.ConfirmPassword {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Passwords do not match"})
		}

		user, err := userService.Register(services.RegisterInput{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Phone:        req.Phone,
			Password:     req.Password,
			ReferralCode: req.ReferralCode,
		})
		if err != nil {
			if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrPhoneTaken) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			log.Printf("DB Error registering user: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register"})
		}

		token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), cfg.JWTSecret, cfg.JWTExpirationHours)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "user": user})
	})

	auth.Post("/login", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		user, err := userService.Authenticate(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserDisabled) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Login failed"})
		}

		token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), cfg.JWTSecret, cfg.JWTExpirationHours)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
		}

		return c.JSON(fiber.Map{"token": token, "user": user})
	})

	auth.Post("/otp/send", func(c *fiber.Ctx) error {
		var req struct {
			Phone string `json:"phone" validate:"required,min=10,max=15"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		// Don't leak whether the phone is registered.
		if _, err := userService.GetByPhone(req.Phone); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send OTP"})
			}
			return c.JSON(fiber.Map{"message": "OTP sent if the phone is registered"})
		}
		if err := otpService.SendOtp(c.Context(), req.Phone); err != nil {
			if errors.Is(err, services.ErrOtpUnavailable) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "OTP login is temporarily unavailable"})
			}
			log.Printf("OTP send failed for %s: %v", req.Phone, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send OTP"})
		}
		return c.JSON(fiber.Map{"message": "OTP sent if the phone is registered"})
	})

	auth.Post("/otp/verify", func(c *fiber.Ctx) error {
		var req struct {
			Phone string `json:"phone" validate:"required,min=10,max=15"`
			Otp   string `json:"otp" validate:"required,len=6"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		ok, err := otpService.VerifyOtp(c.Context(), req.Phone, req.Otp)
		if err != nil {
			if errors.Is(err, services.ErrOtpLocked) {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
			}
			if errors.Is(err, services.ErrOtpUnavailable) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "OTP login is temporarily unavailable"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Verification failed"})
		}
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired OTP"})
		}

		user, err := userService.GetByPhone(req.Phone)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No account for this phone"})
		}
		if !user.Enabled {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account disabled"})
		}

		token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), cfg.JWTSecret, cfg.JWTExpirationHours)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
		}
		return c.JSON(fiber.Map{"token": token, "user": user})
	})

	auth.Post("/check-email", func(c *fiber.Ctx) error {
		email := c.Query("email")
		if email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email query param required"})
		}
		exists, err := userService.ExistsByEmail(email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"available": !exists})
	})

	auth.Post("/check-phone", func(c *fiber.Ctx) error {
		phone := c.Query("phone")
		if phone == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "phone query param required"})
		}
		exists, err := userService.ExistsByPhone(phone)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"available": !exists})
	})

	auth.Get("/me", middleware.RequireAuth(cfg.JWTSecret), func(c *fiber.Ctx) error {
		user, err := userService.GetByID(currentUserID(c))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(user)
	})
}
