// handlers/order_routes.go
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

func SetupOrderRoutes(app *fiber.App, cfg *config.Config, orders *services.OrderService) {
	group := app.Group("/api/orders", middleware.RequireAuth(cfg.JWTSecret))

	group.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			ShippingAddress string               `json:"shipping_address" validate:"required,max=500"`
			BillingAddress  string               `json:"billing_address" validate:"max=500"`
			PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required,oneof=CREDIT_CARD DEBIT_CARD UPI CASH_ON_DELIVERY"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		if req.BillingAddress == "" {
			req.BillingAddress = req.ShippingAddress
		}

		order, err := orders.CreateFromCart(currentUserID(c), req.ShippingAddress, req.BillingAddress, req.PaymentMethod)
		if err != nil {
			if errors.Is(err, services.ErrEmptyCart) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cart is empty"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create order"})
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	})

	group.Get("/", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		result, err := orders.GetUserOrders(currentUserID(c), page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
		}
		return c.JSON(result)
	})

	group.Get("/:id", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		order, err := orders.GetByIDAndUser(id, currentUserID(c))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(order)
	})

	group.Post("/:id/cancel", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		err := orders.Cancel(id, currentUserID(c))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
			}
			if errors.Is(err, services.ErrOrderNotCancellable) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel order"})
		}
		return c.JSON(fiber.Map{"message": "Order cancelled"})
	})

	admin := app.Group("/api/admin/orders", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())

	admin.Get("/", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		if status := c.Query("status"); status != "" {
			list, err := orders.GetByStatus(models.OrderStatus(status))
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
			}
			return c.JSON(list)
		}
		result, err := orders.GetAllOrders(page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
		}
		return c.JSON(result)
	})

	admin.Get("/stats", func(c *fiber.Ctx) error {
		revenue, err := orders.TotalRevenue()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		total, err := orders.CountAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		pending, err := orders.CountByStatus(models.OrderStatusPending)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{
			"total_revenue":  revenue,
			"total_orders":   total,
			"pending_orders": pending,
		})
	})

	admin.Put("/:id/status", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		var req struct {
			Status models.OrderStatus `json:"status" validate:"required,oneof=PENDING CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED RETURNED"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		order, err := orders.UpdateStatus(id, req.Status)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
		}
		return c.JSON(order)
	})

	admin.Put("/:id/payment", func(c *fiber.Ctx) error {
		id := parseID(c, "id")
		if id == 0 {
			return nil
		}
		var req struct {
			PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required,oneof=PENDING PAID FAILED REFUNDED"`
			TransactionID string               `json:"transaction_id"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}

		order, err := orders.UpdatePaymentStatus(id, req.PaymentStatus, req.TransactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment"})
		}
		return c.JSON(order)
	})
}
