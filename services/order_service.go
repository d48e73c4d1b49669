// services/order_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"kuberfashion-backend/models"

	"gorm.io/gorm"
)

const (
	taxRate           = 0.08
	shippingFlatRate  = 9.99
	freeShippingAbove = 100.0
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type PagedOrders struct {
	Items      []models.Order `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"total_pages"`
}

// CreateFromCart snapshots the user's cart into an order (unit prices frozen
// at order time), computes totals and clears the cart, all in one transaction.
func (s *OrderService) CreateFromCart(userID uint, shippingAddress, billingAddress string, method models.PaymentMethod) (*models.Order, error) {
	var order *models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		var cartItems []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", userID).Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		o := models.Order{
			UserID:          userID,
			OrderNumber:     generateOrderNumber(),
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   method,
			ShippingAddress: shippingAddress,
			BillingAddress:  billingAddress,
		}

		var subtotal float64
		for _, item := range cartItems {
			if item.Product == nil {
				return fmt.Errorf("cart item %d references a missing product", item.ID)
			}
			o.Items = append(o.Items, models.OrderItem{
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				UnitPrice:     item.Product.Price,
				SelectedSize:  item.SelectedSize,
				SelectedColor: item.SelectedColor,
			})
			subtotal += item.Product.Price * float64(item.Quantity)
			o.TotalItems += item.Quantity
		}

		shipping := shippingFlatRate
		if subtotal >= freeShippingAbove {
			shipping = 0
		}
		tax := roundMoney(subtotal * taxRate)

		o.Subtotal = roundMoney(subtotal)
		o.ShippingAmount = shipping
		o.TaxAmount = tax
		o.TotalAmount = roundMoney(subtotal + shipping + tax)

		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	var o models.Order
	if err := s.DB.Preload("Items").Preload("Items.Product").First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) GetByIDAndUser(orderID, userID uint) (*models.Order, error) {
	var o models.Order
	err := s.DB.Preload("Items").Preload("Items.Product").
		Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) GetUserOrders(userID uint, page, size int) (*PagedOrders, error) {
	return s.paged(s.DB.Where("user_id = ?", userID), page, size)
}

func (s *OrderService) GetAllOrders(page, size int) (*PagedOrders, error) {
	return s.paged(s.DB, page, size)
}

func (s *OrderService) GetByStatus(status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Where("status = ?", status).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatus transitions the order and stamps the matching timestamp.
func (s *OrderService) UpdateStatus(orderID uint, status models.OrderStatus) (*models.Order, error) {
	var o models.Order
	if err := s.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	o.Status = status
	switch status {
	case models.OrderStatusShipped:
		o.ShippedAt = &now
	case models.OrderStatusDelivered:
		o.DeliveredAt = &now
	case models.OrderStatusCancelled:
		o.CancelledAt = &now
	}

	if err := s.DB.Save(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) UpdatePaymentStatus(orderID uint, status models.PaymentStatus, transactionID string) (*models.Order, error) {
	var o models.Order
	if err := s.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}

	o.PaymentStatus = status
	if transactionID != "" {
		o.PaymentTransactionID = transactionID
	}
	if status == models.PaymentStatusPaid {
		now := time.Now()
		o.PaidAt = &now
		if o.Status == models.OrderStatusPending {
			o.Status = models.OrderStatusConfirmed
		}
	}

	if err := s.DB.Save(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// Cancel is the user-facing path; only not-yet-processed orders qualify.
func (s *OrderService) Cancel(orderID, userID uint) error {
	var o models.Order
	if err := s.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return err
	}
	if o.Status != models.OrderStatusPending && o.Status != models.OrderStatusConfirmed {
		return ErrOrderNotCancellable
	}

	now := time.Now()
	return s.DB.Model(&o).Updates(map[string]interface{}{
		"status":       models.OrderStatusCancelled,
		"cancelled_at": now,
	}).Error
}

func (s *OrderService) TotalRevenue() (float64, error) {
	var total float64
	err := s.DB.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&total).Error
	return total, err
}

func (s *OrderService) CountByStatus(status models.OrderStatus) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (s *OrderService) CountAll() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (s *OrderService) paged(query *gorm.DB, page, size int) (*PagedOrders, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Order
	err := query.Preload("Items").Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&items).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &PagedOrders{Items: items, Total: total, Page: page, Size: size, TotalPages: totalPages}, nil
}

// generateOrderNumber: "KF" + millis + 3 random digits.
func generateOrderNumber() string {
	return fmt.Sprintf("KF%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
