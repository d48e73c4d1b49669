// services/cart_service.go
package services

import (
	"errors"

	"kuberfashion-backend/models"

	"gorm.io/gorm"
)

type CartService struct {
	DB *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{DB: db}
}

func (s *CartService) GetItems(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.DB.Preload("Product").Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// AddItem merges quantity into an existing (product, size, color) line if one
// exists, otherwise appends a new line.
func (s *CartService) AddItem(userID, productID uint, quantity int, size, color string) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	var product models.Product
	if err := s.DB.First(&product, productID).Error; err != nil {
		return nil, err
	}

	var item models.CartItem
	err := s.DB.Where("user_id = ? AND product_id = ? AND selected_size = ? AND selected_color = ?",
		userID, productID, size, color).First(&item).Error
	switch {
	case err == nil:
		item.Quantity += quantity
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			UserID:        userID,
			ProductID:     productID,
			Quantity:      quantity,
			SelectedSize:  size,
			SelectedColor: color,
		}
	default:
		return nil, err
	}

	if err := s.DB.Save(&item).Error; err != nil {
		return nil, err
	}
	item.Product = &product
	return &item, nil
}

func (s *CartService) UpdateQuantity(userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}
	var item models.CartItem
	if err := s.DB.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := s.DB.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartService) RemoveItem(userID, itemID uint) error {
	res := s.DB.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *CartService) Clear(userID uint) error {
	return s.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

func (s *CartService) Count(userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
