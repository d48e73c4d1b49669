// services/wishlist_service.go
package services

import (
	"errors"

	"kuberfashion-backend/models"

	"gorm.io/gorm"
)

type WishlistService struct {
	DB *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{DB: db}
}

func (s *WishlistService) GetProducts(userID uint) ([]models.Product, error) {
	var items []models.WishlistItem
	err := s.DB.Preload("Product").Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		if item.Product != nil {
			products = append(products, *item.Product)
		}
	}
	return products, nil
}

// Add is idempotent; re-adding a wishlisted product is a no-op.
func (s *WishlistService) Add(userID, productID uint) (*models.Product, error) {
	var product models.Product
	if err := s.DB.First(&product, productID).Error; err != nil {
		return nil, err
	}

	var existing models.WishlistItem
	err := s.DB.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.DB.Create(&item).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *WishlistService) Remove(userID, productID uint) error {
	res := s.DB.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *WishlistService) Clear(userID uint) error {
	return s.DB.Where("user_id = ?", userID).Delete(&models.WishlistItem{}).Error
}

func (s *WishlistService) Contains(userID, productID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).Count(&count).Error
	return count > 0, err
}

func (s *WishlistService) Count(userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
