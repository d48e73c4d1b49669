// services/category_service.go
package services

import (
	"context"

	"kuberfashion-backend/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CategoryService struct {
	DB    *gorm.DB
	Cache *Cache
}

func NewCategoryService(db *gorm.DB, cache *Cache) *CategoryService {
	return &CategoryService{DB: db, Cache: cache}
}

func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if s.Cache.Get(ctx, "categories:all", &categories) {
		return categories, nil
	}
	if err := s.DB.Where("active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, "categories:all", categories)
	return categories, nil
}

func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	var c models.Category
	if err := s.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) GetBySlug(categorySlug string) (*models.Category, error) {
	var c models.Category
	if err := s.DB.Where("slug = ? AND active = ?", categorySlug, true).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) GetWithProducts(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.DB.Where("active = ? AND product_count > 0", true).
		Order("name ASC").Find(&categories).Error
	return categories, err
}

func (s *CategoryService) ExistsBySlug(categorySlug string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Category{}).Where("slug = ?", categorySlug).Count(&count).Error
	return count > 0, err
}

func (s *CategoryService) Create(ctx context.Context, c *models.Category) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	if err := s.DB.Create(c).Error; err != nil {
		return err
	}
	s.Cache.InvalidatePrefix(ctx, "categories:")
	return nil
}

func (s *CategoryService) Update(ctx context.Context, c *models.Category) error {
	if err := s.DB.Save(c).Error; err != nil {
		return err
	}
	s.Cache.InvalidatePrefix(ctx, "categories:")
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.DB.Delete(&models.Category{}, id).Error; err != nil {
		return err
	}
	s.Cache.InvalidatePrefix(ctx, "categories:")
	return nil
}
