// services/product_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"kuberfashion-backend/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ProductService struct {
	DB    *gorm.DB
	Cache *Cache
}

func NewProductService(db *gorm.DB, cache *Cache) *ProductService {
	return &ProductService{DB: db, Cache: cache}
}

// PagedProducts is a paginated slice plus the total before paging.
type PagedProducts struct {
	Items      []models.Product `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalPages int              `json:"total_pages"`
}

func (s *ProductService) active() *gorm.DB {
	return s.DB.Preload("Category").Preload("Images").Where("active = ?", true)
}

func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.Cache.Get(ctx, "products:all", &products) {
		return products, nil
	}
	if err := s.active().Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, "products:all", products)
	return products, nil
}

func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := s.DB.Preload("Category").Preload("Images").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) GetBySlug(productSlug string) (*models.Product, error) {
	var p models.Product
	if err := s.active().Where("slug = ?", productSlug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) GetFeatured(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.Cache.Get(ctx, "products:featured", &products) {
		return products, nil
	}
	if err := s.active().Where("featured = ?", true).Find(&products).Error; err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, "products:featured", products)
	return products, nil
}

// GetByCategory pages products of one category. sortBy is allow-listed to keep
// raw column names out of the ORDER BY.
func (s *ProductService) GetByCategory(categorySlug string, page, size int, sortBy, sortDir string) (*PagedProducts, error) {
	var category models.Category
	if err := s.DB.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		return nil, err
	}

	sortColumns := map[string]string{
		"price":      "price",
		"rating":     "rating",
		"created_at": "created_at",
		"name":       "name",
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortDir, "asc") {
		dir = "ASC"
	}

	query := s.active().Where("category_id = ?", category.ID)
	return s.paginate(query, page, size, fmt.Sprintf("%s %s", column, dir))
}

func (s *ProductService) Search(keyword string, page, size int) (*PagedProducts, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	query := s.active().Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	return s.paginate(query, page, size, "created_at DESC")
}

func (s *ProductService) GetByPriceRange(min, max float64, page, size int) (*PagedProducts, error) {
	query := s.active().Where("price BETWEEN ? AND ?", min, max)
	return s.paginate(query, page, size, "price ASC")
}

func (s *ProductService) GetTopRated(limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.active().Order("rating DESC").Limit(limit).Find(&products).Error
	return products, err
}

func (s *ProductService) GetNewest(limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.active().Order("created_at DESC").Limit(limit).Find(&products).Error
	return products, err
}

// GetTrending approximates trending as highly-reviewed in-stock items.
func (s *ProductService) GetTrending(limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.active().Where("in_stock = ?", true).
		Order("reviews DESC, rating DESC").Limit(limit).Find(&products).Error
	return products, err
}

func (s *ProductService) CountActive() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Product{}).Where("active = ?", true).Count(&count).Error
	return count, err
}

func (s *ProductService) CountInStock() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Product{}).
		Where("active = ? AND in_stock = ?", true, true).Count(&count).Error
	return count, err
}

// Create slugifies the name (suffixing on collision) and bumps the category's
// product count.
func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	var clashes int64
	if err := s.DB.Model(&models.Product{}).Where("slug LIKE ?", p.Slug+"%").Count(&clashes).Error; err != nil {
		return err
	}
	if clashes > 0 {
		p.Slug = fmt.Sprintf("%s-%d", p.Slug, clashes+1)
	}
	if p.OriginalPrice > p.Price && p.OriginalPrice > 0 {
		p.Discount = int((p.OriginalPrice - p.Price) / p.OriginalPrice * 100)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Model(&models.Category{}).Where("id = ?", p.CategoryID).
			UpdateColumn("product_count", gorm.Expr("product_count + 1")).Error
	})
	if err != nil {
		return err
	}

	s.Cache.InvalidatePrefix(ctx, "products:")
	return nil
}

func (s *ProductService) Update(ctx context.Context, p *models.Product) error {
	if err := s.DB.Save(p).Error; err != nil {
		return err
	}
	s.Cache.InvalidatePrefix(ctx, "products:")
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return tx.Model(&models.Category{}).
			Where("id = ? AND product_count > 0", p.CategoryID).
			UpdateColumn("product_count", gorm.Expr("product_count - 1")).Error
	})
	if err != nil {
		return err
	}
	s.Cache.InvalidatePrefix(ctx, "products:")
	return nil
}

func (s *ProductService) paginate(query *gorm.DB, page, size int, order string) (*PagedProducts, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Product
	if err := query.Order(order).Offset((page - 1) * size).Limit(size).Find(&items).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &PagedProducts{Items: items, Total: total, Page: page, Size: size, TotalPages: totalPages}, nil
}
