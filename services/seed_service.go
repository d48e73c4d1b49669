// services/seed_service.go
package services

import (
	"log"

	"kuberfashion-backend/models"
	"kuberfashion-backend/utils"

	"gorm.io/gorm"
)

// SeedData loads a starter catalog and an admin account into an empty
// database. Safe to run on every boot; it backs off as soon as data exists.
func SeedData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("ℹ️  Seed skipped, catalog already populated")
		return nil
	}

	categories := []models.Category{
		{Name: "Men", Slug: "men", Description: "Menswear and accessories", Active: true},
		{Name: "Women", Slug: "women", Description: "Womenswear and accessories", Active: true},
		{Name: "Kids", Slug: "kids", Description: "Clothing for kids", Active: true},
		{Name: "Footwear", Slug: "footwear", Description: "Shoes, sneakers and sandals", Active: true},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []models.Product{
		{
			Name: "Classic Cotton Kurta", Slug: "classic-cotton-kurta",
			Price: 24.99, OriginalPrice: 34.99, Discount: 28,
			CategoryID: categories[0].ID, Description: "Breathable cotton kurta for everyday wear",
			Sizes: "S,M,L,XL", Colors: "White,Blue,Olive",
			InStock: true, Featured: true, StockQuantity: 120, Active: true, Rating: 4.4, Reviews: 87,
		},
		{
			Name: "Embroidered Anarkali Dress", Slug: "embroidered-anarkali-dress",
			Price: 59.99, OriginalPrice: 79.99, Discount: 25,
			CategoryID: categories[1].ID, Description: "Hand-embroidered festive Anarkali",
			Sizes: "S,M,L", Colors: "Maroon,Teal",
			InStock: true, Featured: true, StockQuantity: 45, Active: true, Rating: 4.7, Reviews: 132,
		},
		{
			Name: "Kids Dino Tee", Slug: "kids-dino-tee",
			Price: 9.99, OriginalPrice: 12.99, Discount: 23,
			CategoryID: categories[2].ID, Description: "Soft tee with a dino print",
			Sizes: "2-3Y,4-5Y,6-7Y", Colors: "Green,Yellow",
			InStock: true, StockQuantity: 200, Active: true, Rating: 4.2, Reviews: 41,
		},
		{
			Name: "Ethnic Juttis", Slug: "ethnic-juttis",
			Price: 29.99, OriginalPrice: 39.99, Discount: 25,
			CategoryID: categories[3].ID, Description: "Traditional handcrafted juttis",
			Sizes: "6,7,8,9,10", Colors: "Gold,Silver",
			InStock: true, StockQuantity: 60, Active: true, Rating: 4.5, Reviews: 58,
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	for _, c := range categories {
		var n int64
		if err := db.Model(&models.Product{}).Where("category_id = ?", c.ID).Count(&n).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Category{}).Where("id = ?", c.ID).
			UpdateColumn("product_count", n).Error; err != nil {
			return err
		}
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := models.User{
		FirstName: "Admin",
		LastName:  "User",
		Email:     "admin@kuberfashion.com",
		Phone:     "9999999999",
		Password:  hashed,
		Role:      models.RoleAdmin,
		Enabled:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d categories, %d products and the admin account", len(categories), len(products))
	return nil
}
