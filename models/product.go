package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog item
type Product struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Name          string   `gorm:"size:200;not null" json:"name"`
	Slug          string   `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Price         float64  `gorm:"not null" json:"price"`
	OriginalPrice float64  `json:"original_price"`
	Discount      int      `gorm:"not null;default:0" json:"discount"`
	CategoryID    uint     `gorm:"index;not null" json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Image         string   `gorm:"size:500" json:"image"`
	Images        []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Rating        float64  `gorm:"not null;default:0" json:"rating"`
	Reviews       int      `gorm:"not null;default:0" json:"reviews"`
	Description   string   `gorm:"size:1000" json:"description"`
	Sizes         string   `gorm:"size:200" json:"sizes"`  // comma-separated, e.g. "S,M,L,XL"
	Colors        string   `gorm:"size:200" json:"colors"` // comma-separated
	InStock       bool     `gorm:"not null;default:true" json:"in_stock"`
	Featured      bool     `gorm:"not null;default:false;index" json:"featured"`
	StockQuantity int      `gorm:"not null;default:0" json:"stock_quantity"`
	Active        bool     `gorm:"not null;default:true;index" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"size:500;not null" json:"url"`
}
