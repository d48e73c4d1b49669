package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Slug         string `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Image        string `gorm:"size:500" json:"image"`
	Description  string `gorm:"size:500" json:"description"`
	ProductCount int    `gorm:"not null;default:0" json:"product_count"`
	Active       bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
