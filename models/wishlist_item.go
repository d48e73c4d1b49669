package models

import "time"

type WishlistItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    uint     `gorm:"uniqueIndex:idx_wishlist_user_product,priority:1;not null" json:"user_id"`
	ProductID uint     `gorm:"uniqueIndex:idx_wishlist_user_product,priority:2;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
