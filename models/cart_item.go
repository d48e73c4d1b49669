package models

import "time"

// CartItem is one line in a user's cart. Adding the same product with the same
// size/color merges quantities instead of creating a second row.
type CartItem struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	UserID        uint     `gorm:"index:idx_cart_user_product,priority:1;not null" json:"user_id"`
	ProductID     uint     `gorm:"index:idx_cart_user_product,priority:2;not null" json:"product_id"`
	Product       *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int      `gorm:"not null;default:1" json:"quantity"`
	SelectedSize  string   `gorm:"size:10" json:"selected_size"`
	SelectedColor string   `gorm:"size:50" json:"selected_color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
