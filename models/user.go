package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an account row. Phone doubles as the public referral code (legacy
// behavior carried over from the original storefront).
type User struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	FirstName  string  `gorm:"size:50;not null" json:"first_name"`
	LastName   string  `gorm:"size:50;not null" json:"last_name"`
	Email      string  `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone      string  `gorm:"uniqueIndex;size:15;not null" json:"phone"`
	Password   string  `gorm:"size:120;not null" json:"-"`
	Role       Role    `gorm:"size:10;not null;default:'USER'" json:"role"`
	Enabled    bool    `gorm:"not null;default:true" json:"enabled"`
	SupabaseID *string `gorm:"index" json:"-"`

	// KuberCoupons is the coupon-variant reward counter. Mutated only by the
	// referral engine, always together with a coupon_transactions row.
	KuberCoupons int `gorm:"not null;default:0" json:"kuber_coupons"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
