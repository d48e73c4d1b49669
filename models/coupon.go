package models

import "time"

// CouponTransaction is the coupon-variant ledger: one row per coupon granted
// to an ancestor. The mutable counter lives on users.kuber_coupons; this table
// is the audit trail behind it. Append-only.
type CouponTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	SourceUserID *uint     `gorm:"index" json:"source_user_id,omitempty"`
	Level        *int      `json:"level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
