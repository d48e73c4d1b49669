package models

import "time"

// ReferralRelation is one parent edge in the referral forest: "User was
// referred by Parent". At most one row per user, written once and never
// updated, so the edge set stays a forest (in-degree ≤ 1, no cycles).
type ReferralRelation struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	UserID   uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	ParentID *uint `gorm:"index" json:"parent_id,omitempty"` // nil for roots

	User   *User `gorm:"foreignKey:UserID" json:"-"`
	Parent *User `gorm:"foreignKey:ParentID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
