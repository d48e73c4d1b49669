package models

import "time"

// CoinTxType indicates the direction of a coin ledger entry.
type CoinTxType string

const (
	CoinTxEarn  CoinTxType = "EARN"
	CoinTxSpend CoinTxType = "SPEND"
)

// Reason codes written to the coin ledger.
const (
	ReasonRegistrationBonus = "REGISTRATION_BONUS"
	ReasonReferralLevel     = "REFERRAL_LEVEL_" // + level number
)

// CoinBalance is the running coin total for one user (coin variant). Created
// lazily on first credit. Every mutation pairs with a CoinTransaction row and
// happens inside one transaction with the row update itself atomic, so the
// balance always equals the signed ledger sum.
type CoinBalance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CoinTransaction is one immutable ledger entry. SourceUserID points at the
// descendant whose registration triggered the grant; it is nil, together with
// Level, for the flat registration bonus and for spends.
type CoinTransaction struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	SourceUserID *uint      `gorm:"index" json:"source_user_id,omitempty"`
	Type         CoinTxType `gorm:"size:10;not null" json:"type"`
	Amount       int64      `gorm:"not null" json:"amount"`
	Level        *int       `json:"level,omitempty"`
	Reason       string     `gorm:"size:50;not null" json:"reason"`
	CreatedAt    time.Time  `json:"created_at"`
}
