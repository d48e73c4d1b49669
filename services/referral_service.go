// services/referral_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"kuberfashion-backend/config"
	"kuberfashion-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientCoins = errors.New("insufficient coin balance")

// ReferralService owns the referral forest (referral_relations), the reward
// ledgers (coin_transactions / coupon_transactions) and the balances they feed.
// It is invoked exactly once per successful registration and answers the
// stats/tree read paths.
type ReferralService struct {
	DB          *gorm.DB
	Mode        config.RewardMode
	Policy      RewardPolicy
	CompanyCode string
}

func NewReferralService(db *gorm.DB, cfg *config.Config) *ReferralService {
	return &ReferralService{
		DB:          db,
		Mode:        cfg.RewardMode,
		Policy:      PolicyFromConfig(cfg),
		CompanyCode: cfg.CompanyCode,
	}
}

// HandlePostRegistration links the new user into the referral forest and
// propagates rewards up the ancestor chain. Blank codes, unknown codes,
// self-referrals and would-be cycles are silent no-ops, never errors.
//
// Callers treat a returned error as non-fatal: the account already exists and
// stays usable, and every credit below runs in its own transaction, so a fault
// can cut the propagation short but never half-credit a recipient.
func (s *ReferralService) HandlePostRegistration(newUser *models.User, referralCode string) error {
	if bonus := s.Policy.RegistrationBonus(); bonus > 0 {
		if err := s.credit(newUser.ID, bonus, nil, nil, models.ReasonRegistrationBonus); err != nil {
			return fmt.Errorf("registration bonus for user %d: %w", newUser.ID, err)
		}
	}

	code := strings.TrimSpace(referralCode)
	if code == "" {
		return nil
	}
	if s.CompanyCode != "" && strings.EqualFold(code, s.CompanyCode) {
		log.Printf("[referral] user %d signed up with the company code, no linkage", newUser.ID)
		return nil
	}

	// The referral code is the referrer's phone number (legacy convention).
	var referrer models.User
	err := s.DB.Where("phone = ?", code).First(&referrer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve referral code: %w", err)
	}

	if referrer.ID == newUser.ID {
		return nil
	}

	cyclic, err := s.wouldCycle(newUser.ID, referrer.ID)
	if err != nil {
		return fmt.Errorf("cycle check: %w", err)
	}
	if cyclic {
		log.Printf("[referral] refusing link %d -> %d: would create a cycle", newUser.ID, referrer.ID)
		return nil
	}

	if err := s.link(newUser.ID, referrer.ID); err != nil {
		return fmt.Errorf("link referral: %w", err)
	}

	return s.propagate(newUser.ID, referrer.ID)
}

// wouldCycle walks up to MaxLevels ancestors starting at the candidate
// referrer and reports whether the child shows up in that chain. Edges are
// immutable once written, so the walk needs no locking.
func (s *ReferralService) wouldCycle(childID, candidateID uint) (bool, error) {
	current := candidateID
	for i := 0; i < s.Policy.MaxLevels(); i++ {
		if current == childID {
			return true, nil
		}
		parentID, err := s.parentOf(current)
		if err != nil {
			return false, err
		}
		if parentID == nil {
			return false, nil
		}
		current = *parentID
	}
	return false, nil
}

// link inserts the parent edge for the child, at most once. The first link
// wins; re-invocations with a different referrer leave the edge untouched.
// The unique index on user_id backs this up under concurrent registration.
func (s *ReferralService) link(childID, parentID uint) error {
	var existing models.ReferralRelation
	err := s.DB.Where("user_id = ?", childID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	rel := models.ReferralRelation{UserID: childID, ParentID: &parentID}
	return s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rel).Error
}

// propagate walks the ancestor chain starting at the direct referrer and
// credits each level per the active policy. Stops early when the chain runs
// out, and always after MaxLevels.
func (s *ReferralService) propagate(sourceID, referrerID uint) error {
	current := referrerID
	for level := 1; level <= s.Policy.MaxLevels(); level++ {
		if amount := s.Policy.RewardAt(level); amount > 0 {
			lvl := level
			src := sourceID
			reason := fmt.Sprintf("%s%d", models.ReasonReferralLevel, level)
			if err := s.credit(current, amount, &src, &lvl, reason); err != nil {
				return fmt.Errorf("credit level %d recipient %d: %w", level, current, err)
			}
		}

		parentID, err := s.parentOf(current)
		if err != nil {
			return err
		}
		if parentID == nil {
			break
		}
		current = *parentID
	}
	return nil
}

func (s *ReferralService) parentOf(userID uint) (*uint, error) {
	var rel models.ReferralRelation
	err := s.DB.Where("user_id = ?", userID).First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rel.ParentID, nil
}

// credit books one grant: ledger row plus balance mutation, atomically, per
// recipient. Dispatches on the deployment's reward variant.
func (s *ReferralService) credit(userID uint, amount int64, sourceID *uint, level *int, reason string) error {
	if s.Mode == config.RewardModeCoupons {
		return s.creditCoupons(userID, int(amount), sourceID, level)
	}
	return s.creditCoins(userID, amount, sourceID, level, reason)
}

func (s *ReferralService) creditCoins(userID uint, amount int64, sourceID *uint, level *int, reason string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Balance rows are created lazily on first credit.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CoinBalance{UserID: userID}).Error; err != nil {
			return err
		}

		// Serialize concurrent credits to the same recipient on the balance
		// row, then apply the increment in-database so no read value is ever
		// written back stale.
		var bal models.CoinBalance
		if err := forUpdate(tx).Where("user_id = ?", userID).First(&bal).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CoinBalance{}).Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", amount),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		entry := models.CoinTransaction{
			UserID:       userID,
			SourceUserID: sourceID,
			Type:         models.CoinTxEarn,
			Amount:       amount,
			Level:        level,
			Reason:       reason,
		}
		return tx.Create(&entry).Error
	})
}

func (s *ReferralService) creditCoupons(userID uint, count int, sourceID *uint, level *int) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("kuber_coupons", gorm.Expr("kuber_coupons + ?", count)).Error; err != nil {
			return err
		}

		entry := models.CouponTransaction{
			UserID:       userID,
			SourceUserID: sourceID,
			Level:        level,
		}
		return tx.Create(&entry).Error
	})
}

// SpendCoins debits a user's balance and books the matching SPEND ledger row.
// Fails with ErrInsufficientCoins when the locked balance cannot cover it.
func (s *ReferralService) SpendCoins(userID uint, amount int64, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("spend amount must be positive, got %d", amount)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var bal models.CoinBalance
		err := forUpdate(tx).Where("user_id = ?", userID).First(&bal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsufficientCoins
		}
		if err != nil {
			return err
		}
		if bal.Balance < amount {
			return ErrInsufficientCoins
		}

		res := tx.Model(&models.CoinBalance{}).
			Where("user_id = ? AND balance >= ?", userID, amount).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance - ?", amount),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCoins
		}

		entry := models.CoinTransaction{
			UserID: userID,
			Type:   models.CoinTxSpend,
			Amount: amount,
			Reason: reason,
		}
		return tx.Create(&entry).Error
	})
}

// CoinBalanceOf returns the current balance, zero if no row exists yet.
func (s *ReferralService) CoinBalanceOf(userID uint) (int64, error) {
	var bal models.CoinBalance
	err := s.DB.Where("user_id = ?", userID).First(&bal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return bal.Balance, nil
}

// ReferralItem is one direct referral in the stats view.
type ReferralItem struct {
	UserID            uint   `json:"user_id"`
	Masked            string `json:"masked"`
	Status            string `json:"status"`
	SignupTime        string `json:"signup_time"`
	RewardsEarnedFrom int64  `json:"rewards_earned_from"`
}

// ReferralStats is the dashboard payload for one user.
type ReferralStats struct {
	ReferralCode         string         `json:"referral_code"`
	TotalDirectReferrals int            `json:"total_direct_referrals"`
	TotalRewardsEarned   int64          `json:"total_rewards_earned"`
	Referrals            []ReferralItem `json:"referrals"`
}

// GetReferralStats is read-only and lock-free: edges are immutable and the
// ledger is append-only, so concurrent writers cannot skew a consistent read.
func (s *ReferralService) GetReferralStats(user *models.User) (*ReferralStats, error) {
	stats := &ReferralStats{
		ReferralCode: user.Phone,
		Referrals:    []ReferralItem{},
	}

	total, err := s.totalRewards(user.ID)
	if err != nil {
		return nil, err
	}
	stats.TotalRewardsEarned = total

	var directs []models.ReferralRelation
	if err := s.DB.Preload("User").
		Where("parent_id = ?", user.ID).
		Order("created_at DESC").
		Find(&directs).Error; err != nil {
		return nil, err
	}
	stats.TotalDirectReferrals = len(directs)

	for _, rel := range directs {
		referred := rel.User
		if referred == nil {
			continue
		}
		earned, err := s.rewardsFromSource(user.ID, referred.ID)
		if err != nil {
			return nil, err
		}
		item := ReferralItem{
			UserID:            referred.ID,
			Masked:            maskPhoneStats(referred.Phone, referred.ID),
			Status:            statusOf(referred),
			SignupTime:        referred.CreatedAt.Format(time.RFC3339),
			RewardsEarnedFrom: earned,
		}
		stats.Referrals = append(stats.Referrals, item)
	}

	return stats, nil
}

func (s *ReferralService) totalRewards(userID uint) (int64, error) {
	if s.Mode == config.RewardModeCoupons {
		var count int64
		err := s.DB.Model(&models.CouponTransaction{}).
			Where("user_id = ?", userID).Count(&count).Error
		return count, err
	}
	var sum int64
	err := s.DB.Model(&models.CoinTransaction{}).
		Where("user_id = ? AND type = ?", userID, models.CoinTxEarn).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

func (s *ReferralService) rewardsFromSource(userID, sourceID uint) (int64, error) {
	if s.Mode == config.RewardModeCoupons {
		var count int64
		err := s.DB.Model(&models.CouponTransaction{}).
			Where("user_id = ? AND source_user_id = ?", userID, sourceID).
			Count(&count).Error
		return count, err
	}
	var sum int64
	err := s.DB.Model(&models.CoinTransaction{}).
		Where("user_id = ? AND source_user_id = ?", userID, sourceID).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

// maskPhoneStats keeps the last 4 digits: "9876543210" -> "******3210".
// Falls back to "user-{id}" when the phone is too short to mask.
func maskPhoneStats(phone string, userID uint) string {
	if len(phone) >= 4 {
		return "******" + phone[len(phone)-4:]
	}
	return fmt.Sprintf("user-%d", userID)
}

func statusOf(u *models.User) string {
	if u.Enabled {
		return "active"
	}
	return "inactive"
}

// forUpdate adds a pessimistic row lock where the backend supports it. The
// sqlite test backend has no FOR UPDATE syntax; its single-writer model covers
// the same races there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
