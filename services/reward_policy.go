package services

import (
	"math"

	"kuberfashion-backend/config"
)

// RewardPolicy decides what an ancestor at a given level earns when a new
// descendant registers. Level 1 is the direct referrer.
type RewardPolicy interface {
	// RegistrationBonus is granted to the new user itself, independent of any
	// referrer. Zero means no base grant.
	RegistrationBonus() int64
	// RewardAt returns the grant for an ancestor at the given level, 0 to skip.
	RewardAt(level int) int64
	// MaxLevels bounds the ancestor walk.
	MaxLevels() int
}

// CoinRewardPolicy pays a fixed signup bonus to the new user and a decaying
// percentage of that bonus to each ancestor level.
type CoinRewardPolicy struct {
	Bonus          int64
	PercentByLevel []int
}

func (p CoinRewardPolicy) RegistrationBonus() int64 { return p.Bonus }

func (p CoinRewardPolicy) RewardAt(level int) int64 {
	if level < 1 || level > len(p.PercentByLevel) {
		return 0
	}
	return int64(math.Round(float64(p.Bonus) * float64(p.PercentByLevel[level-1]) / 100.0))
}

func (p CoinRewardPolicy) MaxLevels() int { return len(p.PercentByLevel) }

// CouponRewardPolicy grants exactly one coupon per ancestor level, flat, and
// nothing to the new user.
type CouponRewardPolicy struct {
	Levels int
}

func (p CouponRewardPolicy) RegistrationBonus() int64 { return 0 }

func (p CouponRewardPolicy) RewardAt(level int) int64 {
	if level < 1 || level > p.Levels {
		return 0
	}
	return 1
}

func (p CouponRewardPolicy) MaxLevels() int { return p.Levels }

// PolicyFromConfig picks the deployment's reward variant.
func PolicyFromConfig(cfg *config.Config) RewardPolicy {
	if cfg.RewardMode == config.RewardModeCoupons {
		return CouponRewardPolicy{Levels: cfg.CouponMaxLevels}
	}
	return CoinRewardPolicy{Bonus: cfg.RegistrationBonus, PercentByLevel: cfg.PercentByLevel}
}
