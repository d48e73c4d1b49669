package services

import (
	"fmt"
	"sync"
	"testing"

	"kuberfashion-backend/config"
	"kuberfashion-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCoinService(db *gorm.DB) *ReferralService {
	return NewReferralService(db, testConfig())
}

func newCouponService(db *gorm.DB) *ReferralService {
	cfg := testConfig()
	cfg.RewardMode = config.RewardModeCoupons
	return NewReferralService(db, cfg)
}

func TestHandlePostRegistrationBonus(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoinService(db)

	t.Run("Success - blank code still grants the signup bonus", func(t *testing.T) {
		u := createTestUser(t, db, "9000000001")
		require.NoError(t, svc.HandlePostRegistration(u, ""))

		balance, err := svc.CoinBalanceOf(u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)

		var tx models.CoinTransaction
		require.NoError(t, db.Where("user_id = ?", u.ID).First(&tx).Error)
		assert.Equal(t, models.CoinTxEarn, tx.Type)
		assert.Equal(t, models.ReasonRegistrationBonus, tx.Reason)
		assert.Nil(t, tx.SourceUserID)
		assert.Nil(t, tx.Level)

		var relCount int64
		require.NoError(t, db.Model(&models.ReferralRelation{}).Where("user_id = ?", u.ID).Count(&relCount).Error)
		assert.Zero(t, relCount)
	})

	t.Run("Success - company code grants bonus without linkage", func(t *testing.T) {
		u := createTestUser(t, db, "9000000002")
		require.NoError(t, svc.HandlePostRegistration(u, "kuberfashion"))

		balance, err := svc.CoinBalanceOf(u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)

		var relCount int64
		require.NoError(t, db.Model(&models.ReferralRelation{}).Where("user_id = ?", u.ID).Count(&relCount).Error)
		assert.Zero(t, relCount)
	})

	t.Run("Success - unknown code is a silent no-op", func(t *testing.T) {
		u := createTestUser(t, db, "9000000003")
		require.NoError(t, svc.HandlePostRegistration(u, "0000000000"))

		var relCount int64
		require.NoError(t, db.Model(&models.ReferralRelation{}).Where("user_id = ?", u.ID).Count(&relCount).Error)
		assert.Zero(t, relCount)
	})

	t.Run("Success - self-referral is ignored", func(t *testing.T) {
		u := createTestUser(t, db, "9000000004")
		require.NoError(t, svc.HandlePostRegistration(u, u.Phone))

		var relCount int64
		require.NoError(t, db.Model(&models.ReferralRelation{}).Where("user_id = ?", u.ID).Count(&relCount).Error)
		assert.Zero(t, relCount)
	})
}

func TestHandlePostRegistrationLinking(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoinService(db)

	referrer := createTestUser(t, db, "9100000001")
	other := createTestUser(t, db, "9100000002")

	t.Run("Success - valid code links child to referrer", func(t *testing.T) {
		u := createTestUser(t, db, "9100000003")
		require.NoError(t, svc.HandlePostRegistration(u, referrer.Phone))

		var rel models.ReferralRelation
		require.NoError(t, db.Where("user_id = ?", u.ID).First(&rel).Error)
		require.NotNil(t, rel.ParentID)
		assert.Equal(t, referrer.ID, *rel.ParentID)
	})

	t.Run("Success - first link wins, later codes leave the edge untouched", func(t *testing.T) {
		u := createTestUser(t, db, "9100000004")
		require.NoError(t, svc.HandlePostRegistration(u, referrer.Phone))
		require.NoError(t, svc.HandlePostRegistration(u, other.Phone))

		var rels []models.ReferralRelation
		require.NoError(t, db.Where("user_id = ?", u.ID).Find(&rels).Error)
		require.Len(t, rels, 1)
		assert.Equal(t, referrer.ID, *rels[0].ParentID)
	})

	t.Run("Success - a link that would close a cycle is refused", func(t *testing.T) {
		a := createTestUser(t, db, "9100000005")
		b := createTestUser(t, db, "9100000006")
		linkEdge(t, db, b.ID, a.ID)

		require.NoError(t, svc.HandlePostRegistration(a, b.Phone))

		var relCount int64
		require.NoError(t, db.Model(&models.ReferralRelation{}).Where("user_id = ?", a.ID).Count(&relCount).Error)
		assert.Zero(t, relCount, "edge a -> b would make a cycle")
	})

	t.Run("Success - deeper cycles are caught too", func(t *testing.T) {
		// a <- b <- c, then a tries to register under c.
		a := createTestUser(t, db, "9100000007")
		b := createTestUser(t, db, "9100000008")
		c := createTestUser(t, db, "9100000009")
		linkEdge(t, db, b.ID, a.ID)
		linkEdge(t, db, c.ID, b.ID)

		require.NoError(t, svc.HandlePostRegistration(a, c.Phone))

		var relCount int64
		require.NoError(t, db.Model(&models.ReferralRelation{}).Where("user_id = ?", a.ID).Count(&relCount).Error)
		assert.Zero(t, relCount)

		// The existing chain is untouched.
		var rel models.ReferralRelation
		require.NoError(t, db.Where("user_id = ?", c.ID).First(&rel).Error)
		assert.Equal(t, b.ID, *rel.ParentID)
	})
}

func TestCoinPropagation(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoinService(db)

	// Chain u[0] <- u[1] <- ... <- u[9], u[0] is the root.
	users := make([]*models.User, 10)
	for i := range users {
		users[i] = createTestUser(t, db, fmt.Sprintf("92000000%02d", i))
		if i > 0 {
			linkEdge(t, db, users[i].ID, users[i-1].ID)
		}
	}

	newcomer := createTestUser(t, db, "9200000099")
	require.NoError(t, svc.HandlePostRegistration(newcomer, users[9].Phone))

	// round(50 * pct / 100) for [30, 20, 15, 10, 10, 10, 5].
	wantByLevel := []int64{15, 10, 8, 5, 5, 5, 3}

	t.Run("Success - newcomer gets the signup bonus", func(t *testing.T) {
		balance, err := svc.CoinBalanceOf(newcomer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("Success - each ancestor earns the level amount", func(t *testing.T) {
		for level, want := range wantByLevel {
			ancestor := users[9-level]
			balance, err := svc.CoinBalanceOf(ancestor.ID)
			require.NoError(t, err)
			assert.Equal(t, want, balance, "ancestor at level %d", level+1)

			var tx models.CoinTransaction
			require.NoError(t, db.Where("user_id = ?", ancestor.ID).First(&tx).Error)
			require.NotNil(t, tx.Level)
			assert.Equal(t, level+1, *tx.Level)
			require.NotNil(t, tx.SourceUserID)
			assert.Equal(t, newcomer.ID, *tx.SourceUserID)
			assert.Equal(t, fmt.Sprintf("REFERRAL_LEVEL_%d", level+1), tx.Reason)
		}
	})

	t.Run("Success - propagation stops after the last configured level", func(t *testing.T) {
		for i := 0; i <= 2; i++ { // ancestors beyond level 7
			balance, err := svc.CoinBalanceOf(users[i].ID)
			require.NoError(t, err)
			assert.Zero(t, balance, "ancestor %d is beyond the reward depth", i)
		}
	})
}

func TestZeroRewardLevelStillWalks(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoinService(db)
	svc.Policy = CoinRewardPolicy{Bonus: 50, PercentByLevel: []int{0, 20}}

	grandparent := createTestUser(t, db, "9300000001")
	parent := createTestUser(t, db, "9300000002")
	linkEdge(t, db, parent.ID, grandparent.ID)

	newcomer := createTestUser(t, db, "9300000003")
	require.NoError(t, svc.HandlePostRegistration(newcomer, parent.Phone))

	parentBal, err := svc.CoinBalanceOf(parent.ID)
	require.NoError(t, err)
	assert.Zero(t, parentBal, "zero-percent level earns nothing")

	grandBal, err := svc.CoinBalanceOf(grandparent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), grandBal, "walk continues past a zero level")
}

func TestCouponPropagation(t *testing.T) {
	db := setupTestDB(t)
	svc := newCouponService(db)

	// Chain of 8 ancestors so levels beyond the cap exist.
	users := make([]*models.User, 8)
	for i := range users {
		users[i] = createTestUser(t, db, fmt.Sprintf("94000000%02d", i))
		if i > 0 {
			linkEdge(t, db, users[i].ID, users[i-1].ID)
		}
	}

	newcomer := createTestUser(t, db, "9400000099")
	require.NoError(t, svc.HandlePostRegistration(newcomer, users[7].Phone))

	t.Run("Success - no signup bonus in coupon mode", func(t *testing.T) {
		var u models.User
		require.NoError(t, db.First(&u, newcomer.ID).Error)
		assert.Zero(t, u.KuberCoupons)

		var count int64
		require.NoError(t, db.Model(&models.CouponTransaction{}).Where("user_id = ?", newcomer.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Success - one coupon per ancestor level up to the cap", func(t *testing.T) {
		for level := 1; level <= 6; level++ {
			ancestor := users[8-level]
			var u models.User
			require.NoError(t, db.First(&u, ancestor.ID).Error)
			assert.Equal(t, 1, u.KuberCoupons, "ancestor at level %d", level)

			var tx models.CouponTransaction
			require.NoError(t, db.Where("user_id = ?", ancestor.ID).First(&tx).Error)
			require.NotNil(t, tx.Level)
			assert.Equal(t, level, *tx.Level)
		}
	})

	t.Run("Success - ancestors beyond the cap earn nothing", func(t *testing.T) {
		for i := 0; i <= 1; i++ {
			var u models.User
			require.NoError(t, db.First(&u, users[i].ID).Error)
			assert.Zero(t, u.KuberCoupons)
		}
	})
}

func TestSpendCoins(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoinService(db)

	u := createTestUser(t, db, "9500000001")
	require.NoError(t, svc.HandlePostRegistration(u, ""))

	t.Run("Failure - overspend leaves the balance untouched", func(t *testing.T) {
		err := svc.SpendCoins(u.ID, 100, "TEST_SPEND")
		require.ErrorIs(t, err, ErrInsufficientCoins)

		balance, err := svc.CoinBalanceOf(u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("Failure - no balance row at all", func(t *testing.T) {
		ghost := createTestUser(t, db, "9500000002")
		err := svc.SpendCoins(ghost.ID, 1, "TEST_SPEND")
		require.ErrorIs(t, err, ErrInsufficientCoins)
	})

	t.Run("Success - spend debits and books a SPEND row", func(t *testing.T) {
		require.NoError(t, svc.SpendCoins(u.ID, 30, "ORDER_DISCOUNT"))

		balance, err := svc.CoinBalanceOf(u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), balance)

		var tx models.CoinTransaction
		require.NoError(t, db.Where("user_id = ? AND type = ?", u.ID, models.CoinTxSpend).First(&tx).Error)
		assert.Equal(t, int64(30), tx.Amount)
		assert.Equal(t, "ORDER_DISCOUNT", tx.Reason)
	})

	t.Run("Failure - non-positive amounts are rejected", func(t *testing.T) {
		require.Error(t, svc.SpendCoins(u.ID, 0, "TEST_SPEND"))
		require.Error(t, svc.SpendCoins(u.ID, -5, "TEST_SPEND"))
	})
}

func TestConcurrentCreditsSum(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoinService(db)

	u := createTestUser(t, db, "9600000001")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.creditCoins(u.ID, 1, nil, nil, "CONCURRENT_TEST")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	balance, err := svc.CoinBalanceOf(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), balance)

	var ledger int64
	require.NoError(t, db.Model(&models.CoinTransaction{}).Where("user_id = ?", u.ID).Count(&ledger).Error)
	assert.Equal(t, int64(workers), ledger, "one ledger row per credit")
}

func TestGetReferralStats(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoinService(db)

	// a refers b, b refers c. a is created raw so its only earnings come from
	// the two downstream registrations.
	a := createTestUser(t, db, "1111111111")
	b := createTestUser(t, db, "2222222222")
	require.NoError(t, svc.HandlePostRegistration(b, a.Phone))
	c := createTestUser(t, db, "3333333333")
	require.NoError(t, svc.HandlePostRegistration(c, b.Phone))

	stats, err := svc.GetReferralStats(a)
	require.NoError(t, err)

	assert.Equal(t, a.Phone, stats.ReferralCode)
	assert.Equal(t, 1, stats.TotalDirectReferrals)
	// 15 from b's registration (level 1) + 10 from c's (level 2).
	assert.Equal(t, int64(25), stats.TotalRewardsEarned)

	require.Len(t, stats.Referrals, 1)
	item := stats.Referrals[0]
	assert.Equal(t, b.ID, item.UserID)
	assert.Equal(t, "******2222", item.Masked)
	assert.Equal(t, "active", item.Status)
	assert.Equal(t, int64(15), item.RewardsEarnedFrom)
}

func TestMaskPhoneStats(t *testing.T) {
	assert.Equal(t, "******3210", maskPhoneStats("9876543210", 1))
	assert.Equal(t, "******1234", maskPhoneStats("1234", 1))
	assert.Equal(t, "user-7", maskPhoneStats("987", 7))
	assert.Equal(t, "user-9", maskPhoneStats("", 9))
}

func TestCoinRewardPolicySchedule(t *testing.T) {
	p := CoinRewardPolicy{Bonus: 50, PercentByLevel: []int{30, 20, 15, 10, 10, 10, 5}}

	assert.Equal(t, int64(50), p.RegistrationBonus())
	assert.Equal(t, 7, p.MaxLevels())

	want := []int64{15, 10, 8, 5, 5, 5, 3}
	for i, w := range want {
		assert.Equal(t, w, p.RewardAt(i+1), "level %d", i+1)
	}
	assert.Zero(t, p.RewardAt(0))
	assert.Zero(t, p.RewardAt(8))
}

func TestCouponRewardPolicySchedule(t *testing.T) {
	p := CouponRewardPolicy{Levels: 6}

	assert.Zero(t, p.RegistrationBonus())
	assert.Equal(t, 6, p.MaxLevels())
	for level := 1; level <= 6; level++ {
		assert.Equal(t, int64(1), p.RewardAt(level))
	}
	assert.Zero(t, p.RewardAt(7))
}
