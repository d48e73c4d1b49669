package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"kuberfashion-backend/config"
	"kuberfashion-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ReferralRelation{},
		&models.CoinBalance{},
		&models.CoinTransaction{},
		&models.CouponTransaction{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		RewardMode:        config.RewardModeCoins,
		RegistrationBonus: 50,
		PercentByLevel:    []int{30, 20, 15, 10, 10, 10, 5},
		CouponMaxLevels:   6,
		CompanyCode:       "KUBERFASHION",
	}
}

func createTestUser(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()
	u := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     fmt.Sprintf("user-%s@test.com", phone),
		Phone:     phone,
		Password:  "hashed",
		Role:      models.RoleUser,
		Enabled:   true,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

// linkEdge writes a parent edge directly, bypassing the registration hook.
func linkEdge(t *testing.T, db *gorm.DB, childID, parentID uint) {
	t.Helper()
	rel := models.ReferralRelation{UserID: childID, ParentID: &parentID}
	require.NoError(t, db.Create(&rel).Error)
}
