package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RewardMode selects which referral reward variant is active for this deployment.
type RewardMode string

const (
	RewardModeCoins   RewardMode = "coins"
	RewardModeCoupons RewardMode = "coupons"
)

type Config struct {
	DatabaseURL    string
	Port           string
	AllowedOrigins []string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret          string
	JWTExpirationHours int

	// Referral program
	RewardMode        RewardMode
	RegistrationBonus int64
	PercentByLevel    []int
	CouponMaxLevels   int
	CompanyCode       string

	// Maintenance worker
	StaleOrderAfter time.Duration

	SeedData bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "5100"),
		AllowedOrigins:     splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
		RewardMode:         RewardMode(getEnv("REFERRAL_MODE", string(RewardModeCoins))),
		RegistrationBonus:  int64(getEnvInt("REFERRAL_REGISTRATION_BONUS", 50)),
		PercentByLevel:     parsePercents(getEnv("REFERRAL_PERCENT_BY_LEVEL", "30,20,15,10,10,10,5")),
		CouponMaxLevels:    getEnvInt("REFERRAL_COUPON_MAX_LEVELS", 6),
		CompanyCode:        getEnv("REFERRAL_COMPANY_CODE", "KUBERFASHION"),
		StaleOrderAfter:    time.Duration(getEnvInt("STALE_ORDER_HOURS", 72)) * time.Hour,
		SeedData:           strings.EqualFold(getEnv("SEED_DATA", "false"), "true"),
	}

	if cfg.RewardMode != RewardModeCoins && cfg.RewardMode != RewardModeCoupons {
		log.Printf("⚠️  Unknown REFERRAL_MODE %q, falling back to coins", cfg.RewardMode)
		cfg.RewardMode = RewardModeCoins
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("⚠️  Invalid integer for %s: %q, using %d", key, value, fallback)
	}
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePercents(s string) []int {
	var out []int
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Printf("⚠️  Invalid REFERRAL_PERCENT_BY_LEVEL entry %q, using defaults", p)
			return []int{30, 20, 15, 10, 10, 10, 5}
		}
		out = append(out, n)
	}
	return out
}
