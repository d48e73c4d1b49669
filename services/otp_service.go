// services/otp_service.go
package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 5
)

var (
	ErrOtpLocked      = errors.New("too many attempts, request a new code")
	ErrOtpUnavailable = errors.New("otp service unavailable")
)

// OtpService keeps one-time login codes in Redis. TTL expiry replaces the
// old in-process sweeper; the attempt counter shares the code's lifetime.
type OtpService struct {
	Redis *redis.Client
}

func NewOtpService(rdb *redis.Client) *OtpService {
	return &OtpService{Redis: rdb}
}

func otpKey(phone string) string      { return "otp:" + phone }
func attemptsKey(phone string) string { return "otp:attempts:" + phone }

// SendOtp generates and stores a 6-digit code. Delivery is just a log line;
// an SMS gateway is outside this backend.
func (s *OtpService) SendOtp(ctx context.Context, phone string) error {
	if s.Redis == nil {
		return ErrOtpUnavailable
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	pipe := s.Redis.TxPipeline()
	pipe.Set(ctx, otpKey(phone), code, otpTTL)
	pipe.Set(ctx, attemptsKey(phone), 0, otpTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	log.Printf("📱 [otp] code for %s: %s", phone, code)
	return nil
}

// VerifyOtp checks the code, consuming it on success. After otpMaxAttempts
// failures the code is dead until a new one is requested.
func (s *OtpService) VerifyOtp(ctx context.Context, phone, code string) (bool, error) {
	if s.Redis == nil {
		return false, ErrOtpUnavailable
	}
	attempts, err := s.Redis.Incr(ctx, attemptsKey(phone)).Result()
	if err != nil {
		return false, err
	}
	if attempts > otpMaxAttempts {
		return false, ErrOtpLocked
	}

	stored, err := s.Redis.Get(ctx, otpKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != code {
		return false, nil
	}

	s.Redis.Del(ctx, otpKey(phone), attemptsKey(phone))
	return true, nil
}
