package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"sevatrust-backend/internal/models"
	"sevatrust-backend/internal/pkg/validation"
	"sevatrust-backend/internal/sms"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	codeTTL = 5 * time.Minute

	// Per-mobile and per-IP limits are independent: IP limiting alone does
	// not stop an attacker hammering one victim mobile from many IPs.
	rateWindow  = 15 * time.Minute
	mobileLimit = 5
	ipLimit     = 10
)

// Service issues and validates hashed one-time codes bound to a normalized
// mobile number. Counters live in Redis so the limits hold across processes.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
	SMS sms.Sender
}

// Send normalizes the mobile, enforces rate limits, stores a hashed 6-digit
// code with a 5-minute expiry (superseding prior codes for the mobile) and
// dispatches it. A failed dispatch removes the stored code so no
// valid-but-undelivered code lingers.
func (s *Service) Send(ctx context.Context, mobile, sourceIP string) error {
	canonical, ok := validation.NormalizeMobile(mobile)
	if !ok {
		return ErrInvalidMobile
	}

	if err := s.checkLimit(ctx, "otp:rl:mobile:"+canonical, mobileLimit); err != nil {
		return err
	}
	if sourceIP != "" {
		if err := s.checkLimit(ctx, "otp:rl:ip:"+sourceIP, ipLimit); err != nil {
			return err
		}
	}

	code, err := randomCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Supersede any prior codes for this mobile, tolerating legacy
	// "91"-prefixed rows.
	if err := s.DB.Where("mobile IN ?", []string{canonical, "91" + canonical}).
		Delete(&models.OtpRecord{}).Error; err != nil {
		return err
	}

	rec := models.OtpRecord{
		Mobile:    canonical,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(codeTTL),
	}
	if err := s.DB.Create(&rec).Error; err != nil {
		return err
	}

	if s.SMS == nil {
		s.DB.Delete(&rec)
		return ErrDispatch
	}
	body := fmt.Sprintf("%s is your Seva Trust verification code. Valid for 5 minutes. Do not share it with anyone.", code)
	if err := s.SMS.SendText(ctx, canonical, body); err != nil {
		log.Warn().Err(err).Str("mobile", canonical).Msg("OTP dispatch failed, removing stored code")
		s.DB.Delete(&rec)
		return ErrDispatch
	}
	return nil
}

// Verify checks the code against the newest record for the mobile. A match
// consumes the record (single use); expiry clears it. Absence and mismatch
// are indistinguishable to the caller.
func (s *Service) Verify(ctx context.Context, mobile, code string) error {
	canonical, ok := validation.NormalizeMobile(mobile)
	if !ok {
		return ErrInvalidMobile
	}

	var rec models.OtpRecord
	err := s.DB.Where("mobile IN ?", []string{canonical, "91" + canonical}).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInvalid
		}
		return err
	}

	if time.Now().After(rec.ExpiresAt) {
		s.DB.Delete(&rec)
		return ErrExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		return ErrInvalid
	}
	return s.DB.Delete(&rec).Error
}

func (s *Service) checkLimit(ctx context.Context, key string, limit int64) error {
	if s.Rdb == nil {
		return nil
	}
	n, err := s.Rdb.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down must not take OTP delivery with it.
		log.Warn().Err(err).Str("key", key).Msg("OTP rate-limit counter unavailable")
		return nil
	}
	if n == 1 {
		s.Rdb.Expire(ctx, key, rateWindow)
	}
	if n > limit {
		return ErrRateLimited
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
