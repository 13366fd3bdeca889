package referrals

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"sevatrust-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	codePrefix = "SEVA"
	// Excludes 0/O and 1/I: codes are read aloud and typed from memory.
	codeAlphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeRandomLen = 6
	codeAttempts  = 5
)

// Service resolves referral codes to collectors and derives leaderboard and
// dashboard aggregates from donation records.
type Service struct {
	DB *gorm.DB
}

// CollectorInfo is the successful code-resolution result.
type CollectorInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CollectorStats is one leaderboard row.
type CollectorStats struct {
	Rank          int       `json:"rank" gorm:"-"`
	CollectorID   uuid.UUID `json:"collector_id" gorm:"column:collector_id"`
	CollectorName string    `json:"collector_name" gorm:"column:collector_name"`
	TotalAmount   float64   `json:"total_amount" gorm:"column:total_amount"`
	DonationCount int64     `json:"donation_count" gorm:"column:donation_count"`
}

// AttributedDonation is a redacted recent-donation entry on the dashboard.
type AttributedDonation struct {
	DonorName string    `json:"donor_name"`
	Amount    float64   `json:"amount"`
	HeadName  string    `json:"head_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dashboard combines the collector's own stats, the top-5 leaderboard and
// their 10 most recent attributed donations.
type Dashboard struct {
	ReferralCode string               `json:"referral_code"`
	TotalAmount  float64              `json:"total_amount"`
	Count        int64                `json:"donation_count"`
	Leaderboard  []CollectorStats     `json:"leaderboard"`
	Recent       []AttributedDonation `json:"recent_donations"`
}

// GenerateCode produces a unique human-readable code, retrying a bounded
// number of times before falling back to a timestamp-derived code.
func (s *Service) GenerateCode() (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := randomReferralCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := s.DB.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return fmt.Sprintf("%s%d", codePrefix, time.Now().UnixMilli()%100000000), nil
}

// AssignCode assigns a referral code to the user at most once. Idempotent:
// an existing code is returned unchanged. The persist is an atomic
// conditional update so two concurrent assignments converge on one code,
// and a uniqueness collision on the code itself is retried once.
func (s *Service) AssignCode(userID uuid.UUID) (string, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if u.ReferralCode != nil && *u.ReferralCode != "" {
		return *u.ReferralCode, nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		code, err := s.GenerateCode()
		if err != nil {
			return "", err
		}
		res := s.DB.Model(&models.User{}).
			Where("id = ? AND referral_code IS NULL", userID).
			Update("referral_code", code)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				log.Warn().Str("code", code).Msg("Referral code collision, retrying")
				continue
			}
			return "", res.Error
		}
		if res.RowsAffected == 1 {
			return code, nil
		}
		// Lost the race: a concurrent call assigned first. Return theirs.
		if err := s.DB.First(&u, "id = ?", userID).Error; err != nil {
			return "", err
		}
		if u.ReferralCode != nil && *u.ReferralCode != "" {
			return *u.ReferralCode, nil
		}
		return "", ErrCodeAssignment
	}
	return "", ErrCodeAssignment
}

// ValidateCode is the strict anti-enumeration path used by public
// endpoints. Every failure maps to the same generic error.
func (s *Service) ValidateCode(code string) (*CollectorInfo, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < len(codePrefix)+1 || len(code) > 16 {
		return nil, ErrInvalidCode
	}
	var u models.User
	if err := s.DB.Where("referral_code = ?", code).First(&u).Error; err != nil {
		return nil, ErrInvalidCode
	}
	if u.CollectorDisabled || u.Role != models.RoleCollectorApproved || u.Name == "" {
		return nil, ErrInvalidCode
	}
	return &CollectorInfo{ID: u.ID, Name: u.Name}, nil
}

// TopCollectors aggregates SUCCESS donations with genuine collector
// attribution. Ties on total amount break toward the collector whose first
// attributed donation is older.
func (s *Service) TopCollectors(limit int) ([]CollectorStats, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []CollectorStats
	err := s.DB.Model(&models.Donation{}).
		Select("collector_id, collector_name, SUM(amount) AS total_amount, COUNT(*) AS donation_count").
		Where("status = ? AND has_collector_attribution = ?", models.DonationSuccess, true).
		Group("collector_id, collector_name").
		Order("total_amount DESC, MIN(created_at) ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// Stats returns one collector's lifetime totals. Only donations with
// has_collector_attribution count, regardless of collector_id.
func (s *Service) Stats(userID uuid.UUID) (total float64, count int64, err error) {
	row := struct {
		Total float64
		Count int64
	}{}
	err = s.DB.Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("collector_id = ? AND status = ? AND has_collector_attribution = ?",
			userID, models.DonationSuccess, true).
		Scan(&row).Error
	return row.Total, row.Count, err
}

// GetDashboard builds the collector dashboard for userID.
func (s *Service) GetDashboard(userID uuid.UUID) (*Dashboard, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	total, count, err := s.Stats(userID)
	if err != nil {
		return nil, err
	}
	board, err := s.TopCollectors(5)
	if err != nil {
		return nil, err
	}

	var recent []models.Donation
	if err := s.DB.Where("collector_id = ? AND has_collector_attribution = ?", userID, true).
		Order("created_at DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	entries := make([]AttributedDonation, 0, len(recent))
	for _, d := range recent {
		entries = append(entries, AttributedDonation{
			DonorName: d.DisplayDonorName(),
			Amount:    d.Amount,
			HeadName:  d.HeadName,
			Status:    d.Status,
			CreatedAt: d.CreatedAt,
		})
	}

	code := ""
	if u.ReferralCode != nil {
		code = *u.ReferralCode
	}
	return &Dashboard{
		ReferralCode: code,
		TotalAmount:  total,
		Count:        count,
		Leaderboard:  board,
		Recent:       entries,
	}, nil
}

func randomReferralCode() (string, error) {
	b := make([]byte, codeRandomLen)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return codePrefix + string(b), nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
