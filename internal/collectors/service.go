package collectors

import (
	"encoding/json"
	"strings"
	"time"

	"sevatrust-backend/internal/models"
	"sevatrust-backend/internal/pkg/validation"
	"sevatrust-backend/internal/referrals"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service drives the collector lifecycle: a user applies with KYC details,
// an admin approves or rejects, and an approved collector can be disabled
// without losing their referral code or history.
type Service struct {
	DB        *gorm.DB
	Referrals *referrals.Service
}

type ApplyInput struct {
	IDType    string   `json:"id_type"`
	IDNumber  string   `json:"id_number"`
	Documents []string `json:"documents"`
}

// Apply files a collector application for the user. The user keeps donating
// rights either way; only the review outcome grants a referral code.
func (s *Service) Apply(userID uuid.UUID, input ApplyInput) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	switch u.Role {
	case models.RoleCollectorPending:
		return nil, ErrAlreadyPending
	case models.RoleCollectorApproved:
		return nil, ErrAlreadyCollector
	}

	idType := strings.ToUpper(strings.TrimSpace(input.IDType))
	idNumber := strings.ToUpper(strings.TrimSpace(input.IDNumber))
	if !validation.KnownIDType(idType) || !validation.IsValidGovernmentID(idType, idNumber) {
		return nil, ErrInvalidID
	}

	docs, err := json.Marshal(input.Documents)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"role":              models.RoleCollectorPending,
		"kyc_id_type":       idType,
		"kyc_id_number":     idNumber,
		"kyc_documents":     datatypes.JSON(docs),
		"kyc_status":        models.KYCPending,
		"kyc_applied_at":    now,
		"kyc_reviewed_at":   nil,
		"kyc_reject_reason": "",
	}
	if err := s.DB.Model(&u).Updates(updates).Error; err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID.String()).Msg("Collector application filed")
	return &u, nil
}

// Approve promotes a pending applicant and assigns their referral code. The
// assignment is idempotent, so re-approving after a partial failure is safe.
func (s *Service) Approve(userID uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if u.Role != models.RoleCollectorPending {
		return nil, ErrNotPending
	}

	now := time.Now()
	if err := s.DB.Model(&u).Updates(map[string]interface{}{
		"role":            models.RoleCollectorApproved,
		"kyc_status":      models.KYCApproved,
		"kyc_reviewed_at": now,
	}).Error; err != nil {
		return nil, err
	}

	code, err := s.Referrals.AssignCode(userID)
	if err != nil {
		return nil, err
	}
	u.Role = models.RoleCollectorApproved
	u.KYCStatus = models.KYCApproved
	u.KYCReviewedAt = &now
	u.ReferralCode = &code
	log.Info().Str("user_id", u.ID.String()).Str("referral_code", code).Msg("Collector approved")
	return &u, nil
}

// Reject closes a pending application with a reason and returns the user to
// their plain role.
func (s *Service) Reject(userID uuid.UUID, reason string) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if u.Role != models.RoleCollectorPending {
		return nil, ErrNotPending
	}

	now := time.Now()
	if err := s.DB.Model(&u).Updates(map[string]interface{}{
		"role":              models.RoleUser,
		"kyc_status":        models.KYCRejected,
		"kyc_reviewed_at":   now,
		"kyc_reject_reason": strings.TrimSpace(reason),
	}).Error; err != nil {
		return nil, err
	}
	u.Role = models.RoleUser
	u.KYCStatus = models.KYCRejected
	u.KYCReviewedAt = &now
	u.KYCRejectReason = strings.TrimSpace(reason)
	log.Info().Str("user_id", u.ID.String()).Msg("Collector application rejected")
	return &u, nil
}

// ToggleDisabled flips the disabled flag on an approved collector and
// reports the state after the flip. A disabled collector keeps their code
// and history but the code stops validating.
func (s *Service) ToggleDisabled(userID uuid.UUID) (disabled bool, err error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", userID).Error; err != nil {
		return false, ErrUserNotFound
	}
	if u.Role != models.RoleCollectorApproved {
		return false, ErrNotCollector
	}

	next := !u.CollectorDisabled
	if err := s.DB.Model(&u).Update("collector_disabled", next).Error; err != nil {
		return false, err
	}
	log.Info().Str("user_id", u.ID.String()).Bool("disabled", next).Msg("Collector disabled flag toggled")
	return next, nil
}

// ListApplications returns users by KYC status, newest application first.
func (s *Service) ListApplications(status string) ([]models.User, error) {
	q := s.DB.Model(&models.User{})
	if status != "" {
		q = q.Where("kyc_status = ?", status)
	} else {
		q = q.Where("kyc_status <> ?", models.KYCNone)
	}
	var users []models.User
	if err := q.Order("kyc_applied_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
