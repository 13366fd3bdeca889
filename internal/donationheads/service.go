package donationheads

import (
	"errors"
	"strings"

	"sevatrust-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("Donation head not found")
	ErrEmptyName = errors.New("Donation head name is required")
	ErrDuplicate = errors.New("A donation head with this name already exists")
)

// Service manages the catalogue of donation heads. Heads are never deleted,
// only retired, because historical donations keep pointing at them.
type Service struct {
	DB *gorm.DB
}

// ListActive returns the heads a donor can currently give towards.
func (s *Service) ListActive() ([]models.DonationHead, error) {
	var heads []models.DonationHead
	if err := s.DB.Where("active = ?", true).Order("name ASC").Find(&heads).Error; err != nil {
		return nil, err
	}
	return heads, nil
}

// ListAll returns every head including retired ones, for admin views.
func (s *Service) ListAll() ([]models.DonationHead, error) {
	var heads []models.DonationHead
	if err := s.DB.Order("name ASC").Find(&heads).Error; err != nil {
		return nil, err
	}
	return heads, nil
}

func (s *Service) Create(name, description string) (*models.DonationHead, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	var existing models.DonationHead
	if err := s.DB.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; err == nil {
		return nil, ErrDuplicate
	}

	head := models.DonationHead{
		Name:        name,
		Description: strings.TrimSpace(description),
		Active:      true,
	}
	if err := s.DB.Create(&head).Error; err != nil {
		return nil, err
	}
	log.Info().Str("head_id", head.ID.String()).Str("name", head.Name).Msg("Donation head created")
	return &head, nil
}

func (s *Service) Update(id uuid.UUID, name, description string) (*models.DonationHead, error) {
	var head models.DonationHead
	if err := s.DB.First(&head, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{}
	if n := strings.TrimSpace(name); n != "" && n != head.Name {
		var existing models.DonationHead
		if err := s.DB.Where("LOWER(name) = LOWER(?) AND id <> ?", n, id).First(&existing).Error; err == nil {
			return nil, ErrDuplicate
		}
		updates["name"] = n
	}
	if d := strings.TrimSpace(description); d != "" {
		updates["description"] = d
	}
	if len(updates) == 0 {
		return &head, nil
	}
	if err := s.DB.Model(&head).Updates(updates).Error; err != nil {
		return nil, err
	}
	if n, ok := updates["name"]; ok {
		head.Name = n.(string)
	}
	if d, ok := updates["description"]; ok {
		head.Description = d.(string)
	}
	return &head, nil
}

// SetActive retires or reinstates a head. Donations already recorded against
// a retired head are untouched; new donations to it are refused.
func (s *Service) SetActive(id uuid.UUID, active bool) (*models.DonationHead, error) {
	var head models.DonationHead
	if err := s.DB.First(&head, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}
	if err := s.DB.Model(&head).Update("active", active).Error; err != nil {
		return nil, err
	}
	head.Active = active
	log.Info().Str("head_id", head.ID.String()).Bool("active", active).Msg("Donation head state changed")
	return &head, nil
}
