package cleanup

import (
	"fmt"
	"time"

	"sevatrust-backend/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Scheduler periodically removes abandoned pending donations and expired
// OTP records. Terminal donations are never touched.
type Scheduler struct {
	DB            *gorm.DB
	PendingMaxAge time.Duration
	Interval      time.Duration

	cron *cron.Cron
}

// Start registers the sweep on a cron schedule and fires an initial sweep
// shortly after startup so a restart doesn't postpone overdue cleanup by a
// full interval.
func (s *Scheduler) Start() error {
	if s.cron != nil {
		return nil
	}
	s.cron = cron.New()

	spec := fmt.Sprintf("@every %s", s.Interval)
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()

	go func() {
		time.Sleep(10 * time.Second)
		s.Sweep()
	}()

	log.Info().Str("interval", s.Interval.String()).Str("pending_max_age", s.PendingMaxAge.String()).Msg("Cleanup scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep runs one cleanup pass and logs what it removed.
func (s *Scheduler) Sweep() {
	donations := s.sweepPendingDonations()
	otps := s.sweepExpiredOtps()
	if donations > 0 || otps > 0 {
		log.Info().Int64("pending_donations", donations).Int64("expired_otps", otps).Msg("Cleanup sweep removed stale records")
	}
}

func (s *Scheduler) sweepPendingDonations() int64 {
	cutoff := time.Now().Add(-s.PendingMaxAge)
	res := s.DB.Unscoped().
		Where("status = ? AND created_at < ?", models.DonationPending, cutoff).
		Delete(&models.Donation{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("Cleanup of pending donations failed")
		return 0
	}
	return res.RowsAffected
}

func (s *Scheduler) sweepExpiredOtps() int64 {
	res := s.DB.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&models.OtpRecord{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("Cleanup of expired OTP records failed")
		return 0
	}
	return res.RowsAffected
}
