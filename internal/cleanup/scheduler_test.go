package cleanup

import (
	"testing"
	"time"

	"sevatrust-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCleanupTest(t *testing.T) (*Scheduler, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Donation{}, &models.OtpRecord{}))
	return &Scheduler{DB: db, PendingMaxAge: 24 * time.Hour, Interval: time.Hour}, db
}

func seedDonation(t *testing.T, db *gorm.DB, status string, age time.Duration) *models.Donation {
	d := models.Donation{
		DonorName:   "Ravi Kumar",
		DonorMobile: "9876543210",
		HeadName:    "Annadanam Fund",
		Amount:      500,
		Method:      models.MethodOnline,
		Status:      status,
	}
	require.NoError(t, db.Create(&d).Error)
	require.NoError(t, db.Model(&d).UpdateColumn("created_at", time.Now().Add(-age)).Error)
	return &d
}

func TestSweep_RemovesOnlyStalePendingDonations(t *testing.T) {
	s, db := setupCleanupTest(t)

	stale := seedDonation(t, db, models.DonationPending, 48*time.Hour)
	fresh := seedDonation(t, db, models.DonationPending, time.Hour)
	succeeded := seedDonation(t, db, models.DonationSuccess, 48*time.Hour)
	failed := seedDonation(t, db, models.DonationFailed, 48*time.Hour)

	s.Sweep()

	var remaining []models.Donation
	require.NoError(t, db.Find(&remaining).Error)
	ids := map[string]bool{}
	for _, d := range remaining {
		ids[d.ID.String()] = true
	}
	assert.False(t, ids[stale.ID.String()])
	assert.True(t, ids[fresh.ID.String()])
	assert.True(t, ids[succeeded.ID.String()])
	assert.True(t, ids[failed.ID.String()])
}

func TestSweep_RemovesExpiredOtps(t *testing.T) {
	s, db := setupCleanupTest(t)

	expired := models.OtpRecord{Mobile: "9876543210", CodeHash: "x", ExpiresAt: time.Now().Add(-time.Minute)}
	live := models.OtpRecord{Mobile: "9876543211", CodeHash: "y", ExpiresAt: time.Now().Add(5 * time.Minute)}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&live).Error)

	s.Sweep()

	var remaining []models.OtpRecord
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, live.ID, remaining[0].ID)
}
