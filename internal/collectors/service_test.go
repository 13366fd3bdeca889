package collectors

import (
	"testing"

	"sevatrust-backend/internal/models"
	"sevatrust-backend/internal/referrals"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCollectorTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Donation{}))
	return &Service{DB: db, Referrals: &referrals.Service{DB: db}}, db
}

func newUser(t *testing.T, db *gorm.DB, name string) *models.User {
	u := models.User{Name: name, Email: name + "@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func validApplication() ApplyInput {
	return ApplyInput{IDType: "PAN", IDNumber: "ABCDE1234F", Documents: []string{"uploads/kyc/pan.jpg"}}
}

func TestApply_MovesUserToPendingReview(t *testing.T) {
	svc, db := setupCollectorTest(t)
	u := newUser(t, db, "meena")

	_, err := svc.Apply(u.ID, validApplication())
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", u.ID).Error)
	assert.Equal(t, models.RoleCollectorPending, got.Role)
	assert.Equal(t, models.KYCPending, got.KYCStatus)
	assert.Equal(t, "ABCDE1234F", got.KYCIDNumber)
	assert.JSONEq(t, `["uploads/kyc/pan.jpg"]`, string(got.KYCDocuments))
	require.NotNil(t, got.KYCAppliedAt)
	assert.Nil(t, got.ReferralCode)
}

func TestApply_RejectsBadIdentityDocument(t *testing.T) {
	svc, db := setupCollectorTest(t)
	u := newUser(t, db, "meena")

	in := validApplication()
	in.IDNumber = "NOTAPAN"
	_, err := svc.Apply(u.ID, in)
	assert.Equal(t, ErrInvalidID, err)

	in = validApplication()
	in.IDType = "LIBRARY_CARD"
	_, err = svc.Apply(u.ID, in)
	assert.Equal(t, ErrInvalidID, err)
}

func TestApply_DuplicateApplicationsRejected(t *testing.T) {
	svc, db := setupCollectorTest(t)
	u := newUser(t, db, "meena")

	_, err := svc.Apply(u.ID, validApplication())
	require.NoError(t, err)

	_, err = svc.Apply(u.ID, validApplication())
	assert.Equal(t, ErrAlreadyPending, err)
}

func TestApprove_AssignsReferralCode(t *testing.T) {
	svc, db := setupCollectorTest(t)
	u := newUser(t, db, "meena")
	_, err := svc.Apply(u.ID, validApplication())
	require.NoError(t, err)

	approved, err := svc.Approve(u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCollectorApproved, approved.Role)
	assert.Equal(t, models.KYCApproved, approved.KYCStatus)
	require.NotNil(t, approved.ReferralCode)

	// The freshly approved collector's code validates.
	info, err := svc.Referrals.ValidateCode(*approved.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, u.ID, info.ID)
}

func TestApprove_RequiresPendingApplication(t *testing.T) {
	svc, db := setupCollectorTest(t)
	u := newUser(t, db, "meena")

	_, err := svc.Approve(u.ID)
	assert.Equal(t, ErrNotPending, err)
}

func TestReject_ReturnsUserToPlainRole(t *testing.T) {
	svc, db := setupCollectorTest(t)
	u := newUser(t, db, "meena")
	_, err := svc.Apply(u.ID, validApplication())
	require.NoError(t, err)

	rejected, err := svc.Reject(u.ID, "Document unreadable")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, rejected.Role)
	assert.Equal(t, models.KYCRejected, rejected.KYCStatus)
	assert.Equal(t, "Document unreadable", rejected.KYCRejectReason)
	assert.Nil(t, rejected.ReferralCode)

	// A rejected applicant may apply again.
	_, err = svc.Apply(u.ID, validApplication())
	assert.NoError(t, err)
}

func TestToggleDisabled_ReportsPostFlipState(t *testing.T) {
	svc, db := setupCollectorTest(t)
	u := newUser(t, db, "meena")
	_, err := svc.Apply(u.ID, validApplication())
	require.NoError(t, err)
	approved, err := svc.Approve(u.ID)
	require.NoError(t, err)

	disabled, err := svc.ToggleDisabled(u.ID)
	require.NoError(t, err)
	assert.True(t, disabled)

	// Disabled collector's code stops validating but survives.
	_, err = svc.Referrals.ValidateCode(*approved.ReferralCode)
	assert.Error(t, err)
	var got models.User
	require.NoError(t, db.First(&got, "id = ?", u.ID).Error)
	require.NotNil(t, got.ReferralCode)

	enabled, err := svc.ToggleDisabled(u.ID)
	require.NoError(t, err)
	assert.False(t, enabled)
	_, err = svc.Referrals.ValidateCode(*approved.ReferralCode)
	assert.NoError(t, err)
}

func TestToggleDisabled_OnlyForApprovedCollectors(t *testing.T) {
	svc, db := setupCollectorTest(t)
	u := newUser(t, db, "meena")

	_, err := svc.ToggleDisabled(u.ID)
	assert.Equal(t, ErrNotCollector, err)
}

func TestListApplications_FiltersByStatus(t *testing.T) {
	svc, db := setupCollectorTest(t)
	a := newUser(t, db, "meena")
	b := newUser(t, db, "ravi")
	c := newUser(t, db, "lata")

	_, err := svc.Apply(a.ID, validApplication())
	require.NoError(t, err)
	_, err = svc.Apply(b.ID, validApplication())
	require.NoError(t, err)
	_, err = svc.Reject(b.ID, "incomplete")
	require.NoError(t, err)
	_ = c // never applied, must not show up

	pending, err := svc.ListApplications(models.KYCPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	all, err := svc.ListApplications("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
