package donations

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"sevatrust-backend/internal/models"
	"sevatrust-backend/internal/payments"
	"sevatrust-backend/internal/receipts"
	"sevatrust-backend/internal/referrals"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubGateway struct {
	calls int
	fail  bool
}

func (s *stubGateway) CreateOrder(ctx context.Context, amount float64, receiptRef string) (*payments.Order, error) {
	if s.fail {
		return nil, assert.AnError
	}
	s.calls++
	return &payments.Order{
		ID:       fmt.Sprintf("order_test_%d", s.calls),
		Amount:   int64(amount * 100),
		Currency: "INR",
	}, nil
}

func setupDonationTest(t *testing.T) (*Service, *gorm.DB, *models.DonationHead, *stubGateway) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Donation{}, &models.DonationHead{}, &models.OtpRecord{},
	))

	head := models.DonationHead{Name: "Annadanam Fund", Active: true}
	require.NoError(t, db.Create(&head).Error)

	gw := &stubGateway{}
	svc := NewService(db, &referrals.Service{DB: db}, gw, &receipts.Generator{Dir: t.TempDir()}, 1, 1000000)
	return svc, db, &head, gw
}

func dobYearsAgo(years int) string {
	return time.Now().AddDate(-years, 0, 0).Format("2006-01-02")
}

func validInput(head *models.DonationHead) CreateInput {
	return CreateInput{
		DonorName:   "Ravi Kumar",
		Mobile:      "+91-9876543210",
		Email:       "ravi@example.com",
		DateOfBirth: dobYearsAgo(30),
		IDType:      "PAN",
		IDNumber:    "ABCDE1234F",
		HeadID:      head.ID.String(),
		Amount:      500,
	}
}

func TestCreate_PendingWithSnapshot(t *testing.T) {
	svc, db, head, _ := setupDonationTest(t)

	in := validInput(head)
	in.DateOfBirth = time.Now().AddDate(-18, 0, 0).Format("2006-01-02") // exactly 18 today
	d, err := svc.Create(in, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, models.DonationPending, d.Status)
	assert.False(t, d.HasCollectorAttribution)
	assert.False(t, d.OtpVerified)
	assert.Equal(t, "9876543210", d.DonorMobile)
	assert.Equal(t, head.ID, d.HeadID)
	assert.Equal(t, "Annadanam Fund", d.HeadName)

	var persisted models.Donation
	require.NoError(t, db.First(&persisted, "id = ?", d.ID).Error)
	assert.Equal(t, models.DonationPending, persisted.Status)
}

func TestCreate_AgeGate(t *testing.T) {
	svc, _, head, _ := setupDonationTest(t)

	// One day short of 18.
	in := validInput(head)
	in.DateOfBirth = time.Now().AddDate(-18, 0, 1).Format("2006-01-02")
	_, err := svc.Create(in, uuid.Nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "18")

	// Exactly 18 today is accepted.
	in.DateOfBirth = time.Now().AddDate(-18, 0, 0).Format("2006-01-02")
	_, err = svc.Create(in, uuid.Nil)
	assert.NoError(t, err)
}

func TestCreate_GovernmentIDValidation(t *testing.T) {
	svc, _, head, _ := setupDonationTest(t)

	in := validInput(head)
	in.IDNumber = "NOTAPAN123"
	_, err := svc.Create(in, uuid.Nil)
	require.Error(t, err)

	in = validInput(head)
	in.IDType = "RATION_CARD"
	_, err = svc.Create(in, uuid.Nil)
	require.Error(t, err)

	// Aadhaar format accepted for AADHAAR type.
	in = validInput(head)
	in.IDType = "AADHAAR"
	in.IDNumber = "123456789012"
	_, err = svc.Create(in, uuid.Nil)
	assert.NoError(t, err)
}

func TestCreate_AmountBounds(t *testing.T) {
	svc, _, head, _ := setupDonationTest(t)

	in := validInput(head)
	in.Amount = 0.5
	_, err := svc.Create(in, uuid.Nil)
	require.Error(t, err)

	in.Amount = 2000000
	_, err = svc.Create(in, uuid.Nil)
	require.Error(t, err)
}

func TestCreate_RejectsUnknownOrRetiredHead(t *testing.T) {
	svc, db, head, _ := setupDonationTest(t)

	in := validInput(head)
	in.HeadID = uuid.New().String()
	_, err := svc.Create(in, uuid.Nil)
	require.Error(t, err)

	require.NoError(t, db.Model(head).Update("active", false).Error)
	in = validInput(head)
	_, err = svc.Create(in, uuid.Nil)
	require.Error(t, err)
}

func TestCreate_BadReferralCodeFailsWholeCreate(t *testing.T) {
	svc, db, head, _ := setupDonationTest(t)

	in := validInput(head)
	in.ReferralCode = "BADCODE"
	_, err := svc.Create(in, uuid.Nil)
	require.Error(t, err)
	assert.Equal(t, referrals.ErrInvalidCode.Error(), err.Error())

	var count int64
	db.Model(&models.Donation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreate_ValidReferralSetsAttribution(t *testing.T) {
	svc, db, head, _ := setupDonationTest(t)

	code := "SEVAMEENA7"
	collector := models.User{Name: "Meena Sharma", Email: "meena@example.com", Role: models.RoleCollectorApproved, ReferralCode: &code}
	require.NoError(t, db.Create(&collector).Error)

	in := validInput(head)
	in.ReferralCode = "sevameena7"
	d, err := svc.Create(in, uuid.Nil)
	require.NoError(t, err)

	assert.True(t, d.HasCollectorAttribution)
	require.NotNil(t, d.CollectorID)
	assert.Equal(t, collector.ID, *d.CollectorID)
	assert.Equal(t, "Meena Sharma", d.CollectorName)
}

func TestCreate_EmailVerifiedOnlyFromMatchingAccount(t *testing.T) {
	svc, db, head, _ := setupDonationTest(t)

	u := models.User{Name: "Ravi Kumar", Email: "ravi@example.com", EmailVerified: true}
	require.NoError(t, db.Create(&u).Error)

	// Authenticated, email matches verified profile.
	d, err := svc.Create(validInput(head), u.ID)
	require.NoError(t, err)
	assert.True(t, d.EmailVerified)

	// Guest with the same email gets no verified flag.
	d2, err := svc.Create(validInput(head), uuid.Nil)
	require.NoError(t, err)
	assert.False(t, d2.EmailVerified)
}

func TestCreateOrder_StoresAndReusesOrderID(t *testing.T) {
	svc, db, head, gw := setupDonationTest(t)

	d, err := svc.Create(validInput(head), uuid.Nil)
	require.NoError(t, err)

	order, err := svc.CreateOrder(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", order.OrderID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "INR", order.Currency)

	var persisted models.Donation
	require.NoError(t, db.First(&persisted, "id = ?", d.ID).Error)
	require.NotNil(t, persisted.GatewayOrderID)
	assert.Equal(t, "order_test_1", *persisted.GatewayOrderID)
	assert.Equal(t, models.DonationPending, persisted.Status)

	// Second call reuses the stored order instead of minting another.
	again, err := svc.CreateOrder(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", again.OrderID)
	assert.Equal(t, 1, gw.calls)
}

func TestCreateOrder_RejectsNonPending(t *testing.T) {
	svc, db, head, _ := setupDonationTest(t)

	d, err := svc.Create(validInput(head), uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(d).Update("status", models.DonationSuccess).Error)

	_, err = svc.CreateOrder(context.Background(), d.ID)
	assert.Equal(t, ErrNotPending, err)
}

func TestCreateOrder_RejectsOfflineMethods(t *testing.T) {
	svc, _, head, _ := setupDonationTest(t)

	in := validInput(head)
	in.Method = models.MethodCash
	d, err := svc.Create(in, uuid.Nil)
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), d.ID)
	assert.Equal(t, ErrNotOnline, err)
}

func TestReceiptPath_OnlyForSuccess(t *testing.T) {
	svc, _, head, _ := setupDonationTest(t)

	d, err := svc.Create(validInput(head), uuid.Nil)
	require.NoError(t, err)

	_, err = svc.ReceiptPath(d.ID)
	assert.Equal(t, ErrReceiptNotReady, err)
}

func TestReceiptPath_SelfHealsMissingArtifact(t *testing.T) {
	svc, db, head, _ := setupDonationTest(t)

	d, err := svc.Create(validInput(head), uuid.Nil)
	require.NoError(t, err)

	receiptNumber := "SVT-2026-TEST22"
	require.NoError(t, db.Model(d).Updates(map[string]interface{}{
		"status":         models.DonationSuccess,
		"receipt_number": receiptNumber,
	}).Error)

	// No artifact yet: first download generates it.
	path, err := svc.ReceiptPath(d.ID)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	// Remove the artifact and download again: regenerated, not an error.
	require.NoError(t, os.Remove(path))
	path2, err := svc.ReceiptPath(d.ID)
	require.NoError(t, err)
	assert.Equal(t, path, path2)
	_, err = os.Stat(path2)
	assert.NoError(t, err)
}
