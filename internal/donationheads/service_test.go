package donationheads

import (
	"testing"

	"sevatrust-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupHeadTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DonationHead{}))
	return &Service{DB: db}
}

func TestCreateAndList(t *testing.T) {
	svc := setupHeadTest(t)

	_, err := svc.Create("Annadanam Fund", "Daily food offering")
	require.NoError(t, err)
	_, err = svc.Create("Temple Renovation", "")
	require.NoError(t, err)

	heads, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, heads, 2)
	assert.Equal(t, "Annadanam Fund", heads[0].Name)
}

func TestCreate_RejectsDuplicateName(t *testing.T) {
	svc := setupHeadTest(t)

	_, err := svc.Create("Annadanam Fund", "")
	require.NoError(t, err)

	_, err = svc.Create("annadanam fund", "")
	assert.Equal(t, ErrDuplicate, err)

	_, err = svc.Create("  ", "")
	assert.Equal(t, ErrEmptyName, err)
}

func TestSetActive_RetiresFromPublicList(t *testing.T) {
	svc := setupHeadTest(t)

	head, err := svc.Create("Gau Seva", "")
	require.NoError(t, err)

	_, err = svc.SetActive(head.ID, false)
	require.NoError(t, err)

	active, err := svc.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Reinstating brings it back.
	_, err = svc.SetActive(head.ID, true)
	require.NoError(t, err)
	active, err = svc.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestUpdate_RenameGuardsUniqueness(t *testing.T) {
	svc := setupHeadTest(t)

	a, err := svc.Create("Annadanam Fund", "")
	require.NoError(t, err)
	_, err = svc.Create("Gau Seva", "")
	require.NoError(t, err)

	_, err = svc.Update(a.ID, "Gau Seva", "")
	assert.Equal(t, ErrDuplicate, err)

	updated, err := svc.Update(a.ID, "Annadanam Seva", "Food offering")
	require.NoError(t, err)
	assert.Equal(t, "Annadanam Seva", updated.Name)
}
