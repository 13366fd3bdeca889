package app

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"sevatrust-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mr *miniredis.Miniredis) *config.Config {
	return &config.Config{
		Env:             "test",
		Port:            "8080",
		RedisURL:        "redis://" + mr.Addr(),
		JWTSecret:       "test-secret",
		ReceiptDir:      "./receipts",
		ReceiptPrefix:   "SVT",
		PendingMaxAge:   24 * time.Hour,
		CleanupInterval: time.Hour,
	}
}

func TestCreateApp_HealthWithoutDatabase(t *testing.T) {
	mr := miniredis.RunT(t)
	a, err := CreateApp(testConfig(mr))
	require.NoError(t, err)

	resp, err := a.Fiber.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))

	// No database configured: JSON health reports degraded.
	resp, err = a.Fiber.Test(httptest.NewRequest("GET", "/health/json", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestCreateApp_WebhookMountedWithoutDatabase(t *testing.T) {
	mr := miniredis.RunT(t)
	a, err := CreateApp(testConfig(mr))
	require.NoError(t, err)

	// Route exists; unsigned delivery is rejected, not 404.
	resp, err := a.Fiber.Test(httptest.NewRequest("POST", "/api/v1/payments/webhook", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
