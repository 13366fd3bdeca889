package health

import (
	"context"
	"testing"

	"sevatrust-backend/internal/middleware"
	"sevatrust-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupHealthTest(t *testing.T) (*Service, *miniredis.Miniredis) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Service{DB: db, Rdb: rdb}, mr
}

func TestCheck_AllUp(t *testing.T) {
	svc, mr := setupHealthTest(t)
	mr.Set(middleware.KeyReqTotal, "10")
	mr.Set(middleware.KeyReqErrors, "1")
	mr.Set(middleware.KeyResTime, "500")
	mr.Set(middleware.KeyResCount, "10")

	report := svc.Check(context.Background())
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, "up", report.Database)
	assert.Equal(t, "up", report.Redis)
	require.NotNil(t, report.Traffic)
	assert.Equal(t, int64(10), report.Traffic.RequestsTotal)
	assert.Equal(t, int64(1), report.Traffic.Errors)
	assert.InDelta(t, 50.0, report.Traffic.AvgResponseMs, 0.001)
}

func TestCheck_RedisDownIsDegraded(t *testing.T) {
	svc, mr := setupHealthTest(t)
	mr.Close()

	report := svc.Check(context.Background())
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "down", report.Redis)
	assert.Equal(t, "up", report.Database)
	assert.Nil(t, report.Traffic)
}
