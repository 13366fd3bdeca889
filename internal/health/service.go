package health

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"sevatrust-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service reports process liveness plus the traffic counters the health
// marker middleware accumulates in Redis.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

type Report struct {
	Status   string        `json:"status"`
	Database string        `json:"database"`
	Redis    string        `json:"redis"`
	Uptime   string        `json:"uptime,omitempty"`
	Traffic  *TrafficStats `json:"traffic,omitempty"`
}

type TrafficStats struct {
	RequestsTotal int64           `json:"requests_total"`
	Errors        int64           `json:"errors"`
	AvgResponseMs float64         `json:"avg_response_ms"`
	LastRequest   json.RawMessage `json:"last_request,omitempty"`
}

// MarkStarted records process start time so uptime survives across requests.
func (s *Service) MarkStarted(ctx context.Context) {
	if s.Rdb == nil {
		return
	}
	_, _ = s.Rdb.Set(ctx, middleware.KeyStartTime, time.Now().Format(time.RFC3339), 0).Result()
}

// Check pings both backing stores and collects traffic counters. Degraded
// dependencies are reported rather than failing the endpoint.
func (s *Service) Check(ctx context.Context) *Report {
	report := &Report{Status: "ok", Database: "up", Redis: "up"}

	if s.DB != nil {
		sqlDB, err := s.DB.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			report.Database = "down"
			report.Status = "degraded"
		}
	} else {
		report.Database = "down"
		report.Status = "degraded"
	}

	if s.Rdb == nil || s.Rdb.Ping(ctx).Err() != nil {
		report.Redis = "down"
		report.Status = "degraded"
		return report
	}

	report.Traffic = s.traffic(ctx)
	if started, err := s.Rdb.Get(ctx, middleware.KeyStartTime).Result(); err == nil {
		if ts, err := time.Parse(time.RFC3339, started); err == nil {
			report.Uptime = time.Since(ts).Round(time.Second).String()
		}
	}
	return report
}

func (s *Service) traffic(ctx context.Context) *TrafficStats {
	stats := &TrafficStats{}
	if v, err := s.Rdb.Get(ctx, middleware.KeyReqTotal).Result(); err == nil {
		stats.RequestsTotal, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := s.Rdb.Get(ctx, middleware.KeyReqErrors).Result(); err == nil {
		stats.Errors, _ = strconv.ParseInt(v, 10, 64)
	}
	var totalMs float64
	var count int64
	if v, err := s.Rdb.Get(ctx, middleware.KeyResTime).Result(); err == nil {
		totalMs, _ = strconv.ParseFloat(v, 64)
	}
	if v, err := s.Rdb.Get(ctx, middleware.KeyResCount).Result(); err == nil {
		count, _ = strconv.ParseInt(v, 10, 64)
	}
	if count > 0 {
		stats.AvgResponseMs = totalMs / float64(count)
	}
	if v, err := s.Rdb.Get(ctx, middleware.KeyLastReq).Result(); err == nil {
		stats.LastRequest = json.RawMessage(v)
	}
	return stats
}
