package main

import (
	"context"
	"os"

	"sevatrust-backend/internal/app"
	"sevatrust-backend/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Config load failed")
	}

	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := os.MkdirAll(cfg.ReceiptDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ReceiptDir).Msg("Receipt directory unavailable")
	}

	a, err := app.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("App create failed")
	}

	ctx := context.Background()
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			log.Fatal().Err(err).Msg("Postgres connection failed")
		}
		log.Info().Msg("Postgres connected")
	}
	if a.Rdb != nil {
		if err := a.Rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		log.Info().Msg("Redis connected")
	}

	if a.Cleanup != nil {
		if err := a.Cleanup.Start(); err != nil {
			log.Fatal().Err(err).Msg("Cleanup scheduler failed to start")
		}
		defer a.Cleanup.Stop()
	}

	log.Info().Str("port", cfg.Port).Msg("Server listening")
	if err := a.Fiber.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
