// Package server runs the snapshot collector's HTTP API.
package server

import (
	"context"
	"fmt"
	"time"

	kratoshttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/rs/zerolog"
	swaggerUI "github.com/tx7do/kratos-swagger-ui"

	"github.com/go-tangra/go-tangra-hardware/internal/config"
	"github.com/go-tangra/go-tangra-hardware/internal/store"
)

// Run starts the HTTP server and blocks until the context is cancelled.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger, openApiData []byte) error {
	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	handler := NewHandler(db, log)

	httpSrv := kratoshttp.NewServer(
		kratoshttp.Address(cfg.HTTPListen),
		kratoshttp.Middleware(ApiSecretMiddleware(cfg.ApiSecret)),
	)
	handler.RegisterRoutes(httpSrv)

	// Swagger UI is registered via HandlePrefix and bypasses the middleware chain.
	if cfg.EnableSwagger && len(openApiData) > 0 {
		swaggerUI.RegisterSwaggerUIServerWithOption(
			httpSrv,
			swaggerUI.WithTitle("Hardware Collector"),
			swaggerUI.WithMemoryData(openApiData, "yaml"),
		)
		log.Info().Str("addr", cfg.HTTPListen).Msg("swagger UI available at /docs/")
	}

	if cfg.RetentionDays > 0 {
		go runPurgeLoop(ctx, db, log, cfg.RetentionDays, cfg.PurgeInterval)
		log.Info().
			Int("retention_days", cfg.RetentionDays).
			Dur("purge_interval", cfg.PurgeInterval).
			Msg("retention purge enabled")
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = httpSrv.Stop(context.Background())
	}()

	log.Info().
		Str("addr", cfg.HTTPListen).
		Str("database", cfg.DatabasePath).
		Msg("hardware collector listening")

	return httpSrv.Start(ctx)
}

func runPurgeLoop(ctx context.Context, db *store.Store, log zerolog.Logger, retentionDays int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			olderThan := time.Duration(retentionDays) * 24 * time.Hour
			n, err := db.Purge(ctx, olderThan)
			if err != nil {
				log.Error().Err(err).Msg("purge failed")
			} else if n > 0 {
				log.Info().Int64("purged", n).Int("retention_days", retentionDays).Msg("old snapshots purged")
			}
		}
	}
}
