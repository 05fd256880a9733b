//go:build !wireinject

package app

import (
	"context"
	"log/slog"

	"github.com/LeandroCantero/Escudle/internal/common/bootstrap"
	"github.com/LeandroCantero/Escudle/internal/escudle/config"
)

// Initialize 는 Escudle 애플리케이션 의존성을 초기화하고 ServerApp을 반환한다.
func Initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	provider, cleanupTelemetry, err := newEscudleTelemetry(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cat, err := newEscudleCatalog(cfg, logger)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	msgProvider, err := newEscudleMessageProvider()
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	valkeyClient, cleanupValkey, err := newEscudleValkey(ctx, cfg, logger)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	store := newEscudleProgressStore(valkeyClient, logger)
	lock := newEscudleProcessingLock(valkeyClient, logger)

	db, cleanupDB, err := newEscudleDB(ctx, cfg, logger)
	if err != nil {
		cleanupValkey()
		cleanupTelemetry()
		return nil, nil, err
	}

	repo, err := newEscudleRepository(ctx, db)
	if err != nil {
		cleanupDB()
		cleanupValkey()
		cleanupTelemetry()
		return nil, nil, err
	}

	recorder, cleanupStats := newEscudleStatsRecorder(cfg, repo, logger)

	reg := newEscudleMetricsRegistry()
	metrics := newEscudleMetrics(cfg, reg)

	registry := newEscudleRegistry(cfg, cat, store, recorder, metrics, lock, logger)
	gameService := newEscudleGameService(cfg, registry, cat, store, repo, msgProvider, logger)

	checks := newEscudleHealthChecks(valkeyClient, repo)
	httpMux := newEscudleHTTPMux(gameService, msgProvider, metrics, reg, checks, logger)
	httpServer := newEscudleHTTPServer(cfg, httpMux, provider)

	serverApp := newEscudleServerApp(cfg, logger, httpServer, recorder)

	cleanup := func() {
		cleanupStats()
		cleanupDB()
		cleanupValkey()
		cleanupTelemetry()
	}

	return serverApp, cleanup, nil
}
