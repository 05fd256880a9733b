package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LeandroCantero/Escudle/internal/common/bootstrap"
	"github.com/LeandroCantero/Escudle/internal/common/dbutil"
	"github.com/LeandroCantero/Escudle/internal/common/health"
	"github.com/LeandroCantero/Escudle/internal/common/httpserver"
	"github.com/LeandroCantero/Escudle/internal/common/messageprovider"
	"github.com/LeandroCantero/Escudle/internal/common/processinglock"
	"github.com/LeandroCantero/Escudle/internal/common/telemetry"
	"github.com/LeandroCantero/Escudle/internal/common/valkeyx"
	"github.com/LeandroCantero/Escudle/internal/escudle/assets"
	"github.com/LeandroCantero/Escudle/internal/escudle/catalog"
	"github.com/LeandroCantero/Escudle/internal/escudle/config"
	"github.com/LeandroCantero/Escudle/internal/escudle/httpapi"
	eredis "github.com/LeandroCantero/Escudle/internal/escudle/redis"
	"github.com/LeandroCantero/Escudle/internal/escudle/repository"
	"github.com/LeandroCantero/Escudle/internal/escudle/service"
)

func newEscudleTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*telemetry.Provider, func(), error) {
	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry, health.Version())
	if err != nil {
		return nil, nil, fmt.Errorf("init telemetry failed: %w", err)
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.ShutdownWait)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
	return provider, cleanup, nil
}

func newEscudleValkey(ctx context.Context, cfg *config.Config, logger *slog.Logger) (valkey.Client, func(), error) {
	client, closeFn, err := bootstrap.NewAndPingValkeyClient(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init valkey failed: %w", err)
	}
	return client, closeFn, nil
}

func newEscudleCatalog(cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.Game.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.Game.CatalogPath)
	} else {
		cat, err = catalog.LoadEmbedded()
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog failed: %w", err)
	}
	logger.Info("catalog_loaded", "entries", cat.Len(), "daily_pool", len(cat.DailyPool()), "path", cfg.Game.CatalogPath)
	return cat, nil
}

func newEscudleMessageProvider() (*messageprovider.Provider, error) {
	provider, err := messageprovider.NewFromYAMLAtPath(assets.GameMessagesYAML, assets.MessagesRootKey)
	if err != nil {
		return nil, fmt.Errorf("load messages failed: %w", err)
	}
	return provider, nil
}

func newEscudleProgressStore(client valkey.Client, logger *slog.Logger) *eredis.ProgressStore {
	return eredis.NewProgressStore(client, logger)
}

func newEscudleProcessingLock(client valkey.Client, logger *slog.Logger) *processinglock.Service {
	return processinglock.New(client, logger, eredis.ProcessingKey, config.RedisProcessingTTLSeconds*time.Second)
}

func newEscudleMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newEscudleMetrics(cfg *config.Config, reg *prometheus.Registry) service.Metrics {
	return service.NewMetrics(cfg.MetricsEnabled, reg)
}

// newEscudleDB: Postgres 가 비활성이면 nil DB 를 반환합니다. 라운드 기록 없이도 게임은 동작합니다.
func newEscudleDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gorm.DB, func(), error) {
	if !cfg.Postgres.Enabled {
		logger.Info("postgres_disabled")
		return nil, func() {}, nil
	}

	pg := cfg.Postgres
	db, err := dbutil.OpenWithRetry(ctx, func(ctx context.Context) (*gorm.DB, error) {
		return openPostgres(ctx, pg)
	}, dbutil.DefaultRetryConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}
	closeFn := func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("postgres_close_failed", "err", closeErr)
		}
	}
	return db, closeFn, nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db failed: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return db, nil
}

func newEscudleRepository(ctx context.Context, db *gorm.DB) (*repository.Repository, error) {
	if db == nil {
		return nil, nil
	}
	repo := repository.New(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return repo, nil
}

func newEscudleStatsRecorder(cfg *config.Config, repo *repository.Repository, logger *slog.Logger) (*service.StatsRecorder, func()) {
	recorder := service.NewStatsRecorder(repo, logger, cfg.Stats)
	cleanup := func() {
		recorder.Shutdown()
	}
	return recorder, cleanup
}

func newEscudleRegistry(
	cfg *config.Config,
	cat *catalog.Catalog,
	store *eredis.ProgressStore,
	recorder *service.StatsRecorder,
	metrics service.Metrics,
	lock *processinglock.Service,
	logger *slog.Logger,
) *service.Registry {
	deps := service.Dependencies{
		Catalog:          cat,
		Progress:         store,
		Metrics:          metrics,
		Logger:           logger,
		Seed:             cfg.Game.RandomSeed,
		StatsRevealDelay: cfg.Game.StatsRevealDelay,
	}
	if recorder != nil {
		deps.Results = recorder
	}
	return service.NewRegistry(deps, cfg.Game.SessionCacheSize, cfg.Game.SessionIdleTTL, lock)
}

func newEscudleGameService(
	cfg *config.Config,
	registry *service.Registry,
	cat *catalog.Catalog,
	store *eredis.ProgressStore,
	repo *repository.Repository,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) *service.GameService {
	return service.NewGameService(service.GameServiceDeps{
		Registry:   registry,
		Catalog:    cat,
		Progress:   store,
		Analytics:  repo,
		Messages:   msgProvider,
		LaunchDate: cfg.Game.LaunchDate,
		Logger:     logger,
	})
}

func newEscudleHealthChecks(client valkey.Client, repo *repository.Repository) map[string]health.Check {
	checks := map[string]health.Check{
		"valkey": func(ctx context.Context) error {
			return valkeyx.Ping(ctx, client)
		},
	}
	if repo != nil {
		checks["postgres"] = repo.Ping
	}
	return checks
}

func newEscudleHTTPMux(
	gameService *service.GameService,
	msgProvider *messageprovider.Provider,
	metrics service.Metrics,
	reg *prometheus.Registry,
	checks map[string]health.Check,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	httpapi.Register(mux, httpapi.Deps{
		Service:      gameService,
		Messages:     msgProvider,
		Metrics:      metrics,
		Gatherer:     reg,
		HealthChecks: checks,
		Logger:       logger,
	})
	return mux
}

func newEscudleHTTPServer(cfg *config.Config, mux *http.ServeMux, provider *telemetry.Provider) *http.Server {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	opts := httpserver.ServerOptions{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
	}
	if provider.IsEnabled() {
		opts.TraceOperation = config.ServiceName + ".http"
	}
	return httpserver.NewServer(addr, mux, opts)
}

func newEscudleServerApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	recorder *service.StatsRecorder,
) *bootstrap.ServerApp {
	var tasks []bootstrap.BackgroundTask
	if recorder != nil {
		tasks = append(tasks, bootstrap.BackgroundTask{
			Name:        "stats_recorder",
			ErrorLogKey: "stats_recorder_failed",
			Run:         recorder.Run,
		})
	}
	return bootstrap.NewServerApp(config.ServiceName, logger, server, cfg.ShutdownTimeout, tasks...)
}
