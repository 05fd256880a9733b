package config

import (
	"fmt"
	"time"

	commonconfig "github.com/LeandroCantero/Escudle/internal/common/config"
)

// ServerConfig: HTTP 서버 설정 alias
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 튜닝 설정 alias
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: 진행 상태 저장용 Valkey 연결 설정 alias
type RedisConfig = commonconfig.RedisConfig

// PostgresConfig: 라운드 기록 DB 설정 alias
type PostgresConfig = commonconfig.PostgresConfig

// LogConfig: 로깅 설정 alias
type LogConfig = commonconfig.LogConfig

// StatsConfig: 라운드 기록 비동기 워커 설정
type StatsConfig struct {
	WorkerCount        int
	QueueSize          int
	DropLogOnQueueFull bool
}

// GameConfig: 게임 진행 관련 설정
type GameConfig struct {
	CatalogPath      string        // 비어있으면 내장 카탈로그 사용
	LaunchDate       time.Time     // 공유 번호 #1 에 해당하는 날짜 (UTC)
	StatsRevealDelay time.Duration // 종료 후 통계 공개까지의 지연
	SessionCacheSize int           // 메모리에 유지할 플레이어 컨트롤러 수
	SessionIdleTTL   time.Duration // 유휴 컨트롤러 제거 시간
	RandomSeed       uint64        // 0 이면 시간 기반 시드
}

// Config: 전체 애플리케이션 설정 구조체
type Config struct {
	Server          ServerConfig
	ServerTuning    ServerTuningConfig
	Redis           RedisConfig
	Postgres        PostgresConfig
	Log             LogConfig
	Stats           StatsConfig
	Game            GameConfig
	Telemetry       commonconfig.TelemetryConfig
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
}

// LoadFromEnv: 환경 변수로부터 전체 애플리케이션 설정을 로드합니다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(8080)
	if err != nil {
		return nil, fmt.Errorf("read server config failed: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config failed: %w", err)
	}
	redisCfg, err := readRedisConfig()
	if err != nil {
		return nil, err
	}
	postgres, err := commonconfig.ReadPostgresConfigFromEnv("escudle")
	if err != nil {
		return nil, fmt.Errorf("read postgres config failed: %w", err)
	}
	log, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config failed: %w", err)
	}
	stats, err := readStatsConfig()
	if err != nil {
		return nil, err
	}
	game, err := readGameConfig()
	if err != nil {
		return nil, err
	}
	telemetry, err := commonconfig.ReadTelemetryConfigFromEnv(ServiceName)
	if err != nil {
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}
	metricsEnabled, err := commonconfig.BoolFromEnv("ESCUDLE_METRICS_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("read ESCUDLE_METRICS_ENABLED failed: %w", err)
	}
	shutdownTimeout, err := commonconfig.DurationSecondsFromEnv("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, fmt.Errorf("read SERVER_SHUTDOWN_TIMEOUT_SECONDS failed: %w", err)
	}

	return &Config{
		Server:          server,
		ServerTuning:    serverTuning,
		Redis:           redisCfg,
		Postgres:        postgres,
		Log:             log,
		Stats:           stats,
		Game:            game,
		Telemetry:       telemetry,
		MetricsEnabled:  metricsEnabled,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func readRedisConfig() (RedisConfig, error) {
	cfg, err := commonconfig.ReadRedisConfigFromEnv(commonconfig.RedisEnvKeys{
		HostKeys:     []string{"CACHE_HOST", "REDIS_HOST", "VALKEY_HOST"},
		PortKeys:     []string{"CACHE_PORT", "REDIS_PORT", "VALKEY_PORT"},
		PasswordKeys: []string{"CACHE_PASSWORD", "REDIS_PASSWORD", "VALKEY_PASSWORD"},
		DefaultHost:  "localhost",
		DefaultPort:  6379,
	})
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis config failed: %w", err)
	}
	return cfg, nil
}

func readStatsConfig() (StatsConfig, error) {
	workerCount, err := commonconfig.IntFromEnv("STATS_WORKER_COUNT", 2)
	if err != nil {
		return StatsConfig{}, fmt.Errorf("read STATS_WORKER_COUNT failed: %w", err)
	}
	queueSize, err := commonconfig.IntFromEnv("STATS_QUEUE_SIZE", 100)
	if err != nil {
		return StatsConfig{}, fmt.Errorf("read STATS_QUEUE_SIZE failed: %w", err)
	}
	dropLog, err := commonconfig.BoolFromEnv("STATS_DROP_LOG_ON_QUEUE_FULL", false)
	if err != nil {
		return StatsConfig{}, fmt.Errorf("read STATS_DROP_LOG_ON_QUEUE_FULL failed: %w", err)
	}

	return StatsConfig{
		WorkerCount:        workerCount,
		QueueSize:          queueSize,
		DropLogOnQueueFull: dropLog,
	}, nil
}

func readGameConfig() (GameConfig, error) {
	defaultLaunch, err := time.ParseInLocation(time.DateOnly, DefaultLaunchDate, time.UTC)
	if err != nil {
		return GameConfig{}, fmt.Errorf("parse default launch date failed: %w", err)
	}
	launch, err := commonconfig.DateFromEnv("ESCUDLE_LAUNCH_DATE", defaultLaunch)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read ESCUDLE_LAUNCH_DATE failed: %w", err)
	}
	revealDelay, err := commonconfig.DurationFromEnv("ESCUDLE_STATS_REVEAL_DELAY", 2*time.Second)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read ESCUDLE_STATS_REVEAL_DELAY failed: %w", err)
	}
	cacheSize, err := commonconfig.IntFromEnv("ESCUDLE_SESSION_CACHE_SIZE", 10_000)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read ESCUDLE_SESSION_CACHE_SIZE failed: %w", err)
	}
	if cacheSize <= 0 {
		return GameConfig{}, fmt.Errorf("invalid ESCUDLE_SESSION_CACHE_SIZE: %d", cacheSize)
	}
	idleTTL, err := commonconfig.DurationFromEnv("ESCUDLE_SESSION_IDLE_TTL", 2*time.Hour)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read ESCUDLE_SESSION_IDLE_TTL failed: %w", err)
	}
	if idleTTL <= 0 {
		return GameConfig{}, fmt.Errorf("invalid ESCUDLE_SESSION_IDLE_TTL: %s", idleTTL)
	}
	seed, err := commonconfig.Int64FromEnv("ESCUDLE_RANDOM_SEED", 0)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read ESCUDLE_RANDOM_SEED failed: %w", err)
	}

	return GameConfig{
		CatalogPath:      commonconfig.StringFromEnv("ESCUDLE_CATALOG_PATH", ""),
		LaunchDate:       launch,
		StatsRevealDelay: revealDelay,
		SessionCacheSize: cacheSize,
		SessionIdleTTL:   idleTTL,
		RandomSeed:       uint64(seed),
	}, nil
}
