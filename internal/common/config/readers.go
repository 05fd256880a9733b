package config

import (
	"fmt"
	"time"
)

// ReadServerConfigFromEnv: HTTP 서버 호스트와 포트 설정을 환경 변수에서 읽어옵니다.
func ReadServerConfigFromEnv(defaultPort int) (ServerConfig, error) {
	serverPort, err := IntFromEnv("SERVER_PORT", defaultPort)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}
	if serverPort <= 0 || serverPort > 65535 {
		return ServerConfig{}, fmt.Errorf("invalid SERVER_PORT: %d", serverPort)
	}

	return ServerConfig{
		Host: StringFromEnv("SERVER_HOST", "0.0.0.0"),
		Port: serverPort,
	}, nil
}

// ReadServerTuningConfigFromEnv: HTTP 서버 튜닝 설정(Timeouts, Limits)을 환경 변수에서 읽어옵니다.
func ReadServerTuningConfigFromEnv() (ServerTuningConfig, error) {
	readHeaderTimeout, err := DurationSecondsFromEnv("SERVER_READ_HEADER_TIMEOUT_SECONDS", 5)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_READ_HEADER_TIMEOUT_SECONDS failed: %w", err)
	}

	// 0을 주면 비활성화
	idleTimeout, err := DurationSecondsFromEnv("SERVER_IDLE_TIMEOUT_SECONDS", 90)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_IDLE_TIMEOUT_SECONDS failed: %w", err)
	}

	maxHeaderBytes, err := IntFromEnv("SERVER_MAX_HEADER_BYTES", 1<<20)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_MAX_HEADER_BYTES failed: %w", err)
	}
	if maxHeaderBytes < 0 {
		return ServerTuningConfig{}, fmt.Errorf("invalid SERVER_MAX_HEADER_BYTES: %d", maxHeaderBytes)
	}

	return ServerTuningConfig{
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}, nil
}

// RedisEnvKeys: Valkey 설정을 찾을 환경 변수 키 후보와 기본값입니다.
type RedisEnvKeys struct {
	HostKeys     []string
	PortKeys     []string
	PasswordKeys []string

	DefaultHost string
	DefaultPort int
}

// ReadRedisConfigFromEnv: Valkey 연결 설정을 환경 변수에서 읽어옵니다.
// 여러 환경 변수 키 중 첫 번째로 값이 존재하는 것을 사용합니다.
func ReadRedisConfigFromEnv(keys RedisEnvKeys) (RedisConfig, error) {
	port, err := IntFromEnvFirstNonEmpty(keys.PortKeys, keys.DefaultPort)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis port failed: %w", err)
	}

	poolSize, err := IntFromEnv("REDIS_POOL_SIZE", 32)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read REDIS_POOL_SIZE failed: %w", err)
	}
	dialTimeout, err := DurationFromEnv("REDIS_DIAL_TIMEOUT", 10*time.Second)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read REDIS_DIAL_TIMEOUT failed: %w", err)
	}
	writeTimeout, err := DurationFromEnv("REDIS_WRITE_TIMEOUT", 3*time.Second)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read REDIS_WRITE_TIMEOUT failed: %w", err)
	}
	forceSingle, err := BoolFromEnv("REDIS_FORCE_SINGLE_CLIENT", false)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read REDIS_FORCE_SINGLE_CLIENT failed: %w", err)
	}

	return RedisConfig{
		Host:     StringFromEnvFirstNonEmpty(keys.HostKeys, keys.DefaultHost),
		Port:     port,
		Password: StringFromEnvFirstNonEmpty(keys.PasswordKeys, ""),
		DB:       0,

		DialTimeout:  dialTimeout,
		WriteTimeout: writeTimeout,

		PoolSize:          poolSize,
		ForceSingleClient: forceSingle,
	}, nil
}

// ReadPostgresConfigFromEnv: 통계 DB 연결 설정을 환경 변수에서 읽어옵니다.
// DB_HOST가 비어있으면 비활성화 상태로 반환합니다.
func ReadPostgresConfigFromEnv(defaultDatabase string) (PostgresConfig, error) {
	host := StringFromEnv("DB_HOST", "")
	if host == "" {
		return PostgresConfig{Enabled: false}, nil
	}

	port, err := IntFromEnv("DB_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_PORT failed: %w", err)
	}
	maxOpen, err := IntFromEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_MAX_OPEN_CONNS failed: %w", err)
	}
	maxIdle, err := IntFromEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_MAX_IDLE_CONNS failed: %w", err)
	}
	lifetime, err := DurationSecondsFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 1800)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_CONN_MAX_LIFETIME_SECONDS failed: %w", err)
	}

	return PostgresConfig{
		Enabled:         true,
		Host:            host,
		Port:            port,
		User:            StringFromEnv("DB_USER", "escudle"),
		Password:        StringFromEnv("DB_PASSWORD", ""),
		Database:        StringFromEnv("DB_NAME", defaultDatabase),
		SSLMode:         StringFromEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
	}, nil
}

// DSN: gorm postgres 드라이버용 연결 문자열을 반환합니다.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ReadLogConfigFromEnv: 로그 레벨과 파일 로테이션 설정을 읽어옵니다. LOG_DIR 이 비어있으면 파일 출력은 꺼집니다.
func ReadLogConfigFromEnv() (LogConfig, error) {
	cfg := LogConfig{
		Level: StringFromEnv("LOG_LEVEL", "info"),
		Dir:   StringFromEnv("LOG_DIR", ""),
	}
	if cfg.Dir == "" {
		return cfg, nil
	}

	var err error
	if cfg.MaxSizeMB, err = IntFromEnv("LOG_FILE_MAX_SIZE_MB", 1); err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_SIZE_MB failed: %w", err)
	}
	if cfg.MaxBackups, err = IntFromEnv("LOG_FILE_MAX_BACKUPS", 30); err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_BACKUPS failed: %w", err)
	}
	if cfg.MaxAgeDays, err = IntFromEnv("LOG_FILE_MAX_AGE_DAYS", 7); err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_AGE_DAYS failed: %w", err)
	}
	if cfg.Compress, err = BoolFromEnv("LOG_FILE_COMPRESS", true); err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_COMPRESS failed: %w", err)
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return LogConfig{}, fmt.Errorf(
			"invalid log rotation size=%d backups=%d age=%d",
			cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays,
		)
	}
	return cfg, nil
}

// ReadTelemetryConfigFromEnv: OpenTelemetry 설정을 환경 변수에서 읽습니다.
func ReadTelemetryConfigFromEnv(defaultServiceName string) (TelemetryConfig, error) {
	enabled, err := BoolFromEnv("OTEL_ENABLED", false)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_ENABLED failed: %w", err)
	}
	insecure, err := BoolFromEnv("OTEL_EXPORTER_OTLP_INSECURE", true)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_EXPORTER_OTLP_INSECURE failed: %w", err)
	}
	sampleRate, err := Float64FromEnv("OTEL_SAMPLE_RATE", 1.0)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SAMPLE_RATE failed: %w", err)
	}
	shutdownWait, err := DurationSecondsFromEnv("OTEL_SHUTDOWN_TIMEOUT_SECONDS", 5)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SHUTDOWN_TIMEOUT_SECONDS failed: %w", err)
	}

	return TelemetryConfig{
		Enabled:      enabled,
		ServiceName:  StringFromEnv("OTEL_SERVICE_NAME", defaultServiceName),
		Environment:  StringFromEnv("OTEL_ENVIRONMENT", "production"),
		Endpoint:     StringFromEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Insecure:     insecure,
		SampleRate:   sampleRate,
		ShutdownWait: shutdownWait,
	}, nil
}
