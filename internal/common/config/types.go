package config

import "time"

// ServerConfig: HTTP 서버 주소/포트 설정입니다.
type ServerConfig struct {
	Host string // 서버 바인딩 호스트
	Port int    // 서버 리스닝 포트
}

// RedisConfig: Valkey 연결 설정입니다.
type RedisConfig struct {
	Host     string // 서버 호스트
	Port     int    // 서버 포트
	Password string // 인증 패스워드
	DB       int    // 사용할 DB 번호

	DialTimeout  time.Duration // 연결 타임아웃
	WriteTimeout time.Duration // 명령 쓰기 타임아웃 (valkey ConnWriteTimeout)

	PoolSize int // 커넥션 풀 크기

	ForceSingleClient bool // 클러스터 탐지 생략 (단일 노드 전용)
}

// PostgresConfig: 통계 저장용 PostgreSQL 연결 설정입니다.
type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LogConfig: 로그 레벨과 파일 로테이션 설정입니다.
type LogConfig struct {
	Level string // debug/info/warn/error
	Dir   string // 비어있으면 stdout 만 사용

	MaxSizeMB  int  // 단일 파일 최대 크기 (MB)
	MaxBackups int  // 보관할 백업 파일 수
	MaxAgeDays int  // 백업 파일 보관 일수
	Compress   bool // 백업 파일 압축 여부
}

// ServerTuningConfig: HTTP 서버 튜닝 설정(Timeouts, Limits)입니다.
type ServerTuningConfig struct {
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

// TelemetryConfig: OTLP 트레이싱 설정입니다.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	Endpoint     string  // host:port (gRPC)
	Insecure     bool    // TLS 미사용 여부
	SampleRate   float64 // 0.0 ~ 1.0
	ShutdownWait time.Duration
}
