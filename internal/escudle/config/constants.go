package config

// RedisKeyPrefix 는 Valkey 키 상수 목록이다.
const (
	RedisKeyPrefix              = "escudle"
	RedisKeyDailyRoundPrefix    = RedisKeyPrefix + ":daily:round"
	RedisKeyDailyStatsPrefix    = RedisKeyPrefix + ":daily:stats"
	RedisKeyInfiniteStatsPrefix = RedisKeyPrefix + ":infinite:stats"
	RedisKeyProcessingPrefix    = RedisKeyPrefix + ":processing"
)

// RedisProcessingTTLSeconds: 플레이어 단위 처리 락 TTL
const RedisProcessingTTLSeconds = 10

// ShareURL: 공유 문구 마지막 줄에 붙는 사이트 주소
const ShareURL = "https://escudle.netlify.app/"

// DefaultLaunchDate: 공유 번호(#n) 계산 기준일
const DefaultLaunchDate = "2026-01-15"

// SearchMinQueryRunes 는 자동완성 관련 상수 목록이다.
const (
	SearchMinQueryRunes = 2
	SearchDefaultLimit  = 10
	SearchMaxLimit      = 50
)

// ServiceName: 로그/트레이싱에 사용하는 서비스 이름
const ServiceName = "escudle"
