// Package redis 는 Escudle 플레이어 진행 상태의 Valkey 키와 저장소를 정의한다.
package redis

import (
	"github.com/LeandroCantero/Escudle/internal/common/valkeyx"
	econfig "github.com/LeandroCantero/Escudle/internal/escudle/config"
)

// dailyRoundKey 는 오늘의 일일 라운드 저장용 키를 생성한다.
// 형식: escudle:daily:round:{playerID}:{difficulty}
func dailyRoundKey(playerID string, difficulty string) string {
	return valkeyx.BuildKey(econfig.RedisKeyDailyRoundPrefix, playerID, difficulty)
}

// dailyStatsKey 는 일일 모드 누적 통계 저장용 키를 생성한다.
// 형식: escudle:daily:stats:{playerID}:{difficulty}
func dailyStatsKey(playerID string, difficulty string) string {
	return valkeyx.BuildKey(econfig.RedisKeyDailyStatsPrefix, playerID, difficulty)
}

// infiniteStatsKey 는 무한 모드 누적 통계 저장용 키를 생성한다.
// 형식: escudle:infinite:stats:{playerID}:{difficulty}
func infiniteStatsKey(playerID string, difficulty string) string {
	return valkeyx.BuildKey(econfig.RedisKeyInfiniteStatsPrefix, playerID, difficulty)
}

// ProcessingKey 는 플레이어 단위 처리 락 키를 생성한다.
// 형식: escudle:processing:{playerID}
func ProcessingKey(playerID string) string {
	return valkeyx.BuildKey(econfig.RedisKeyProcessingPrefix, playerID)
}
