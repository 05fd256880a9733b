// Package daily 는 날짜와 난이도로 모든 플레이어에게 같은 일일 정답을 고르는 결정적 선택기를 제공한다.
package daily

import (
	"fmt"
	"time"
	"unicode/utf16"

	cerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
)

// SeedHash: 문자열의 UTF-16 코드 유닛마다 h = h*31 + c 를 int32 오버플로로 누적합니다.
// 이미 배포된 클라이언트와 같은 퍼즐을 내야 하므로 알고리즘을 바꾸면 안 됩니다.
func SeedHash(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}
	return h
}

// SeedKey: 해시 입력 문자열 "YYYY-MM-DD-difficulty" 를 만듭니다.
func SeedKey(day model.CalendarDay, difficulty model.Difficulty) string {
	return string(day) + "-" + string(difficulty)
}

// SeedIndex: 크기 n 인 풀에서의 일일 정답 인덱스를 반환합니다. n 은 양수여야 합니다.
func SeedIndex(day model.CalendarDay, difficulty model.Difficulty, n int) int {
	h := int64(SeedHash(SeedKey(day, difficulty)))
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}

// SelectDaily: 풀에서 오늘의 정답을 고릅니다. 풀 순서는 카탈로그 원본 순서여야 합니다.
// 풀이 비어있으면 ErrEmptyPool 을 반환합니다.
func SelectDaily(day model.CalendarDay, difficulty model.Difficulty, pool []model.Entry) (model.Entry, error) {
	if len(pool) == 0 {
		return model.Entry{}, fmt.Errorf("select daily day=%s difficulty=%s: %w", day, difficulty, cerrors.ErrEmptyPool)
	}
	return pool[SeedIndex(day, difficulty, len(pool))], nil
}

// GameNumber: 공유 문구에 쓰는 회차 번호. 출시일이 1회차이며 최소값은 1 입니다.
func GameNumber(day model.CalendarDay, launch time.Time) int {
	days, err := day.DaysSince(launch)
	if err != nil || days < 0 {
		return 1
	}
	return days + 1
}

// UntilNextDay: 다음 UTC 자정(새 일일 퍼즐)까지 남은 시간을 반환합니다.
func UntilNextDay(now time.Time) time.Duration {
	utc := now.UTC()
	next := time.Date(utc.Year(), utc.Month(), utc.Day()+1, 0, 0, 0, 0, time.UTC)
	return next.Sub(utc)
}
