package model

import "math"

// MaxAttempts: 한 라운드의 최대 추측 횟수
const MaxAttempts = 6

// DailyRoundState: 난이도별 오늘의 일일 라운드 진행 상태 (Valkey 에 저장됨)
type DailyRoundState struct {
	Date          CalendarDay   `json:"date"`
	EntryID       string        `json:"entryId"`
	Guesses       []string      `json:"guesses"`
	Status        RoundStatus   `json:"status"`
	Difficulty    Difficulty    `json:"difficulty"`
	DatasetFilter DatasetFilter `json:"datasetFilter"`
	CompletedAt   *int64        `json:"completedAt,omitempty"` // epoch millis
}

// DailyStats: 난이도별 일일 모드 누적 통계
type DailyStats struct {
	CurrentStreak     int         `json:"currentStreak"`
	MaxStreak         int         `json:"maxStreak"`
	TotalPlayed       int         `json:"totalPlayed"`
	TotalWins         int         `json:"totalWins"`
	LastPlayedDate    CalendarDay `json:"lastPlayedDate"`
	GuessDistribution map[int]int `json:"guessDistribution"`
}

// NewDailyStats: 모든 값이 0인 기본 통계를 반환합니다.
func NewDailyStats() DailyStats {
	return DailyStats{GuessDistribution: emptyDistribution()}
}

func emptyDistribution() map[int]int {
	dist := make(map[int]int, MaxAttempts)
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		dist[attempt] = 0
	}
	return dist
}

// Heal: 1..MaxAttempts 밖의 버킷은 버리고 빠진 버킷은 0 으로 채웁니다.
// 음수 버킷이 있거나 분포 합이 승리 수를 넘으면 분포를 초기화하고 true 를 반환합니다.
func (s *DailyStats) Heal() bool {
	if s.GuessDistribution == nil {
		s.GuessDistribution = emptyDistribution()
		return false
	}
	sum := 0
	negative := false
	for attempt, count := range s.GuessDistribution {
		if attempt < 1 || attempt > MaxAttempts {
			delete(s.GuessDistribution, attempt)
			continue
		}
		negative = negative || count < 0
		sum += count
	}
	if negative || sum > s.TotalWins {
		s.GuessDistribution = emptyDistribution()
		return true
	}
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if _, ok := s.GuessDistribution[attempt]; !ok {
			s.GuessDistribution[attempt] = 0
		}
	}
	return false
}

// RecordCompletion: 완료된 일일 라운드 1건을 통계에 반영합니다.
// 연속 기록: 마지막 플레이가 어제면 +1, 오늘이면 유지, 그 외에는 1 로 시작합니다. 패배하면 0 입니다.
func (s *DailyStats) RecordCompletion(day CalendarDay, won bool, attempts int) {
	if s.GuessDistribution == nil {
		s.GuessDistribution = emptyDistribution()
	}
	s.TotalPlayed++

	if won {
		s.TotalWins++
		s.GuessDistribution[attempts]++

		switch s.LastPlayedDate {
		case day.Prev():
			s.CurrentStreak++
		case day:
		default:
			s.CurrentStreak = 1
		}
		s.MaxStreak = max(s.MaxStreak, s.CurrentStreak)
	} else {
		s.CurrentStreak = 0
	}

	s.LastPlayedDate = day
}

// WinRate: 승률(%)을 반올림하여 반환합니다. 플레이 기록이 없으면 0 입니다.
func (s DailyStats) WinRate() int {
	if s.TotalPlayed <= 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalWins) * 100 / float64(s.TotalPlayed)))
}

// InfiniteSession: 무한 모드 진행 중인 세션 (메모리에만 유지)
type InfiniteSession struct {
	Score          int
	StartedAt      int64 // epoch millis
	PlayedEntryIDs map[string]struct{}
}

// NewInfiniteSession: 빈 무한 모드 세션을 생성합니다.
func NewInfiniteSession(startedAt int64) *InfiniteSession {
	return &InfiniteSession{
		StartedAt:      startedAt,
		PlayedEntryIDs: make(map[string]struct{}),
	}
}

// MarkPlayed: 이번 세션에서 출제된 항목으로 기록합니다.
func (s *InfiniteSession) MarkPlayed(entryID string) {
	s.PlayedEntryIDs[entryID] = struct{}{}
}

// HasPlayed: 이번 세션에서 이미 출제된 항목인지 확인합니다.
func (s *InfiniteSession) HasPlayed(entryID string) bool {
	_, ok := s.PlayedEntryIDs[entryID]
	return ok
}

// InfiniteStats: 난이도별 무한 모드 누적 통계
type InfiniteStats struct {
	HighScore        int   `json:"highScore"`
	TotalSessions    int   `json:"totalSessions"`
	TotalCorrect     int   `json:"totalCorrect"`
	LastSessionScore int   `json:"lastSessionScore"`
	LastPlayedAt     int64 `json:"lastPlayedAt"` // epoch millis
}

// RecordSession: 끝난 세션 1건을 반영하고 최고 점수가 갱신되었는지 반환합니다.
func (s *InfiniteStats) RecordSession(finalScore int, playedAt int64) bool {
	s.TotalSessions++
	s.TotalCorrect += finalScore
	s.LastSessionScore = finalScore
	s.LastPlayedAt = playedAt
	if finalScore > s.HighScore {
		s.HighScore = finalScore
		return true
	}
	return false
}
