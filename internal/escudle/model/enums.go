package model

import "strings"

// Difficulty: 실루엣 난이도. 통계도 난이도별로 분리됩니다.
type Difficulty string

// DifficultyEasy 등: 난이도 상수
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties: 지원하는 모든 난이도 (표시 순서)
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty: 문자열을 난이도로 변환합니다.
func ParseDifficulty(raw string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(raw))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	default:
		return "", false
	}
}

// DatasetFilter: 현재/과거 엠블럼 포함 규칙
type DatasetFilter string

// DatasetAll 등: 데이터셋 필터 상수
const (
	DatasetAll      DatasetFilter = "all"
	DatasetCurrent  DatasetFilter = "current"
	DatasetHistoric DatasetFilter = "historic"
)

// ParseDatasetFilter: 문자열을 데이터셋 필터로 변환합니다. 빈 값은 DatasetAll 입니다.
func ParseDatasetFilter(raw string) (DatasetFilter, bool) {
	switch f := DatasetFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return DatasetAll, true
	case DatasetAll, DatasetCurrent, DatasetHistoric:
		return f, true
	default:
		return "", false
	}
}

// Matches: 항목이 필터를 통과하는지 확인합니다.
func (f DatasetFilter) Matches(entry Entry) bool {
	switch f {
	case DatasetCurrent:
		return !entry.Era.IsHistorical()
	case DatasetHistoric:
		return entry.Era.IsHistorical()
	default:
		return true
	}
}

// CountryFilter: 국가 허용 목록. 비어있으면 모두 허용합니다.
type CountryFilter []string

// Allows: 국가가 허용 목록에 있는지 확인합니다.
func (f CountryFilter) Allows(country string) bool {
	if len(f) == 0 {
		return true
	}
	for _, allowed := range f {
		if allowed == country {
			return true
		}
	}
	return false
}

// Mode: 플레이 모드
type Mode string

// ModeDaily 등: 플레이 모드 상수
const (
	ModeDaily    Mode = "daily"
	ModeInfinite Mode = "infinite"
	ModePractice Mode = "practice"
)

// ParseMode: 문자열을 플레이 모드로 변환합니다.
func ParseMode(raw string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case ModeDaily, ModeInfinite, ModePractice:
		return m, true
	default:
		return "", false
	}
}

// RoundStatus: 저장되는 일일 라운드 상태
type RoundStatus string

// RoundInProgress 등: 라운드 상태 상수
const (
	RoundInProgress RoundStatus = "in_progress"
	RoundWon        RoundStatus = "won"
	RoundLost       RoundStatus = "lost"
)

// IsTerminal: 라운드가 끝났는지 확인합니다.
func (s RoundStatus) IsTerminal() bool {
	return s == RoundWon || s == RoundLost
}

// GameState: 컨트롤러의 상태
type GameState string

// GameNotStarted 등: 컨트롤러 상태 상수
const (
	GameNotStarted GameState = "not_started"
	GamePlaying    GameState = "playing"
	GameWon        GameState = "won"
	GameLost       GameState = "lost"
)

// IsTerminal: 승리 또는 패배 상태인지 확인합니다.
func (s GameState) IsTerminal() bool {
	return s == GameWon || s == GameLost
}
