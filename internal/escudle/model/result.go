package model

import "time"

// RoundResult: 끝난 라운드 1건의 분석용 기록
type RoundResult struct {
	RoundID     string
	PlayerID    string
	Mode        Mode
	Difficulty  Difficulty
	EntryID     string
	Won         bool
	Attempts    int
	Score       int // 무한 모드 세션 점수 (그 외 0)
	CompletedAt time.Time
}
