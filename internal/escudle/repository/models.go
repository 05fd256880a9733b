package repository

import "time"

// RoundLog: 끝난 라운드 기록
// 복합 인덱스: idx_round_logs_entry (mode, entry_id)
type RoundLog struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	RoundID     string    `gorm:"column:round_id;not null;uniqueIndex"`
	PlayerID    string    `gorm:"column:player_id;not null;index"`
	Mode        string    `gorm:"column:mode;not null;index:idx_round_logs_entry,priority:1"`
	Difficulty  string    `gorm:"column:difficulty;not null"`
	EntryID     string    `gorm:"column:entry_id;not null;index:idx_round_logs_entry,priority:2"`
	Won         bool      `gorm:"column:won;not null"`
	Attempts    int       `gorm:"column:attempts;not null;default:0"`
	Score       int       `gorm:"column:score;not null;default:0"`
	CompletedAt time.Time `gorm:"column:completed_at;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (RoundLog) TableName() string { return "escudle_round_logs" }

// EntrySolveRate: 엠블럼별 플레이/정답 집계
type EntrySolveRate struct {
	EntryID     string  `json:"entryId"`
	Plays       int     `json:"plays"`
	Wins        int     `json:"wins"`
	AvgAttempts float64 `json:"avgAttempts"`
	// SolveRate: 정답률(0~1). 조회 후 채워지며 플레이가 없으면 0 입니다.
	SolveRate float64 `json:"solveRate" gorm:"-"`
}

func solveRate(plays, wins int) float64 {
	if plays <= 0 {
		return 0
	}
	return float64(wins) / float64(plays)
}
