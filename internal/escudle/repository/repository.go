package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cerrors "github.com/LeandroCantero/Escudle/internal/common/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
)

// Repository: 라운드 기록을 위한 GORM 기반 리포지토리
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스를 생성한다.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&RoundLog{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// Ping: DB 연결 상태를 확인한다.
func (r *Repository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return cerrors.Database("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return cerrors.Database("ping", err)
	}
	return nil
}

// NewRoundID: 라운드 식별자를 생성한다.
func NewRoundID(playerID string) string {
	playerID = strings.TrimSpace(playerID)

	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return playerID + ":" + fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return playerID + ":" + hex.EncodeToString(b[:])
}

// RecordRoundCompletion: 끝난 라운드를 기록한다. 같은 RoundID 는 한 번만 저장된다.
func (r *Repository) RecordRoundCompletion(ctx context.Context, result model.RoundResult) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	result.PlayerID = strings.TrimSpace(result.PlayerID)
	if result.PlayerID == "" || result.EntryID == "" || result.Mode == "" {
		return nil
	}
	if strings.TrimSpace(result.RoundID) == "" {
		result.RoundID = NewRoundID(result.PlayerID)
	}

	entity := RoundLog{
		RoundID:     result.RoundID,
		PlayerID:    result.PlayerID,
		Mode:        string(result.Mode),
		Difficulty:  string(result.Difficulty),
		EntryID:     result.EntryID,
		Won:         result.Won,
		Attempts:    result.Attempts,
		Score:       result.Score,
		CompletedAt: result.CompletedAt.UTC(),
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_id"}},
		DoNothing: true,
	}).Create(&entity).Error; err != nil {
		return cerrors.Database("record_round_completion", err)
	}
	return nil
}

// EntrySolveRates: 모드별로 엠블럼당 플레이 수, 정답 수, 정답률을 플레이 수 내림차순으로 반환한다.
// mode 가 비어있으면 전체 모드를 집계한다.
func (r *Repository) EntrySolveRates(ctx context.Context, mode model.Mode, limit int) ([]EntrySolveRate, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	query := r.db.WithContext(ctx).
		Model(&RoundLog{}).
		Select("entry_id, COUNT(*) AS plays, " +
			"SUM(CASE WHEN won THEN 1 ELSE 0 END) AS wins, " +
			"AVG(attempts) AS avg_attempts")
	if mode != "" {
		query = query.Where("mode = ?", string(mode))
	}

	var rows []EntrySolveRate
	if err := query.
		Group("entry_id").
		Order("plays DESC, entry_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, cerrors.Database("entry_solve_rates", err)
	}
	for i := range rows {
		rows[i].SolveRate = solveRate(rows[i].Plays, rows[i].Wins)
	}
	return rows, nil
}
