package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/LeandroCantero/Escudle/internal/escudle/model"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := New(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestRecordRoundCompletion(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	completedAt := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)

	result := model.RoundResult{
		RoundID:     "p1:round-1",
		PlayerID:    "p1",
		Mode:        model.ModeDaily,
		Difficulty:  model.DifficultyEasy,
		EntryID:     "arg-river",
		Won:         true,
		Attempts:    2,
		CompletedAt: completedAt,
	}
	if err := repo.RecordRoundCompletion(ctx, result); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	// 같은 라운드 재기록은 무시
	if err := repo.RecordRoundCompletion(ctx, result); err != nil {
		t.Fatalf("duplicate record failed: %v", err)
	}

	var logs []RoundLog
	if err := repo.db.Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].EntryID != "arg-river" || !logs[0].Won || logs[0].Attempts != 2 || logs[0].Mode != "daily" {
		t.Errorf("unexpected log: %+v", logs[0])
	}
	if !logs[0].CompletedAt.Equal(completedAt) {
		t.Errorf("expected completedAt %s, got %s", completedAt, logs[0].CompletedAt)
	}
}

func TestRecordRoundCompletion_SkipsIncomplete(t *testing.T) {
	repo := newTestRepository(t)

	if err := repo.RecordRoundCompletion(context.Background(), model.RoundResult{PlayerID: " ", EntryID: "x", Mode: model.ModeDaily}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var count int64
	repo.db.Model(&RoundLog{}).Count(&count)
	if count != 0 {
		t.Errorf("expected nothing stored, got %d", count)
	}
}

func TestRecordRoundCompletion_GeneratesRoundID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.RecordRoundCompletion(ctx, model.RoundResult{
			PlayerID: "p1", Mode: model.ModePractice, EntryID: "x", CompletedAt: time.Now(),
		}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	var count int64
	repo.db.Model(&RoundLog{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 rows with generated ids, got %d", count)
	}
}

func TestEntrySolveRates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)

	results := []model.RoundResult{
		{RoundID: "1", PlayerID: "p1", Mode: model.ModeDaily, EntryID: "river", Won: true, Attempts: 1},
		{RoundID: "2", PlayerID: "p2", Mode: model.ModeDaily, EntryID: "river", Won: false, Attempts: 6},
		{RoundID: "3", PlayerID: "p3", Mode: model.ModeDaily, EntryID: "river", Won: true, Attempts: 2},
		{RoundID: "4", PlayerID: "p1", Mode: model.ModeDaily, EntryID: "boca", Won: true, Attempts: 3},
		{RoundID: "5", PlayerID: "p1", Mode: model.ModeInfinite, EntryID: "boca", Won: false, Attempts: 6},
		{RoundID: "6", PlayerID: "p2", Mode: model.ModeInfinite, EntryID: "boca", Won: true, Attempts: 4},
	}
	for _, r := range results {
		r.CompletedAt = now
		if err := repo.RecordRoundCompletion(ctx, r); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	daily, err := repo.EntrySolveRates(ctx, model.ModeDaily, 10)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("expected 2 entries, got %+v", daily)
	}
	if daily[0].EntryID != "river" || daily[0].Plays != 3 || daily[0].Wins != 2 {
		t.Errorf("unexpected first row: %+v", daily[0])
	}
	if math.Abs(daily[0].AvgAttempts-3) > 1e-9 {
		t.Errorf("expected avg attempts 3, got %f", daily[0].AvgAttempts)
	}
	if math.Abs(daily[0].SolveRate-2.0/3.0) > 1e-9 {
		t.Errorf("unexpected solve rate %f", daily[0].SolveRate)
	}

	all, err := repo.EntrySolveRates(ctx, "", 1)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected limit 1, got %d", len(all))
	}
	// boca 3회, river 3회 동률이면 entry_id 오름차순
	if all[0].EntryID != "boca" || all[0].Plays != 3 {
		t.Errorf("unexpected top entry: %+v", all[0])
	}

	if err := repo.Ping(ctx); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}
