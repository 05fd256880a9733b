package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/LeandroCantero/Escudle/internal/common/testhelper"
	"github.com/LeandroCantero/Escudle/internal/escudle/config"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
	"github.com/LeandroCantero/Escudle/internal/escudle/repository"
)

func newTestRepository(t *testing.T) (*repository.Repository, *gorm.DB) {
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

	repo := repository.New(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return repo, db
}

func countRoundLogs(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&repository.RoundLog{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	return count
}

func TestStatsRecorder(t *testing.T) {
	repo, db := newTestRepository(t)
	recorder := NewStatsRecorder(repo, testhelper.DiscardLogger(), config.StatsConfig{WorkerCount: 1, QueueSize: 8})
	ctx := context.Background()
	completedAt := time.Date(2026, time.February, 10, 15, 0, 0, 0, time.UTC)

	t.Run("RecordSync", func(t *testing.T) {
		recorder.RecordSync(ctx, model.RoundResult{
			RoundID: "sync-1", PlayerID: "p1", Mode: model.ModeDaily, Difficulty: model.DifficultyEasy,
			EntryID: "arg-river", Won: true, Attempts: 2, CompletedAt: completedAt,
		})
		if got := countRoundLogs(t, db); got != 1 {
			t.Fatalf("expected 1 row, got %d", got)
		}
	})

	t.Run("RecordSkipsIncomplete", func(t *testing.T) {
		recorder.RecordSync(ctx, model.RoundResult{RoundID: "bad", PlayerID: "  ", EntryID: "x", Mode: model.ModeDaily})
		if got := countRoundLogs(t, db); got != 1 {
			t.Fatalf("expected incomplete result to be skipped, got %d rows", got)
		}
	})

	t.Run("RecordAsyncFlushedOnShutdown", func(t *testing.T) {
		for _, id := range []string{"async-1", "async-2", "async-1"} {
			recorder.Record(ctx, model.RoundResult{
				RoundID: id, PlayerID: "p2", Mode: model.ModeInfinite, Difficulty: model.DifficultyHard,
				EntryID: "arg-boca", Won: false, Attempts: 6, Score: 3, CompletedAt: completedAt,
			})
		}
		recorder.Shutdown()

		if got := countRoundLogs(t, db); got != 3 {
			t.Fatalf("expected 3 rows after shutdown, got %d", got)
		}
	})

	t.Run("RecordAfterShutdownWritesInline", func(t *testing.T) {
		recorder.Record(ctx, model.RoundResult{RoundID: "late", PlayerID: "p3", Mode: model.ModeDaily, EntryID: "x"})
		recorder.Shutdown()
		if got := countRoundLogs(t, db); got != 4 {
			t.Fatalf("expected late record written after shutdown, got %d rows", got)
		}
	})

	t.Run("RecordAfterShutdownSkipsIncomplete", func(t *testing.T) {
		recorder.Record(ctx, model.RoundResult{RoundID: "late-bad", PlayerID: "p3", Mode: model.ModeDaily})
		if got := countRoundLogs(t, db); got != 4 {
			t.Fatalf("expected incomplete result skipped, got %d rows", got)
		}
	})
}

func TestStatsRecorder_NilSafe(t *testing.T) {
	recorder := NewStatsRecorder(nil, testhelper.DiscardLogger(), config.StatsConfig{})
	if recorder != nil {
		t.Fatal("expected nil recorder without repository")
	}
	recorder.Record(context.Background(), model.RoundResult{})
	recorder.RecordSync(context.Background(), model.RoundResult{})
	recorder.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := recorder.Run(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStatsRecorder_RunStopsWithContext(t *testing.T) {
	repo, db := newTestRepository(t)
	recorder := NewStatsRecorder(repo, testhelper.DiscardLogger(), config.StatsConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- recorder.Run(ctx) }()

	recorder.Record(ctx, model.RoundResult{RoundID: "r1", PlayerID: "p1", Mode: model.ModePractice, EntryID: "x"})
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("recorder did not stop")
	}
	if got := countRoundLogs(t, db); got != 1 {
		t.Errorf("expected queued record flushed on stop, got %d rows", got)
	}
}
