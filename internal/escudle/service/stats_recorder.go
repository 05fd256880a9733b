package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/LeandroCantero/Escudle/internal/escudle/config"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
	"github.com/LeandroCantero/Escudle/internal/escudle/repository"
)

// 비동기 처리 기본값
const (
	defaultStatsQueueSize   = 100 // 버퍼 크기
	defaultStatsWorkerCount = 2   // 워커 수
	statsWriteTimeout       = 30 * time.Second
)

// StatsRecorder: 끝난 라운드를 워커 풀로 DB 에 기록합니다. (분석용이라 응답 경로를 막지 않음)
type StatsRecorder struct {
	repo   *repository.Repository
	logger *slog.Logger
	cfg    config.StatsConfig

	mu       sync.RWMutex
	queue    chan model.RoundResult
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

// NewStatsRecorder: repo 가 nil 이면 nil 을 반환합니다.
func NewStatsRecorder(repo *repository.Repository, logger *slog.Logger, cfg config.StatsConfig) *StatsRecorder {
	if repo == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultStatsWorkerCount
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultStatsQueueSize
	}

	r := &StatsRecorder{
		repo:    repo,
		logger:  logger,
		cfg:     cfg,
		queue:   make(chan model.RoundResult, cfg.QueueSize),
		stopped: make(chan struct{}),
	}

	// 백그라운드 워커 시작
	for i := 0; i < cfg.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	logger.Info("stats_recorder_started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return r
}

func (r *StatsRecorder) worker(id int) {
	defer r.wg.Done()

	for result := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), statsWriteTimeout)
		r.write(ctx, result)
		cancel()
	}

	r.logger.Debug("stats_worker_stopped", "worker_id", id)
}

// Record: 라운드 결과를 큐에 넣습니다. 큐가 가득 차면 버립니다.
// 이미 종료된 뒤라면 워커가 없으므로 RecordSync 로 바로 기록합니다.
func (r *StatsRecorder) Record(ctx context.Context, result model.RoundResult) {
	if r == nil || !validResult(&result) {
		return
	}

	if r.enqueue(result) {
		return
	}

	r.logger.Warn("stats_recorder_stopped_writing_inline", "player_id", result.PlayerID, "round_id", result.RoundID)
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsWriteTimeout)
	defer cancel()
	r.RecordSync(writeCtx, result)
}

// enqueue: 종료된 상태면 false 를 반환합니다. 큐가 가득 차서 버린 경우는 true 입니다.
func (r *StatsRecorder) enqueue(result model.RoundResult) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	select {
	case <-r.stopped:
		return false
	default:
	}

	select {
	case r.queue <- result:
	default:
		if r.cfg.DropLogOnQueueFull {
			r.logger.Warn("stats_queue_full_dropped", "player_id", result.PlayerID, "round_id", result.RoundID)
		}
	}
	return true
}

// RecordSync: 라운드 결과를 바로 기록합니다. (종료 이후 경로)
func (r *StatsRecorder) RecordSync(ctx context.Context, result model.RoundResult) {
	if r == nil || !validResult(&result) {
		return
	}
	r.write(ctx, result)
}

func validResult(result *model.RoundResult) bool {
	result.PlayerID = strings.TrimSpace(result.PlayerID)
	result.RoundID = strings.TrimSpace(result.RoundID)
	return result.PlayerID != "" && result.EntryID != "" && result.Mode != ""
}

func (r *StatsRecorder) write(ctx context.Context, result model.RoundResult) {
	if err := r.repo.RecordRoundCompletion(ctx, result); err != nil {
		r.logger.Warn("stats_round_log_record_failed",
			"player_id", result.PlayerID,
			"round_id", result.RoundID,
			"err", err,
		)
	}
}

// Run: ctx 가 끝날 때까지 대기한 뒤 남은 작업을 비우고 종료합니다.
func (r *StatsRecorder) Run(ctx context.Context) error {
	if r == nil {
		return nil
	}
	<-ctx.Done()
	r.Shutdown()
	return nil
}

// Shutdown: 정상 종료. 대기 중인 작업을 모두 기록한 뒤 반환합니다.
func (r *StatsRecorder) Shutdown() {
	if r == nil {
		return
	}

	r.stopOnce.Do(func() {
		r.mu.Lock()
		close(r.stopped)
		close(r.queue)
		r.mu.Unlock()

		r.wg.Wait()
		r.logger.Info("stats_recorder_shutdown_complete")
	})
}
