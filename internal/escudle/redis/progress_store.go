package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/valkey-io/valkey-go"

	cerrors "github.com/LeandroCantero/Escudle/internal/common/errors"
	"github.com/LeandroCantero/Escudle/internal/common/gamesession"
	"github.com/LeandroCantero/Escudle/internal/common/valkeyx"
	eerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
)

// ProgressStore: 플레이어의 일일 라운드와 난이도별 누적 통계를 Valkey 에 저장하는 저장소
// 레코드는 만료 없이 보관되며, 각 레코드는 통째로 덮어씁니다.
type ProgressStore struct {
	client        valkey.Client
	logger        *slog.Logger
	now           func() time.Time
	rounds        *gamesession.Store[model.DailyRoundState]
	dailyStats    *gamesession.Store[model.DailyStats]
	infiniteStats *gamesession.Store[model.InfiniteStats]
}

// Option: ProgressStore 생성 옵션
type Option func(*ProgressStore)

// WithClock: 날짜 판정에 사용할 시계를 주입합니다.
func WithClock(now func() time.Time) Option {
	return func(s *ProgressStore) { s.now = now }
}

// NewProgressStore: 새로운 ProgressStore 인스턴스를 생성합니다.
func NewProgressStore(client valkey.Client, logger *slog.Logger, opts ...Option) *ProgressStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ProgressStore{
		client: client,
		logger: logger,
		now:    time.Now,
		rounds: gamesession.NewStore[model.DailyRoundState](client, logger, gamesession.Config{
			KeyFunc: dailyRoundKey,
		}),
		dailyStats: gamesession.NewStore[model.DailyStats](client, logger, gamesession.Config{
			KeyFunc: dailyStatsKey,
		}),
		infiniteStats: gamesession.NewStore[model.InfiniteStats](client, logger, gamesession.Config{
			KeyFunc: infiniteStatsKey,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today: 저장소 시계 기준 오늘(UTC)
func (s *ProgressStore) Today() model.CalendarDay {
	return model.DayOf(s.now())
}

// loadTolerant: 손상된 값은 WARN 로그를 남기고 지운 뒤 없는 것으로 취급합니다. 전송 오류는 그대로 반환합니다.
func loadTolerant[T any](
	ctx context.Context,
	s *ProgressStore,
	store *gamesession.Store[T],
	record string,
	playerID string,
	difficulty model.Difficulty,
) (*T, error) {
	value, err := store.Load(ctx, playerID, string(difficulty))
	if err != nil {
		if errors.Is(err, gamesession.ErrCorruptPayload) {
			s.logger.Warn("progress_payload_corrupt",
				"record", record,
				"player_id", playerID,
				"difficulty", difficulty,
				"err", err,
			)
			// 다음 조회마다 같은 경고가 반복되지 않도록 손상된 키를 비운다. 실패해도 기본값으로 진행한다.
			if delErr := store.Delete(ctx, playerID, string(difficulty)); delErr != nil {
				s.logger.Warn("progress_payload_purge_failed", "record", record, "player_id", playerID, "err", delErr)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", record, err)
	}
	return value, nil
}

// LoadDailyRound: 오늘 날짜의 일일 라운드를 조회합니다.
// 없거나, 지난 날짜이거나, 손상된 경우 nil 을 반환합니다. 지난 기록은 삭제하지 않습니다.
func (s *ProgressStore) LoadDailyRound(ctx context.Context, playerID string, difficulty model.Difficulty) (*model.DailyRoundState, error) {
	round, err := loadTolerant(ctx, s, s.rounds, "daily_round", playerID, difficulty)
	if err != nil || round == nil {
		return nil, err
	}
	if round.Date != s.Today() {
		return nil, nil
	}
	return round, nil
}

// StartDailyRound: 진행 중 상태의 새 일일 라운드를 만들어 저장합니다. 기존 값은 덮어씁니다.
func (s *ProgressStore) StartDailyRound(
	ctx context.Context,
	playerID string,
	difficulty model.Difficulty,
	entry model.Entry,
	dataset model.DatasetFilter,
) (*model.DailyRoundState, error) {
	round := model.DailyRoundState{
		Date:          s.Today(),
		EntryID:       entry.ID,
		Guesses:       []string{},
		Status:        model.RoundInProgress,
		Difficulty:    difficulty,
		DatasetFilter: dataset,
	}
	if err := s.rounds.Save(ctx, playerID, string(difficulty), round); err != nil {
		return nil, fmt.Errorf("start daily round: %w", err)
	}
	s.logger.Debug("daily_round_saved", "player_id", playerID, "difficulty", difficulty, "entry_id", entry.ID)
	return &round, nil
}

// AppendGuess: 진행 중인 오늘의 라운드에 추측을 추가하고 즉시 저장합니다.
// 진행 중인 라운드가 없으면 ErrNoActiveRound 를 반환합니다.
func (s *ProgressStore) AppendGuess(
	ctx context.Context,
	playerID string,
	difficulty model.Difficulty,
	guess string,
) (*model.DailyRoundState, error) {
	round, err := s.LoadDailyRound(ctx, playerID, difficulty)
	if err != nil {
		return nil, err
	}
	if round == nil || round.Status != model.RoundInProgress {
		return nil, fmt.Errorf("append guess player=%s difficulty=%s: %w", playerID, difficulty, eerrors.ErrNoActiveRound)
	}

	round.Guesses = append(round.Guesses, guess)
	if err := s.rounds.Save(ctx, playerID, string(difficulty), *round); err != nil {
		return nil, fmt.Errorf("append guess: %w", err)
	}
	return round, nil
}

// CompleteDailyRound: 오늘의 라운드를 종료 상태로 저장하고 누적 통계를 갱신합니다.
// 라운드와 통계는 MULTI/EXEC 로 함께 기록됩니다. 이미 끝난 라운드면 ErrNoActiveRound 입니다.
func (s *ProgressStore) CompleteDailyRound(
	ctx context.Context,
	playerID string,
	difficulty model.Difficulty,
	won bool,
	finalGuesses []string,
) (*model.DailyStats, error) {
	round, err := s.LoadDailyRound(ctx, playerID, difficulty)
	if err != nil {
		return nil, err
	}
	if round == nil || round.Status != model.RoundInProgress {
		return nil, fmt.Errorf("complete daily round player=%s difficulty=%s: %w", playerID, difficulty, eerrors.ErrNoActiveRound)
	}
	stats, err := s.LoadDailyStats(ctx, playerID, difficulty)
	if err != nil {
		return nil, err
	}

	now := s.now()
	completedAt := now.UnixMilli()
	round.Guesses = slices.Clone(finalGuesses)
	round.CompletedAt = &completedAt
	round.Status = model.RoundLost
	if won {
		round.Status = model.RoundWon
	}
	stats.RecordCompletion(model.DayOf(now), won, len(finalGuesses))

	roundCmd, err := s.rounds.SaveCommand(playerID, string(difficulty), *round)
	if err != nil {
		return nil, err
	}
	statsCmd, err := s.dailyStats.SaveCommand(playerID, string(difficulty), *stats)
	if err != nil {
		return nil, err
	}
	if err := valkeyx.ExecTx(ctx, s.client, roundCmd, statsCmd); err != nil {
		return nil, cerrors.Valkey("daily_round_complete", err)
	}

	s.logger.Info("daily_round_completed",
		"player_id", playerID,
		"difficulty", difficulty,
		"won", won,
		"attempts", len(finalGuesses),
		"current_streak", stats.CurrentStreak,
	)
	return stats, nil
}

// LoadDailyStats: 일일 모드 누적 통계를 조회합니다. 없거나 손상되면 기본값을 반환합니다.
// 분포 합이 승리 수보다 크면 분포를 0으로 초기화한 값을 반환합니다. (저장은 다음 완료 시)
func (s *ProgressStore) LoadDailyStats(ctx context.Context, playerID string, difficulty model.Difficulty) (*model.DailyStats, error) {
	stats, err := loadTolerant(ctx, s, s.dailyStats, "daily_stats", playerID, difficulty)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		fresh := model.NewDailyStats()
		return &fresh, nil
	}
	if stats.Heal() {
		s.logger.Warn("daily_stats_distribution_reset",
			"player_id", playerID,
			"difficulty", difficulty,
			"total_wins", stats.TotalWins,
		)
	}
	return stats, nil
}

// LoadInfiniteStats: 무한 모드 누적 통계를 조회합니다. 없거나 손상되면 기본값을 반환합니다.
func (s *ProgressStore) LoadInfiniteStats(ctx context.Context, playerID string, difficulty model.Difficulty) (*model.InfiniteStats, error) {
	stats, err := loadTolerant(ctx, s, s.infiniteStats, "infinite_stats", playerID, difficulty)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &model.InfiniteStats{}, nil
	}
	return stats, nil
}

// CompleteInfiniteSession: 끝난 무한 모드 세션을 통계에 반영합니다.
// 두 번째 반환값은 최고 점수 갱신 여부입니다.
func (s *ProgressStore) CompleteInfiniteSession(
	ctx context.Context,
	playerID string,
	difficulty model.Difficulty,
	finalScore int,
) (*model.InfiniteStats, bool, error) {
	stats, err := s.LoadInfiniteStats(ctx, playerID, difficulty)
	if err != nil {
		return nil, false, err
	}

	newHigh := stats.RecordSession(finalScore, s.now().UnixMilli())
	if err := s.infiniteStats.Save(ctx, playerID, string(difficulty), *stats); err != nil {
		return nil, false, fmt.Errorf("complete infinite session: %w", err)
	}

	s.logger.Info("infinite_session_completed",
		"player_id", playerID,
		"difficulty", difficulty,
		"score", finalScore,
		"new_high_score", newHigh,
	)
	return stats, newHigh, nil
}
