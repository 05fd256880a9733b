package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/LeandroCantero/Escudle/internal/common/messageprovider"
	"github.com/LeandroCantero/Escudle/internal/common/telemetry"
	"github.com/LeandroCantero/Escudle/internal/escudle/catalog"
	"github.com/LeandroCantero/Escudle/internal/escudle/daily"
	eerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
	"github.com/LeandroCantero/Escudle/internal/escudle/repository"
)

const tracerName = "escudle/service"

// GameServiceDeps: GameService 생성 인자
type GameServiceDeps struct {
	Registry   *Registry
	Catalog    *catalog.Catalog
	Progress   ProgressStore
	Analytics  *repository.Repository // nil 이면 전체 통계 비활성
	Messages   *messageprovider.Provider
	LaunchDate time.Time
	Logger     *slog.Logger
	Now        func() time.Time
}

// GameService: HTTP 계층이 사용하는 게임 진입점
type GameService struct {
	registry   *Registry
	catalog    *catalog.Catalog
	progress   ProgressStore
	analytics  *repository.Repository
	msgs       *messageprovider.Provider
	launchDate time.Time
	logger     *slog.Logger
	now        func() time.Time
}

// NewGameService: 새로운 GameService 인스턴스를 생성합니다.
func NewGameService(deps GameServiceDeps) *GameService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &GameService{
		registry:   deps.Registry,
		catalog:    deps.Catalog,
		progress:   deps.Progress,
		analytics:  deps.Analytics,
		msgs:       deps.Messages,
		launchDate: deps.LaunchDate,
		logger:     deps.Logger,
		now:        deps.Now,
	}
}

// StartRound: 플레이어의 새 라운드를 시작합니다.
func (s *GameService) StartRound(ctx context.Context, playerID string, req RoundRequest) (RoundView, error) {
	ctx, span := telemetry.Tracer(tracerName).Start(ctx, "escudle.start_round")
	defer span.End()
	span.SetAttributes(
		attribute.String("escudle.mode", string(req.Mode)),
		attribute.String("escudle.difficulty", string(req.Difficulty)),
	)

	var view RoundView
	err := s.registry.With(ctx, playerID, func(ctrl *Controller) error {
		v, err := ctrl.StartRound(ctx, req)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start round failed")
	}
	return view, err
}

// SubmitGuess: 현재 라운드에 추측을 제출합니다.
func (s *GameService) SubmitGuess(ctx context.Context, playerID string, guess string) (GuessOutcome, error) {
	ctx, span := telemetry.Tracer(tracerName).Start(ctx, "escudle.submit_guess")
	defer span.End()

	var outcome GuessOutcome
	err := s.registry.With(ctx, playerID, func(ctrl *Controller) error {
		o, err := ctrl.SubmitGuess(ctx, guess)
		if err != nil {
			return err
		}
		outcome = o
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit guess failed")
		return outcome, err
	}
	span.SetAttributes(
		attribute.Bool("escudle.accepted", outcome.Accepted),
		attribute.Bool("escudle.correct", outcome.Correct),
		attribute.String("escudle.state", string(outcome.View.State)),
	)
	return outcome, nil
}

// ExitRound: 현재 라운드를 종료하고 초기 상태로 돌아갑니다.
func (s *GameService) ExitRound(ctx context.Context, playerID string) (RoundView, error) {
	var view RoundView
	err := s.registry.With(ctx, playerID, func(ctrl *Controller) error {
		view = ctrl.ExitRound()
		return nil
	})
	return view, err
}

// CurrentRound: 현재 라운드 상태를 조회합니다.
func (s *GameService) CurrentRound(playerID string) RoundView {
	return s.registry.Controller(playerID).View()
}

// DailyStatsView: 일일 통계와 파생 값
type DailyStatsView struct {
	model.DailyStats
	Difficulty       model.Difficulty `json:"difficulty"`
	WinRate          int              `json:"winRate"`
	GameNumber       int              `json:"gameNumber"`
	SecondsUntilNext int64            `json:"secondsUntilNext"`
}

// DailyStats: 난이도별 일일 누적 통계를 조회합니다.
func (s *GameService) DailyStats(ctx context.Context, playerID string, rawDifficulty string) (DailyStatsView, error) {
	difficulty, ok := model.ParseDifficulty(rawDifficulty)
	if !ok {
		return DailyStatsView{}, eerrors.InvalidRequestError{Field: "difficulty", Value: rawDifficulty}
	}
	stats, err := s.progress.LoadDailyStats(ctx, playerID, difficulty)
	if err != nil {
		return DailyStatsView{}, err
	}

	now := s.now()
	return DailyStatsView{
		DailyStats:       *stats,
		Difficulty:       difficulty,
		WinRate:          stats.WinRate(),
		GameNumber:       daily.GameNumber(model.DayOf(now), s.launchDate),
		SecondsUntilNext: int64(daily.UntilNextDay(now) / time.Second),
	}, nil
}

// InfiniteStatsView: 무한 모드 통계
type InfiniteStatsView struct {
	model.InfiniteStats
	Difficulty model.Difficulty `json:"difficulty"`
}

// InfiniteStats: 난이도별 무한 모드 누적 통계를 조회합니다.
func (s *GameService) InfiniteStats(ctx context.Context, playerID string, rawDifficulty string) (InfiniteStatsView, error) {
	difficulty, ok := model.ParseDifficulty(rawDifficulty)
	if !ok {
		return InfiniteStatsView{}, eerrors.InvalidRequestError{Field: "difficulty", Value: rawDifficulty}
	}
	stats, err := s.progress.LoadInfiniteStats(ctx, playerID, difficulty)
	if err != nil {
		return InfiniteStatsView{}, err
	}
	return InfiniteStatsView{InfiniteStats: *stats, Difficulty: difficulty}, nil
}

// ShareDaily: 오늘 끝낸 일일 라운드의 공유 문구를 만듭니다.
// 오늘 라운드가 없거나 진행 중이면 ErrRoundNotCompleted 를 반환합니다.
func (s *GameService) ShareDaily(ctx context.Context, playerID string, rawDifficulty string) (string, error) {
	difficulty, ok := model.ParseDifficulty(rawDifficulty)
	if !ok {
		return "", eerrors.InvalidRequestError{Field: "difficulty", Value: rawDifficulty}
	}
	round, err := s.progress.LoadDailyRound(ctx, playerID, difficulty)
	if err != nil {
		return "", err
	}
	if round == nil {
		return "", fmt.Errorf("share daily player=%s difficulty=%s: %w", playerID, difficulty, eerrors.ErrRoundNotCompleted)
	}
	target, ok := s.catalog.ByID(round.EntryID)
	if !ok {
		return "", eerrors.EntryNotFoundError{EntryID: round.EntryID}
	}
	return ShareText(s.msgs, *round, target, s.launchDate)
}

// Countries: 국가 선택 목록
func (s *GameService) Countries() []catalog.CountryCount {
	return s.catalog.Countries()
}

// SearchHit: 자동완성 결과 한 건 (이미지 정보는 제외)
type SearchHit struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Period  string `json:"period,omitempty"`
}

// SearchFilter: 자동완성 대상을 무한/연습 모드 후보 풀과 같은 기준으로 좁힙니다. 비어있으면 전체 카탈로그입니다.
type SearchFilter struct {
	Dataset   model.DatasetFilter
	Countries model.CountryFilter
}

// Search: 이름 자동완성. 데이터셋 값이 잘못되면 InvalidRequestError 입니다.
func (s *GameService) Search(query string, limit int, filter SearchFilter) ([]SearchHit, error) {
	dataset, ok := model.ParseDatasetFilter(string(filter.Dataset))
	if !ok {
		return nil, eerrors.InvalidRequestError{Field: "dataset", Value: string(filter.Dataset)}
	}

	var entries []model.Entry
	if dataset == model.DatasetAll && len(filter.Countries) == 0 {
		entries = s.catalog.Search(query, limit)
	} else {
		entries = s.catalog.SearchPool(s.catalog.FilteredPool(dataset, filter.Countries), query, limit)
	}

	hits := make([]SearchHit, 0, len(entries))
	for _, entry := range entries {
		hits = append(hits, SearchHit{
			ID:      entry.ID,
			Name:    entry.Name,
			Country: entry.Country,
			Period:  entry.Era.Period,
		})
	}
	return hits, nil
}

// EntrySolveRates: 엠블럼별 정답률 집계. DB 가 없으면 ErrAnalyticsDisabled 를 반환합니다.
func (s *GameService) EntrySolveRates(ctx context.Context, rawMode string, limit int) ([]repository.EntrySolveRate, error) {
	if s.analytics == nil {
		return nil, eerrors.ErrAnalyticsDisabled
	}
	var mode model.Mode
	if rawMode != "" {
		parsed, ok := model.ParseMode(rawMode)
		if !ok {
			return nil, eerrors.InvalidRequestError{Field: "mode", Value: rawMode}
		}
		mode = parsed
	}
	return s.analytics.EntrySolveRates(ctx, mode, limit)
}
