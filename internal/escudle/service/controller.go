package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/LeandroCantero/Escudle/internal/common/textutil"
	"github.com/LeandroCantero/Escudle/internal/escudle/daily"
	eerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
	"github.com/LeandroCantero/Escudle/internal/escudle/repository"
)

// ProgressStore: 컨트롤러가 사용하는 진행 상태 저장소
type ProgressStore interface {
	Today() model.CalendarDay
	LoadDailyRound(ctx context.Context, playerID string, difficulty model.Difficulty) (*model.DailyRoundState, error)
	StartDailyRound(ctx context.Context, playerID string, difficulty model.Difficulty, entry model.Entry, dataset model.DatasetFilter) (*model.DailyRoundState, error)
	AppendGuess(ctx context.Context, playerID string, difficulty model.Difficulty, guess string) (*model.DailyRoundState, error)
	CompleteDailyRound(ctx context.Context, playerID string, difficulty model.Difficulty, won bool, finalGuesses []string) (*model.DailyStats, error)
	LoadDailyStats(ctx context.Context, playerID string, difficulty model.Difficulty) (*model.DailyStats, error)
	LoadInfiniteStats(ctx context.Context, playerID string, difficulty model.Difficulty) (*model.InfiniteStats, error)
	CompleteInfiniteSession(ctx context.Context, playerID string, difficulty model.Difficulty, finalScore int) (*model.InfiniteStats, bool, error)
}

// EntryCatalog: 후보 풀을 제공하는 카탈로그
type EntryCatalog interface {
	DailyPool() []model.Entry
	FilteredPool(dataset model.DatasetFilter, countries model.CountryFilter) []model.Entry
	ByID(id string) (model.Entry, bool)
}

// RoundResultSink: 끝난 라운드를 분석용으로 받아가는 대상
type RoundResultSink interface {
	Record(ctx context.Context, result model.RoundResult)
}

// Dependencies: 컨트롤러 공용 의존성
type Dependencies struct {
	Catalog          EntryCatalog
	Progress         ProgressStore
	Results          RoundResultSink // nil 이면 기록하지 않음
	Metrics          Metrics
	Logger           *slog.Logger
	Now              func() time.Time
	Seed             uint64 // 0 이면 무작위 시드
	StatsRevealDelay time.Duration
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Metrics == nil {
		d.Metrics = NoopMetrics()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// RoundRequest: 라운드 시작 요청
type RoundRequest struct {
	Mode           model.Mode
	Difficulty     model.Difficulty
	Dataset        model.DatasetFilter
	Countries      model.CountryFilter
	RestartSession bool
}

// GuessView: 제출된 추측 한 건
type GuessView struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// RoundView: 현재 라운드의 공개 상태. 정답은 라운드가 끝난 뒤에만 채워집니다.
type RoundView struct {
	Mode          model.Mode           `json:"mode,omitempty"`
	Difficulty    model.Difficulty     `json:"difficulty,omitempty"`
	Dataset       model.DatasetFilter  `json:"dataset,omitempty"`
	State         model.GameState      `json:"state"`
	Attempts      int                  `json:"attempts"`
	MaxAttempts   int                  `json:"maxAttempts"`
	Guesses       []GuessView          `json:"guesses"`
	Image         *model.ImageRef      `json:"image,omitempty"`
	Answer        *model.Entry         `json:"answer,omitempty"`
	StatsReadyAt  *time.Time           `json:"statsReadyAt,omitempty"`
	Score         int                  `json:"score"`
	NewHighScore  bool                 `json:"newHighScore,omitempty"`
	DailyStats    *model.DailyStats    `json:"dailyStats,omitempty"`
	InfiniteStats *model.InfiniteStats `json:"infiniteStats,omitempty"`
}

// GuessOutcome: 추측 제출 결과. 무시된 추측은 Accepted=false 입니다.
type GuessOutcome struct {
	Accepted bool      `json:"accepted"`
	Correct  bool      `json:"correct"`
	View     RoundView `json:"round"`
}

// Controller: 플레이어 한 명의 라운드 상태 머신 (not_started -> playing -> won/lost)
type Controller struct {
	mu       sync.Mutex
	playerID string
	deps     Dependencies
	rng      *rand.Rand

	state       model.GameState
	mode        model.Mode
	difficulty  model.Difficulty
	dataset     model.DatasetFilter
	target      model.Entry
	guesses     []string
	roundID     string
	completedAt time.Time

	// 무한 모드 세션은 라운드 종료/이탈 후에도 유지됩니다.
	session           *model.InfiniteSession
	sessionDifficulty model.Difficulty
	lastMode          model.Mode
	finalScore        int

	dailyStats    *model.DailyStats
	infiniteStats *model.InfiniteStats
	newHighScore  bool
}

// NewController: 플레이어 컨트롤러를 생성합니다.
func NewController(playerID string, deps Dependencies) *Controller {
	deps = deps.withDefaults()
	seed := deps.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(playerID))

	return &Controller{
		playerID: playerID,
		deps:     deps,
		rng:      rand.New(rand.NewPCG(seed, h.Sum64())),
		state:    model.GameNotStarted,
	}
}

// PlayerID: 컨트롤러 소유 플레이어 ID
func (c *Controller) PlayerID() string { return c.playerID }

func (c *Controller) buildPool(req RoundRequest) []model.Entry {
	if req.Mode == model.ModeDaily {
		return c.deps.Catalog.DailyPool()
	}
	return c.deps.Catalog.FilteredPool(req.Dataset, req.Countries)
}

func validateRequest(req RoundRequest) (RoundRequest, error) {
	mode, ok := model.ParseMode(string(req.Mode))
	if !ok {
		return req, eerrors.InvalidRequestError{Field: "mode", Value: string(req.Mode)}
	}
	difficulty, ok := model.ParseDifficulty(string(req.Difficulty))
	if !ok {
		return req, eerrors.InvalidRequestError{Field: "difficulty", Value: string(req.Difficulty)}
	}
	dataset, ok := model.ParseDatasetFilter(string(req.Dataset))
	if !ok {
		return req, eerrors.InvalidRequestError{Field: "dataset", Value: string(req.Dataset)}
	}
	req.Mode = mode
	req.Difficulty = difficulty
	req.Dataset = dataset
	return req, nil
}

// StartRound: 새 라운드를 시작합니다. 일일 모드는 오늘 저장된 라운드가 있으면 이어서 진행합니다.
// 후보 풀이 비면 EmptyPoolError 를 반환하고 기존 상태는 그대로 둡니다.
func (c *Controller) StartRound(ctx context.Context, req RoundRequest) (RoundView, error) {
	req, err := validateRequest(req)
	if err != nil {
		return RoundView{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pool := c.buildPool(req)
	if len(pool) == 0 {
		poolErr := eerrors.EmptyPoolError{Mode: string(req.Mode), Dataset: string(req.Dataset), Countries: req.Countries}
		if req.Mode == model.ModeDaily {
			poolErr.Dataset = ""
			poolErr.Countries = nil
		}
		c.deps.Logger.WarnContext(ctx, "round_pool_empty",
			"player_id", c.playerID,
			"mode", req.Mode,
			"dataset", req.Dataset,
			"countries", req.Countries,
		)
		return RoundView{}, poolErr
	}

	switch req.Mode {
	case model.ModeDaily:
		if err := c.startDailyLocked(ctx, req, pool); err != nil {
			return RoundView{}, err
		}
	case model.ModeInfinite:
		c.startInfiniteLocked(req, pool)
	default:
		c.beginLocked(req, pool[c.rng.IntN(len(pool))], repository.NewRoundID(c.playerID))
	}

	c.lastMode = req.Mode
	if c.state == model.GamePlaying {
		c.deps.Metrics.RoundStarted(req.Mode, req.Difficulty)
	}
	c.deps.Logger.InfoContext(ctx, "round_started",
		"player_id", c.playerID,
		"mode", req.Mode,
		"difficulty", req.Difficulty,
		"state", c.state,
		"pool_size", len(pool),
	)
	return c.viewLocked(), nil
}

func dailyRoundID(playerID string, day model.CalendarDay, difficulty model.Difficulty) string {
	return fmt.Sprintf("%s:daily:%s:%s", playerID, difficulty, day)
}

func (c *Controller) startDailyLocked(ctx context.Context, req RoundRequest, pool []model.Entry) error {
	stored, err := c.deps.Progress.LoadDailyRound(ctx, c.playerID, req.Difficulty)
	if err != nil {
		return err
	}
	if stored != nil {
		if entry, ok := c.deps.Catalog.ByID(stored.EntryID); ok {
			return c.resumeDailyLocked(ctx, req, entry, stored)
		}
		c.deps.Logger.WarnContext(ctx, "daily_round_entry_missing",
			"player_id", c.playerID,
			"difficulty", req.Difficulty,
			"entry_id", stored.EntryID,
			"status", stored.Status,
		)
		// 오늘 이미 끝난 라운드는 통계에 반영되었으므로 다시 시작하지 않는다.
		if stored.Status.IsTerminal() {
			return c.resumeDailyLocked(ctx, req, missingEntry(stored), stored)
		}
	}

	today := c.deps.Progress.Today()
	entry, err := daily.SelectDaily(today, req.Difficulty, pool)
	if err != nil {
		return err
	}
	if _, err := c.deps.Progress.StartDailyRound(ctx, c.playerID, req.Difficulty, entry, req.Dataset); err != nil {
		return err
	}
	c.beginLocked(req, entry, dailyRoundID(c.playerID, today, req.Difficulty))
	return nil
}

// missingEntry: 카탈로그에서 사라진 정답의 대체 항목. 맞힌 라운드면 마지막 추측이 곧 이름입니다.
func missingEntry(stored *model.DailyRoundState) model.Entry {
	entry := model.Entry{ID: stored.EntryID, Name: stored.EntryID}
	if stored.Status == model.RoundWon && len(stored.Guesses) > 0 {
		entry.Name = stored.Guesses[len(stored.Guesses)-1]
	}
	return entry
}

func (c *Controller) resumeDailyLocked(ctx context.Context, req RoundRequest, entry model.Entry, stored *model.DailyRoundState) error {
	var stats *model.DailyStats
	if stored.Status.IsTerminal() {
		loaded, err := c.deps.Progress.LoadDailyStats(ctx, c.playerID, req.Difficulty)
		if err != nil {
			return err
		}
		stats = loaded
	}

	c.beginLocked(req, entry, dailyRoundID(c.playerID, stored.Date, req.Difficulty))
	c.guesses = slices.Clone(stored.Guesses)
	switch stored.Status {
	case model.RoundWon:
		c.state = model.GameWon
	case model.RoundLost:
		c.state = model.GameLost
	}
	if stored.CompletedAt != nil {
		c.completedAt = time.UnixMilli(*stored.CompletedAt).UTC()
	}
	c.dailyStats = stats

	c.deps.Logger.InfoContext(ctx, "daily_round_resumed",
		"player_id", c.playerID,
		"difficulty", req.Difficulty,
		"status", stored.Status,
		"attempts", len(stored.Guesses),
	)
	return nil
}

func (c *Controller) startInfiniteLocked(req RoundRequest, pool []model.Entry) {
	if c.session == nil || req.RestartSession || c.sessionDifficulty != req.Difficulty || c.lastMode != model.ModeInfinite {
		c.session = model.NewInfiniteSession(c.deps.Now().UnixMilli())
		c.sessionDifficulty = req.Difficulty
	}

	candidates := make([]model.Entry, 0, len(pool))
	for _, entry := range pool {
		if !c.session.HasPlayed(entry.ID) {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		c.deps.Logger.Info("infinite_pool_wrapped",
			"player_id", c.playerID,
			"difficulty", req.Difficulty,
			"played", len(c.session.PlayedEntryIDs),
		)
		clear(c.session.PlayedEntryIDs)
		candidates = pool
	}

	c.beginLocked(req, candidates[c.rng.IntN(len(candidates))], repository.NewRoundID(c.playerID))
}

func (c *Controller) beginLocked(req RoundRequest, target model.Entry, roundID string) {
	c.state = model.GamePlaying
	c.mode = req.Mode
	c.difficulty = req.Difficulty
	c.dataset = req.Dataset
	c.target = target
	c.guesses = []string{}
	c.roundID = roundID
	c.completedAt = time.Time{}
	c.finalScore = 0
	c.dailyStats = nil
	c.infiniteStats = nil
	c.newHighScore = false
}

// SubmitGuess: 추측을 제출합니다. 진행 중이 아니거나 시도 횟수를 다 쓴 경우 무시됩니다.
// 일일 라운드가 저장소에서 사라졌으면(자정 경과 등) not_started 로 돌아가고 무시됩니다.
// 그 밖의 저장소 실패는 상태를 바꾸지 않고 에러를 반환합니다.
func (c *Controller) SubmitGuess(ctx context.Context, text string) (GuessOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.GamePlaying || len(c.guesses) >= model.MaxAttempts {
		return GuessOutcome{Accepted: false, View: c.viewLocked()}, nil
	}

	guess := textutil.StripImageSuffix(text)
	if guess == "" {
		return GuessOutcome{}, eerrors.InvalidRequestError{Field: "guess", Value: text}
	}

	correct := textutil.EqualFold(guess, c.target.Name)
	guesses := append(slices.Clone(c.guesses), guess)
	terminal := correct || len(guesses) >= model.MaxAttempts

	switch c.mode {
	case model.ModeDaily:
		err := c.recordDailyGuessLocked(ctx, guess, guesses, correct, terminal)
		if errors.Is(err, eerrors.ErrNoActiveRound) {
			// UTC 자정이 지났거나 저장된 라운드가 이미 끝났음. 새 라운드를 시작하도록 되돌린다.
			c.deps.Logger.WarnContext(ctx, "daily_round_expired",
				"player_id", c.playerID,
				"difficulty", c.difficulty,
				"attempts", len(c.guesses),
			)
			c.resetLocked()
			return GuessOutcome{Accepted: false, View: c.viewLocked()}, nil
		}
		if err != nil {
			return GuessOutcome{}, err
		}
	case model.ModeInfinite:
		if err := c.recordInfiniteGuessLocked(ctx, correct, terminal); err != nil {
			return GuessOutcome{}, err
		}
	}

	c.guesses = guesses
	c.deps.Metrics.Guess(c.mode, correct)
	if terminal {
		c.finishLocked(ctx, correct)
	}
	return GuessOutcome{Accepted: true, Correct: correct, View: c.viewLocked()}, nil
}

func (c *Controller) recordDailyGuessLocked(ctx context.Context, guess string, guesses []string, correct bool, terminal bool) error {
	if !terminal {
		if _, err := c.deps.Progress.AppendGuess(ctx, c.playerID, c.difficulty, guess); err != nil {
			return err
		}
		return nil
	}

	stats, err := c.deps.Progress.CompleteDailyRound(ctx, c.playerID, c.difficulty, correct, guesses)
	if err != nil {
		return err
	}
	c.dailyStats = stats
	return nil
}

func (c *Controller) recordInfiniteGuessLocked(ctx context.Context, correct bool, terminal bool) error {
	if correct {
		c.session.Score++
		c.session.MarkPlayed(c.target.ID)
		c.finalScore = c.session.Score
		return nil
	}
	if !terminal {
		return nil
	}

	score := c.session.Score
	stats, newHigh, err := c.deps.Progress.CompleteInfiniteSession(ctx, c.playerID, c.difficulty, score)
	if err != nil {
		return err
	}
	c.infiniteStats = stats
	c.newHighScore = newHigh
	c.finalScore = score
	c.session = model.NewInfiniteSession(c.deps.Now().UnixMilli())
	return nil
}

func (c *Controller) finishLocked(ctx context.Context, won bool) {
	c.state = model.GameLost
	if won {
		c.state = model.GameWon
	}
	c.completedAt = c.deps.Now().UTC()
	c.deps.Metrics.RoundCompleted(c.mode, c.difficulty, won)

	c.deps.Logger.InfoContext(ctx, "round_completed",
		"player_id", c.playerID,
		"mode", c.mode,
		"difficulty", c.difficulty,
		"won", won,
		"attempts", len(c.guesses),
		"entry_id", c.target.ID,
	)

	if c.deps.Results == nil {
		return
	}
	result := model.RoundResult{
		RoundID:     c.roundID,
		PlayerID:    c.playerID,
		Mode:        c.mode,
		Difficulty:  c.difficulty,
		EntryID:     c.target.ID,
		Won:         won,
		Attempts:    len(c.guesses),
		CompletedAt: c.completedAt,
	}
	if c.mode == model.ModeInfinite {
		result.Score = c.finalScore
	}
	c.deps.Results.Record(ctx, result)
}

// ExitRound: 라운드를 버리고 not_started 로 돌아갑니다. 무한 모드 세션과 저장된 통계는 유지됩니다.
func (c *Controller) ExitRound() RoundView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	return c.viewLocked()
}

func (c *Controller) resetLocked() {
	c.state = model.GameNotStarted
	c.target = model.Entry{}
	c.guesses = nil
	c.roundID = ""
	c.completedAt = time.Time{}
	c.dailyStats = nil
	c.infiniteStats = nil
	c.newHighScore = false
}

// View: 현재 라운드 상태를 반환합니다.
func (c *Controller) View() RoundView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Session: 진행 중인 무한 모드 세션의 복사본 (없으면 nil)
func (c *Controller) Session() *model.InfiniteSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	played := make(map[string]struct{}, len(c.session.PlayedEntryIDs))
	for id := range c.session.PlayedEntryIDs {
		played[id] = struct{}{}
	}
	return &model.InfiniteSession{
		Score:          c.session.Score,
		StartedAt:      c.session.StartedAt,
		PlayedEntryIDs: played,
	}
}

func (c *Controller) viewLocked() RoundView {
	view := RoundView{
		State:       c.state,
		MaxAttempts: model.MaxAttempts,
		Guesses:     []GuessView{},
	}
	if c.state == model.GameNotStarted {
		return view
	}

	view.Mode = c.mode
	view.Difficulty = c.difficulty
	view.Dataset = c.dataset
	view.Attempts = len(c.guesses)
	for _, guess := range c.guesses {
		view.Guesses = append(view.Guesses, GuessView{Text: guess, Correct: textutil.EqualFold(guess, c.target.Name)})
	}
	image := c.target.Image
	view.Image = &image

	if c.mode == model.ModeInfinite {
		view.Score = c.finalScore
		if c.session != nil && c.state != model.GameLost {
			view.Score = c.session.Score
		}
		view.NewHighScore = c.newHighScore
	}

	if c.state.IsTerminal() {
		answer := c.target
		view.Answer = &answer
		if !c.completedAt.IsZero() {
			readyAt := c.completedAt.Add(c.deps.StatsRevealDelay)
			view.StatsReadyAt = &readyAt
		}
		view.DailyStats = c.dailyStats
		view.InfiniteStats = c.infiniteStats
	}
	return view
}
