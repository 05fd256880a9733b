package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/LeandroCantero/Escudle/internal/common/testhelper"
	"github.com/LeandroCantero/Escudle/internal/escudle/catalog"
	"github.com/LeandroCantero/Escudle/internal/escudle/daily"
	eerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
	eredis "github.com/LeandroCantero/Escudle/internal/escudle/redis"
)

const testCatalog = `[
  {"id": "arg-river", "name": "River Plate", "country": "argentina", "isHistorical": false, "localPath": "/logos/river.png"},
  {"id": "arg-boca", "name": "Boca Juniors", "country": "argentina", "isHistorical": false, "localPath": "/logos/boca.png"},
  {"id": "esp-atm-1947", "name": "Atlético Madrid", "country": "spain", "isHistorical": true, "period": "1947-2017", "localPath": "/logos/atm.png"},
  {"id": "cup-libertadores", "name": "Copa Libertadores", "country": "tournaments", "type": "tournament", "isHistorical": false, "localPath": "/logos/lib.png"}
]`

const riverOnlyCatalog = `[
  {"id": "a", "name": "River Plate", "country": "argentina", "isHistorical": false, "localPath": "/logos/a.png"},
  {"id": "cup", "name": "Copa Libertadores", "country": "tournaments", "type": "tournament", "isHistorical": false, "localPath": "/logos/cup.png"}
]`

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingSink struct {
	mu      sync.Mutex
	results []model.RoundResult
}

func (s *recordingSink) Record(_ context.Context, result model.RoundResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

func (s *recordingSink) Results() []model.RoundResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.RoundResult(nil), s.results...)
}

type harness struct {
	catalog *catalog.Catalog
	store   *eredis.ProgressStore
	mr      *miniredis.Miniredis
	clock   *testClock
	sink    *recordingSink
	deps    Dependencies
}

func newHarness(t *testing.T, catalogJSON string) *harness {
	t.Helper()
	cat, err := catalog.Load([]byte(catalogJSON))
	if err != nil {
		t.Fatalf("catalog load failed: %v", err)
	}
	client, mr := testhelper.NewMiniredisClient(t)
	clock := &testClock{now: time.Date(2026, time.February, 10, 15, 0, 0, 0, time.UTC)}
	logger := testhelper.DiscardLogger()
	store := eredis.NewProgressStore(client, logger, eredis.WithClock(clock.Now))
	sink := &recordingSink{}

	return &harness{
		catalog: cat,
		store:   store,
		mr:      mr,
		clock:   clock,
		sink:    sink,
		deps: Dependencies{
			Catalog:          cat,
			Progress:         store,
			Results:          sink,
			Logger:           logger,
			Now:              clock.Now,
			Seed:             42,
			StatsRevealDelay: 2 * time.Second,
		},
	}
}

func (h *harness) controller(playerID string) *Controller {
	return NewController(playerID, h.deps)
}

// targetByImage: 진행 중에는 정답이 숨겨지므로 이미지 경로로 대상을 찾습니다.
func (h *harness) targetByImage(t *testing.T, view RoundView) model.Entry {
	t.Helper()
	if view.Image == nil {
		t.Fatal("expected image in view")
	}
	for _, entry := range h.catalog.Entries() {
		if entry.Image == *view.Image {
			return entry
		}
	}
	t.Fatalf("no entry for image %+v", view.Image)
	return model.Entry{}
}

func TestController_DailyRiverPlateScenario(t *testing.T) {
	h := newHarness(t, riverOnlyCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")

	view, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyEasy})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if view.State != model.GamePlaying || view.Image.Ref != "/logos/a.png" {
		t.Fatalf("expected River Plate round, got %+v", view)
	}
	if view.Answer != nil {
		t.Error("answer must stay hidden while playing")
	}

	outcome, err := ctrl.SubmitGuess(ctx, "river plate")
	if err != nil {
		t.Fatalf("guess failed: %v", err)
	}
	if !outcome.Accepted || !outcome.Correct || outcome.View.State != model.GameWon {
		t.Fatalf("expected win, got %+v", outcome)
	}
	if outcome.View.Answer == nil || outcome.View.Answer.ID != "a" {
		t.Errorf("expected answer after win, got %+v", outcome.View.Answer)
	}
	stats := outcome.View.DailyStats
	if stats == nil || stats.GuessDistribution[1] != 1 || stats.TotalWins != 1 || stats.TotalPlayed != 1 {
		t.Errorf("unexpected daily stats: %+v", stats)
	}
	wantReady := h.clock.Now().Add(2 * time.Second)
	if outcome.View.StatsReadyAt == nil || !outcome.View.StatsReadyAt.Equal(wantReady) {
		t.Errorf("expected statsReadyAt %s, got %v", wantReady, outcome.View.StatsReadyAt)
	}

	results := h.sink.Results()
	if len(results) != 1 || !results[0].Won || results[0].Attempts != 1 || results[0].RoundID != "p1:daily:easy:2026-02-10" {
		t.Errorf("unexpected recorded results: %+v", results)
	}
}

func TestController_DailyTargetMatchesSeedSelector(t *testing.T) {
	h := newHarness(t, testCatalog)
	ctx := context.Background()

	for _, difficulty := range model.Difficulties {
		want, err := daily.SelectDaily(h.store.Today(), difficulty, h.catalog.DailyPool())
		if err != nil {
			t.Fatal(err)
		}
		view, err := h.controller("p-"+string(difficulty)).StartRound(ctx, RoundRequest{Mode: model.ModeDaily, Difficulty: difficulty})
		if err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if got := h.targetByImage(t, view); got.ID != want.ID {
			t.Errorf("difficulty %s: expected %s, got %s", difficulty, want.ID, got.ID)
		}
		if want.IsTournament() {
			t.Errorf("daily pool must exclude tournaments")
		}
	}
}

func TestController_DailyResumeIsIdempotent(t *testing.T) {
	h := newHarness(t, testCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")
	req := RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyMedium}

	first, err := ctrl.StartRound(ctx, req)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	target := h.targetByImage(t, first)
	wrong := "Boca Juniors"
	if target.Name == wrong {
		wrong = "River Plate"
	}
	if _, err := ctrl.SubmitGuess(ctx, wrong); err != nil {
		t.Fatalf("guess failed: %v", err)
	}

	second, err := ctrl.StartRound(ctx, req)
	if err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	// 메모리에서 제거된 뒤의 새 컨트롤러도 같은 라운드를 이어받습니다.
	third, err := h.controller("p1").StartRound(ctx, req)
	if err != nil {
		t.Fatalf("fresh controller start failed: %v", err)
	}

	for _, view := range []RoundView{second, third} {
		if *view.Image != *first.Image {
			t.Errorf("expected same target image, got %+v", view.Image)
		}
		if view.Attempts != 1 || view.Guesses[0].Text != wrong || view.Guesses[0].Correct {
			t.Errorf("expected guess history to be restored, got %+v", view.Guesses)
		}
		if view.State != model.GamePlaying {
			t.Errorf("expected playing, got %s", view.State)
		}
	}
}

func TestController_DailyCompletedRoundResumesWithoutRecount(t *testing.T) {
	h := newHarness(t, riverOnlyCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")
	req := RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyHard}

	if _, err := ctrl.StartRound(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.SubmitGuess(ctx, "River Plate"); err != nil {
		t.Fatal(err)
	}

	view, err := ctrl.StartRound(ctx, req)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if view.State != model.GameWon || view.Answer == nil || view.StatsReadyAt == nil {
		t.Errorf("expected completed round to resume as won, got %+v", view)
	}
	outcome, err := ctrl.SubmitGuess(ctx, "River Plate")
	if err != nil || outcome.Accepted {
		t.Errorf("guess on completed round must be ignored, got %+v err=%v", outcome, err)
	}

	stats, err := h.store.LoadDailyStats(ctx, "p1", model.DifficultyHard)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPlayed != 1 || stats.TotalWins != 1 {
		t.Errorf("completion must be counted once, got %+v", stats)
	}
}

func TestController_DailyRoundExpiresAtMidnight(t *testing.T) {
	h := newHarness(t, riverOnlyCatalog)
	h.clock.now = time.Date(2026, time.February, 10, 23, 59, 0, 0, time.UTC)
	ctx := context.Background()
	ctrl := h.controller("p1")
	req := RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyEasy}

	if _, err := ctrl.StartRound(ctx, req); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := ctrl.SubmitGuess(ctx, "Boca Juniors"); err != nil {
		t.Fatalf("guess failed: %v", err)
	}

	h.clock.Advance(2 * time.Minute)

	outcome, err := ctrl.SubmitGuess(ctx, "Racing Club")
	if err != nil {
		t.Fatalf("guess after midnight must not fail: %v", err)
	}
	if outcome.Accepted || outcome.View.State != model.GameNotStarted {
		t.Fatalf("expected expired round to reset, got %+v", outcome)
	}
	if view := ctrl.View(); view.State != model.GameNotStarted {
		t.Fatalf("current round must not stay playable, got %s", view.State)
	}

	view, err := ctrl.StartRound(ctx, req)
	if err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if view.State != model.GamePlaying || view.Attempts != 0 {
		t.Fatalf("expected fresh round for the new day, got %+v", view)
	}
	won, err := ctrl.SubmitGuess(ctx, "River Plate")
	if err != nil || !won.Correct || won.View.State != model.GameWon {
		t.Fatalf("expected win on the new day, got %+v err=%v", won, err)
	}
	if stats := won.View.DailyStats; stats == nil || stats.TotalPlayed != 1 {
		t.Errorf("unexpected daily stats: %+v", stats)
	}
	results := h.sink.Results()
	if len(results) != 1 || results[0].RoundID != "p1:daily:easy:2026-02-11" {
		t.Errorf("unexpected recorded results: %+v", results)
	}
}

func TestController_DailyCompletedRoundSurvivesCatalogSwap(t *testing.T) {
	h := newHarness(t, riverOnlyCatalog)
	ctx := context.Background()
	req := RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyHard}

	ctrl := h.controller("p1")
	if _, err := ctrl.StartRound(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.SubmitGuess(ctx, "River Plate"); err != nil {
		t.Fatal(err)
	}

	// 정답 "a" 가 없는 카탈로그로 교체
	swapped, err := catalog.Load([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	deps := h.deps
	deps.Catalog = swapped
	view, err := NewController("p1", deps).StartRound(ctx, req)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if view.State != model.GameWon || view.Attempts != 1 {
		t.Fatalf("completed round must stay completed, got %+v", view)
	}
	if view.Answer == nil || view.Answer.Name != "River Plate" {
		t.Errorf("expected answer name from winning guess, got %+v", view.Answer)
	}

	stats, err := h.store.LoadDailyStats(ctx, "p1", model.DifficultyHard)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPlayed != 1 || stats.TotalWins != 1 {
		t.Errorf("completion must be counted once, got %+v", stats)
	}
}

func TestController_DailySixWrongGuesses(t *testing.T) {
	h := newHarness(t, riverOnlyCatalog)
	ctx := context.Background()
	h.mr.Set("escudle:daily:stats:p1:easy", `{"currentStreak":4,"maxStreak":4,"totalPlayed":4,"totalWins":4,`+
		`"lastPlayedDate":"2026-02-09","guessDistribution":{"1":4}}`)

	ctrl := h.controller("p1")
	if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyEasy}); err != nil {
		t.Fatal(err)
	}

	var outcome GuessOutcome
	var err error
	for i := 0; i < model.MaxAttempts; i++ {
		outcome, err = ctrl.SubmitGuess(ctx, "Boca Juniors")
		if err != nil {
			t.Fatalf("guess %d failed: %v", i+1, err)
		}
		if !outcome.Accepted || outcome.Correct {
			t.Fatalf("guess %d: unexpected outcome %+v", i+1, outcome)
		}
	}
	if outcome.View.State != model.GameLost {
		t.Fatalf("expected lost after 6 guesses, got %s", outcome.View.State)
	}
	stats := outcome.View.DailyStats
	if stats == nil || stats.CurrentStreak != 0 || stats.MaxStreak != 4 || stats.TotalPlayed != 5 || stats.TotalWins != 4 {
		t.Errorf("unexpected stats after loss: %+v", stats)
	}

	seventh, err := ctrl.SubmitGuess(ctx, "River Plate")
	if err != nil {
		t.Fatalf("seventh guess returned error: %v", err)
	}
	if seventh.Accepted || seventh.View.State != model.GameLost || seventh.View.Attempts != model.MaxAttempts {
		t.Errorf("seventh guess must be ignored, got %+v", seventh)
	}

	round, err := h.store.LoadDailyRound(ctx, "p1", model.DifficultyEasy)
	if err != nil {
		t.Fatal(err)
	}
	if round.Status != model.RoundLost || len(round.Guesses) != model.MaxAttempts {
		t.Errorf("unexpected stored round: %+v", round)
	}
}

func TestController_DailyStreakIncrementsFromYesterday(t *testing.T) {
	h := newHarness(t, riverOnlyCatalog)
	ctx := context.Background()
	h.mr.Set("escudle:daily:stats:p1:easy", `{"currentStreak":2,"maxStreak":7,"totalPlayed":9,"totalWins":9,`+
		`"lastPlayedDate":"2026-02-09","guessDistribution":{"1":9}}`)

	ctrl := h.controller("p1")
	if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyEasy}); err != nil {
		t.Fatal(err)
	}
	outcome, err := ctrl.SubmitGuess(ctx, "RIVER PLATE svg")
	if err != nil {
		t.Fatal(err)
	}
	stats := outcome.View.DailyStats
	if stats.CurrentStreak != 3 || stats.MaxStreak != 7 {
		t.Errorf("expected streak 3 with max 7, got %d/%d", stats.CurrentStreak, stats.MaxStreak)
	}
	if outcome.View.Guesses[0].Text != "RIVER PLATE" {
		t.Errorf("expected suffix stripped from stored guess, got %q", outcome.View.Guesses[0].Text)
	}
}

func TestController_WinDetectionIgnoresAccentsAndCase(t *testing.T) {
	h := newHarness(t, `[{"id":"atm","name":"Atlético Madrid","country":"spain","isHistorical":false,"localPath":"/atm.png"}]`)
	ctx := context.Background()

	for _, guess := range []string{"atletico madrid", "ATLÉTICO MADRID", "Atletico Madrid PNG", "  atlético   madrid "} {
		ctrl := h.controller("p1")
		if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModePractice, Difficulty: model.DifficultyEasy}); err != nil {
			t.Fatal(err)
		}
		outcome, err := ctrl.SubmitGuess(ctx, guess)
		if err != nil {
			t.Fatal(err)
		}
		if !outcome.Correct || outcome.View.State != model.GameWon {
			t.Errorf("guess %q should match Atlético Madrid", guess)
		}
	}
}

func TestController_PracticePersistsNothing(t *testing.T) {
	h := newHarness(t, testCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")

	if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModePractice, Difficulty: model.DifficultyEasy}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < model.MaxAttempts; i++ {
		if _, err := ctrl.SubmitGuess(ctx, "nope"); err != nil {
			t.Fatal(err)
		}
	}
	if view := ctrl.View(); view.State != model.GameLost {
		t.Fatalf("expected lost, got %s", view.State)
	}
	if keys := h.mr.Keys(); len(keys) != 0 {
		t.Errorf("practice must not persist anything, found %v", keys)
	}
	if results := h.sink.Results(); len(results) != 1 || results[0].Mode != model.ModePractice {
		t.Errorf("expected practice result for analytics, got %+v", results)
	}
}

func TestController_InfiniteWrapsAfterPoolExhausted(t *testing.T) {
	h := newHarness(t, `[
  {"id": "a", "name": "Alpha", "country": "x", "isHistorical": false, "localPath": "/a.png"},
  {"id": "b", "name": "Bravo", "country": "x", "isHistorical": false, "localPath": "/b.png"},
  {"id": "c", "name": "Charlie", "country": "x", "isHistorical": false, "localPath": "/c.png"}
]`)
	ctx := context.Background()
	ctrl := h.controller("p1")
	req := RoundRequest{Mode: model.ModeInfinite, Difficulty: model.DifficultyEasy}

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		view, err := ctrl.StartRound(ctx, req)
		if err != nil {
			t.Fatalf("start %d failed: %v", i+1, err)
		}
		target := h.targetByImage(t, view)
		if seen[target.ID] {
			t.Fatalf("entry %s repeated before the pool was exhausted", target.ID)
		}
		seen[target.ID] = true

		outcome, err := ctrl.SubmitGuess(ctx, target.Name)
		if err != nil || !outcome.Correct {
			t.Fatalf("guess %d failed: %+v err=%v", i+1, outcome, err)
		}
		if outcome.View.Score != i+1 {
			t.Errorf("expected score %d, got %d", i+1, outcome.View.Score)
		}
	}

	session := ctrl.Session()
	if session == nil || len(session.PlayedEntryIDs) != 3 || session.Score != 3 {
		t.Fatalf("expected 3 played entries, got %+v", session)
	}

	view, err := ctrl.StartRound(ctx, req)
	if err != nil {
		t.Fatalf("start after exhaustion must wrap, got %v", err)
	}
	if view.State != model.GamePlaying || view.Score != 3 {
		t.Errorf("expected playing round keeping score, got %+v", view)
	}
	if session := ctrl.Session(); len(session.PlayedEntryIDs) != 0 {
		t.Errorf("expected exclusion set cleared, got %v", session.PlayedEntryIDs)
	}
}

func TestController_InfiniteLossCompletesSession(t *testing.T) {
	h := newHarness(t, testCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")
	req := RoundRequest{Mode: model.ModeInfinite, Difficulty: model.DifficultyHard, Dataset: model.DatasetCurrent}

	view, err := ctrl.StartRound(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.SubmitGuess(ctx, h.targetByImage(t, view).Name); err != nil {
		t.Fatal(err)
	}

	if _, err := ctrl.StartRound(ctx, req); err != nil {
		t.Fatal(err)
	}
	var outcome GuessOutcome
	for i := 0; i < model.MaxAttempts; i++ {
		outcome, err = ctrl.SubmitGuess(ctx, "definitely wrong")
		if err != nil {
			t.Fatal(err)
		}
	}
	if outcome.View.State != model.GameLost {
		t.Fatalf("expected lost, got %s", outcome.View.State)
	}
	if outcome.View.Score != 1 || !outcome.View.NewHighScore {
		t.Errorf("expected final score 1 with new high score, got %+v", outcome.View)
	}
	stats := outcome.View.InfiniteStats
	if stats == nil || stats.TotalSessions != 1 || stats.HighScore != 1 || stats.TotalCorrect != 1 {
		t.Errorf("unexpected infinite stats: %+v", stats)
	}
	if session := ctrl.Session(); session.Score != 0 || len(session.PlayedEntryIDs) != 0 {
		t.Errorf("expected session reset after loss, got %+v", session)
	}

	results := h.sink.Results()
	if len(results) != 2 || results[1].Won || results[1].Score != 1 {
		t.Errorf("unexpected recorded results: %+v", results)
	}
}

func TestController_InfiniteSessionReset(t *testing.T) {
	h := newHarness(t, testCatalog)
	ctx := context.Background()

	winOnce := func(t *testing.T, ctrl *Controller, req RoundRequest) {
		t.Helper()
		view, err := ctrl.StartRound(ctx, req)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ctrl.SubmitGuess(ctx, h.targetByImage(t, view).Name); err != nil {
			t.Fatal(err)
		}
	}
	easy := RoundRequest{Mode: model.ModeInfinite, Difficulty: model.DifficultyEasy}

	tests := []struct {
		name string
		next func(ctrl *Controller) RoundView
		keep bool
	}{
		{
			name: "same settings keep score",
			next: func(ctrl *Controller) RoundView {
				v, _ := ctrl.StartRound(ctx, easy)
				return v
			},
			keep: true,
		},
		{
			name: "exit keeps session",
			next: func(ctrl *Controller) RoundView {
				ctrl.ExitRound()
				v, _ := ctrl.StartRound(ctx, easy)
				return v
			},
			keep: true,
		},
		{
			name: "restart flag resets",
			next: func(ctrl *Controller) RoundView {
				req := easy
				req.RestartSession = true
				v, _ := ctrl.StartRound(ctx, req)
				return v
			},
		},
		{
			name: "difficulty change resets",
			next: func(ctrl *Controller) RoundView {
				req := easy
				req.Difficulty = model.DifficultyMedium
				v, _ := ctrl.StartRound(ctx, req)
				return v
			},
		},
		{
			name: "other mode in between resets",
			next: func(ctrl *Controller) RoundView {
				_, _ = ctrl.StartRound(ctx, RoundRequest{Mode: model.ModePractice, Difficulty: model.DifficultyEasy})
				v, _ := ctrl.StartRound(ctx, easy)
				return v
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := h.controller("p-" + tt.name)
			winOnce(t, ctrl, easy)
			view := tt.next(ctrl)
			want := 0
			if tt.keep {
				want = 1
			}
			if view.Score != want {
				t.Errorf("expected score %d, got %d", want, view.Score)
			}
		})
	}
}

func TestController_EmptyPoolKeepsPriorState(t *testing.T) {
	h := newHarness(t, testCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")

	before, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModePractice, Difficulty: model.DifficultyEasy})
	if err != nil {
		t.Fatal(err)
	}

	_, err = ctrl.StartRound(ctx, RoundRequest{
		Mode:       model.ModeInfinite,
		Difficulty: model.DifficultyEasy,
		Dataset:    model.DatasetHistoric,
		Countries:  model.CountryFilter{"argentina"},
	})
	if !errors.Is(err, eerrors.ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
	var poolErr eerrors.EmptyPoolError
	if !errors.As(err, &poolErr) || poolErr.Mode != "infinite" || poolErr.Dataset != "historic" {
		t.Errorf("unexpected pool error: %+v", poolErr)
	}

	after := ctrl.View()
	if after.Mode != model.ModePractice || after.State != model.GamePlaying || *after.Image != *before.Image {
		t.Errorf("prior state must be unchanged, got %+v", after)
	}
	if session := ctrl.Session(); session != nil {
		t.Errorf("failed start must not create an infinite session, got %+v", session)
	}
}

func TestController_InvalidInput(t *testing.T) {
	h := newHarness(t, testCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")

	var invalid eerrors.InvalidRequestError
	if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: "blitz", Difficulty: model.DifficultyEasy}); !errors.As(err, &invalid) || invalid.Field != "mode" {
		t.Errorf("expected invalid mode, got %v", err)
	}
	if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModeDaily, Difficulty: "extreme"}); !errors.As(err, &invalid) || invalid.Field != "difficulty" {
		t.Errorf("expected invalid difficulty, got %v", err)
	}

	outcome, err := ctrl.SubmitGuess(ctx, "River Plate")
	if err != nil || outcome.Accepted || outcome.View.State != model.GameNotStarted {
		t.Errorf("guess without a round must be ignored, got %+v err=%v", outcome, err)
	}

	if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModePractice, Difficulty: model.DifficultyEasy}); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.SubmitGuess(ctx, "   "); !errors.As(err, &invalid) || invalid.Field != "guess" {
		t.Errorf("expected invalid guess, got %v", err)
	}
	if view := ctrl.View(); view.Attempts != 0 {
		t.Errorf("blank guess must not count, got %d attempts", view.Attempts)
	}
}

func TestController_StoreFailureLeavesStateUnchanged(t *testing.T) {
	h := newHarness(t, riverOnlyCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")

	if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyEasy}); err != nil {
		t.Fatal(err)
	}
	h.mr.Close()

	timeoutCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := ctrl.SubmitGuess(timeoutCtx, "Boca Juniors"); err == nil {
		t.Fatal("expected store error")
	}
	if view := ctrl.View(); view.Attempts != 0 || view.State != model.GamePlaying {
		t.Errorf("state must be unchanged after store failure, got %+v", view)
	}
}

func TestController_ExitRound(t *testing.T) {
	h := newHarness(t, testCatalog)
	ctx := context.Background()
	ctrl := h.controller("p1")

	if _, err := ctrl.StartRound(ctx, RoundRequest{Mode: model.ModeDaily, Difficulty: model.DifficultyEasy}); err != nil {
		t.Fatal(err)
	}
	view := ctrl.ExitRound()
	if view.State != model.GameNotStarted || view.Image != nil || len(view.Guesses) != 0 {
		t.Errorf("unexpected view after exit: %+v", view)
	}

	// 저장된 일일 라운드는 그대로이므로 다시 시작하면 이어집니다.
	round, err := h.store.LoadDailyRound(ctx, "p1", model.DifficultyEasy)
	if err != nil || round == nil || round.Status != model.RoundInProgress {
		t.Errorf("exit must not touch the stored round, got %+v err=%v", round, err)
	}
}
