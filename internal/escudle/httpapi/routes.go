// Package httpapi: Escudle 게임 REST API 라우트를 등록합니다.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LeandroCantero/Escudle/internal/common/health"
	"github.com/LeandroCantero/Escudle/internal/common/httputil"
	"github.com/LeandroCantero/Escudle/internal/common/messageprovider"
	eerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
	"github.com/LeandroCantero/Escudle/internal/escudle/service"
)

const (
	maxBodyBytes      = 1 << 16
	defaultRatesLimit = 20
	maxRatesLimit     = 200
)

// Deps: 라우트 등록에 필요한 의존성
type Deps struct {
	Service      *service.GameService
	Messages     *messageprovider.Provider
	Metrics      service.Metrics
	Gatherer     prometheus.Gatherer // nil 이면 /metrics 미등록
	HealthChecks map[string]health.Check
	Logger       *slog.Logger
}

type handler struct {
	svc     *service.GameService
	msgs    *messageprovider.Provider
	metrics service.Metrics
	logger  *slog.Logger
}

// Register HTTP API 라우트 등록.
func Register(mux *http.ServeMux, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = service.NoopMetrics()
	}
	h := &handler{
		svc:     deps.Service,
		msgs:    deps.Messages,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}

	// GET /health - 헬스체크
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		resp := health.Get(r.Context(), deps.HealthChecks)
		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		h.respond(w, status, resp)
	})

	// GET /metrics - Prometheus 노출
	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	h.handle(mux, "GET /api/escudle/catalog/countries", h.handleCountries)
	h.handle(mux, "GET /api/escudle/catalog/search", h.handleSearch)
	h.handle(mux, "GET /api/escudle/analytics/entries", h.handleEntrySolveRates)

	h.handlePlayer(mux, "POST /api/escudle/rounds", h.handleStartRound)
	h.handlePlayer(mux, "GET /api/escudle/rounds/current", h.handleCurrentRound)
	h.handlePlayer(mux, "DELETE /api/escudle/rounds/current", h.handleExitRound)
	h.handlePlayer(mux, "POST /api/escudle/rounds/current/guesses", h.handleGuess)
	h.handlePlayer(mux, "GET /api/escudle/stats/daily/{difficulty}", h.handleDailyStats)
	h.handlePlayer(mux, "GET /api/escudle/stats/infinite/{difficulty}", h.handleInfiniteStats)
	h.handlePlayer(mux, "GET /api/escudle/share/daily/{difficulty}", h.handleShareDaily)

	deps.Logger.Info("escudle_http_api_registered")
}

type (
	// StartRoundRequest: 라운드 시작 요청 DTO
	StartRoundRequest struct {
		Mode           string   `json:"mode"`
		Difficulty     string   `json:"difficulty"`
		Dataset        string   `json:"dataset,omitempty"`
		Countries      []string `json:"countries,omitempty"`
		RestartSession bool     `json:"restartSession,omitempty"`
	}

	// GuessRequest: 추측 제출 요청 DTO
	GuessRequest struct {
		Guess string `json:"guess"`
	}

	// ShareResponse: 공유 문구 응답 DTO
	ShareResponse struct {
		Text string `json:"text"`
	}

	// SearchResponse: 자동완성 응답 DTO
	SearchResponse struct {
		Hits []service.SearchHit `json:"hits"`
	}
)

func (h *handler) handleCountries(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, h.svc.Countries())
}

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	query := r.URL.Query()
	hits, err := h.svc.Search(query.Get("q"), limit, service.SearchFilter{
		Dataset:   model.DatasetFilter(query.Get("dataset")),
		Countries: queryList(r, "countries"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, SearchResponse{Hits: hits})
}

func (h *handler) handleEntrySolveRates(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, "limit", defaultRatesLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rates, err := h.svc.EntrySolveRates(r.Context(), r.URL.Query().Get("mode"), min(limit, maxRatesLimit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, rates)
}

func (h *handler) handleStartRound(w http.ResponseWriter, r *http.Request, playerID string) {
	var req StartRoundRequest
	if err := httputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		h.writeError(w, r, eerrors.InvalidRequestError{Field: "body", Value: err.Error()})
		return
	}

	view, err := h.svc.StartRound(r.Context(), playerID, service.RoundRequest{
		Mode:           model.Mode(req.Mode),
		Difficulty:     model.Difficulty(req.Difficulty),
		Dataset:        model.DatasetFilter(req.Dataset),
		Countries:      model.CountryFilter(req.Countries),
		RestartSession: req.RestartSession,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, view)
}

func (h *handler) handleCurrentRound(w http.ResponseWriter, _ *http.Request, playerID string) {
	h.respond(w, http.StatusOK, h.svc.CurrentRound(playerID))
}

func (h *handler) handleExitRound(w http.ResponseWriter, r *http.Request, playerID string) {
	view, err := h.svc.ExitRound(r.Context(), playerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, view)
}

func (h *handler) handleGuess(w http.ResponseWriter, r *http.Request, playerID string) {
	var req GuessRequest
	if err := httputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		h.writeError(w, r, eerrors.InvalidRequestError{Field: "body", Value: err.Error()})
		return
	}

	outcome, err := h.svc.SubmitGuess(r.Context(), playerID, req.Guess)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, outcome)
}

func (h *handler) handleDailyStats(w http.ResponseWriter, r *http.Request, playerID string) {
	stats, err := h.svc.DailyStats(r.Context(), playerID, r.PathValue("difficulty"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, stats)
}

func (h *handler) handleInfiniteStats(w http.ResponseWriter, r *http.Request, playerID string) {
	stats, err := h.svc.InfiniteStats(r.Context(), playerID, r.PathValue("difficulty"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, stats)
}

func (h *handler) handleShareDaily(w http.ResponseWriter, r *http.Request, playerID string) {
	text, err := h.svc.ShareDaily(r.Context(), playerID, r.PathValue("difficulty"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, ShareResponse{Text: text})
}

// queryLimit: 쿼리의 양수 limit 값. 비어있으면 fallback 을 반환합니다.
func queryLimit(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, eerrors.InvalidRequestError{Field: key, Value: raw}
	}
	return n, nil
}

// queryList: 반복 파라미터와 쉼표 구분 값을 모두 받습니다. 빈 항목은 버립니다.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *handler) respond(w http.ResponseWriter, status int, v any) {
	if err := httputil.WriteJSON(w, status, v); err != nil {
		h.logger.Warn("http_response_write_failed", "err", err)
	}
}

// message: 메시지 키를 문구로 변환합니다.
func (h *handler) message(key string, params ...messageprovider.Param) string {
	return h.msgs.Get(key, params...)
}
