package httpapi

import (
	"errors"
	"net/http"

	cerrors "github.com/LeandroCantero/Escudle/internal/common/errors"
	"github.com/LeandroCantero/Escudle/internal/common/httputil"
	"github.com/LeandroCantero/Escudle/internal/common/messageprovider"
	eerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/messages"
)

// 에러 응답 코드
const (
	codeMissingPlayer      = "missing_player"
	codeInvalidRequest     = "invalid_request"
	codeEmptyPool          = "empty_pool"
	codePlayerBusy         = "player_busy"
	codeNoRound            = "no_round"
	codeRoundNotCompleted  = "round_not_completed"
	codeAnalyticsDisabled  = "analytics_disabled"
	codeStorageUnavailable = "storage_unavailable"
	codeInternal           = "internal"
)

// writeError: 도메인/인프라 에러를 HTTP 상태와 표준 에러 응답으로 변환합니다.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid eerrors.InvalidRequestError
	var notFound eerrors.EntryNotFoundError

	switch {
	case errors.As(err, &invalid):
		h.writeErrorCode(w, http.StatusBadRequest, codeInvalidRequest,
			h.message(messages.ErrorInvalidRequest, messageprovider.P("detail", invalid.Error())))
	case errors.Is(err, eerrors.ErrEmptyPool):
		h.writeErrorCode(w, http.StatusUnprocessableEntity, codeEmptyPool, h.message(messages.ErrorEmptyPool))
	case errors.Is(err, eerrors.ErrPlayerBusy):
		h.writeErrorCode(w, http.StatusConflict, codePlayerBusy, h.message(messages.ErrorPlayerBusy))
	case errors.Is(err, eerrors.ErrRoundNotCompleted):
		h.writeErrorCode(w, http.StatusNotFound, codeRoundNotCompleted, h.message(messages.ErrorRoundNotCompleted))
	case errors.Is(err, eerrors.ErrNoActiveRound):
		h.writeErrorCode(w, http.StatusNotFound, codeNoRound, h.message(messages.ErrorNoRound))
	case errors.Is(err, eerrors.ErrAnalyticsDisabled):
		h.writeErrorCode(w, http.StatusServiceUnavailable, codeAnalyticsDisabled, h.message(messages.ErrorAnalyticsDisabled))
	case cerrors.IsInfrastructure(err):
		h.logger.ErrorContext(r.Context(), "http_storage_failed", "backend", cerrors.BackendOf(err), "method", r.Method, "path", r.URL.Path, "err", err)
		h.writeErrorCode(w, http.StatusServiceUnavailable, codeStorageUnavailable, h.message(messages.ErrorStorageUnavailable))
	case errors.As(err, &notFound):
		h.logger.ErrorContext(r.Context(), "http_entry_missing", "entry_id", notFound.EntryID, "path", r.URL.Path)
		h.writeErrorCode(w, http.StatusInternalServerError, codeInternal, h.message(messages.ErrorInternal))
	default:
		h.logger.ErrorContext(r.Context(), "http_request_failed", "method", r.Method, "path", r.URL.Path, "err", err)
		h.writeErrorCode(w, http.StatusInternalServerError, codeInternal, h.message(messages.ErrorInternal))
	}
}

func (h *handler) writeErrorCode(w http.ResponseWriter, status int, code string, message string) {
	if err := httputil.WriteErrorJSON(w, status, code, message); err != nil {
		h.logger.Warn("http_error_write_failed", "code", code, "err", err)
	}
}
