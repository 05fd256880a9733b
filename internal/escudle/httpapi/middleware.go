package httpapi

import (
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"

	"github.com/LeandroCantero/Escudle/internal/common/bootstrap"
	"github.com/LeandroCantero/Escudle/internal/common/httputil"
	"github.com/LeandroCantero/Escudle/internal/escudle/messages"
)

// playerHandlerFunc: X-Player-Id 헤더가 확인된 요청 핸들러
type playerHandlerFunc func(w http.ResponseWriter, r *http.Request, playerID string)

// handle: 라우트별 처리 시간을 기록하는 핸들러를 등록합니다.
func (h *handler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, h.observe(pattern, fn))
}

// handlePlayer: 플레이어 헤더가 필요한 라우트를 등록합니다. 헤더가 없으면 400 입니다.
func (h *handler) handlePlayer(mux *http.ServeMux, pattern string, fn playerHandlerFunc) {
	h.handle(mux, pattern, func(w http.ResponseWriter, r *http.Request) {
		playerID := strings.TrimSpace(r.Header.Get(httputil.HeaderPlayerID))
		if playerID == "" {
			h.writeErrorCode(w, http.StatusBadRequest, codeMissingPlayer, h.message(messages.ErrorMissingPlayer))
			return
		}
		fn(w, r.WithContext(bootstrap.WithPlayerID(r.Context(), playerID)), playerID)
	})
}

func (h *handler) observe(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		h.metrics.ObserveHTTP(route, m.Code, m.Duration)
	})
}
