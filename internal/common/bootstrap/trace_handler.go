package bootstrap

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type playerIDKey struct{}

// WithPlayerID: 로그 상관관계용 플레이어 ID 를 컨텍스트에 담습니다.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	if playerID == "" {
		return ctx
	}
	return context.WithValue(ctx, playerIDKey{}, playerID)
}

// PlayerIDFrom: 컨텍스트에 담긴 플레이어 ID. 없으면 빈 문자열입니다.
func PlayerIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(playerIDKey{}).(string)
	return id
}

// TraceContextHandler: 현재 span 과 플레이어 ID 를 로그 레코드에 붙이는 slog.Handler 래퍼
type TraceContextHandler struct {
	inner slog.Handler
}

// NewTraceContextHandler: inner 를 감싼 핸들러를 생성합니다.
func NewTraceContextHandler(inner slog.Handler) *TraceContextHandler {
	return &TraceContextHandler{inner: inner}
}

// Enabled: inner 의 레벨 판단을 따릅니다.
func (h *TraceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle: trace_id/span_id 는 유효한 span 이 있을 때만, player_id 는 컨텍스트에 있을 때만 추가합니다.
func (h *TraceContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
		if !spanCtx.IsSampled() {
			record.AddAttrs(slog.Bool("trace_sampled", false))
		}
	}
	if playerID := PlayerIDFrom(ctx); playerID != "" {
		record.AddAttrs(slog.String("player_id", playerID))
	}
	//nolint:wrapcheck // slog.Handler interface implementation
	return h.inner.Handle(ctx, record)
}

func (h *TraceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *TraceContextHandler) WithGroup(name string) slog.Handler {
	return &TraceContextHandler{inner: h.inner.WithGroup(name)}
}
