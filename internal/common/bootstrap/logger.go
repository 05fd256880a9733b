package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	commonconfig "github.com/LeandroCantero/Escudle/internal/common/config"
)

// ParseLevel: LOG_LEVEL 문자열(debug/info/warn/error)을 slog.Level 로 변환합니다. 알 수 없는 값은 info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newHandler: tint 출력을 trace/플레이어 상관관계 핸들러로 감쌉니다.
func newHandler(w io.Writer, level slog.Level, noColor bool) slog.Handler {
	return NewTraceContextHandler(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    noColor,
	}))
}

// NewLogger: 설정 로드 전에 쓰는 stdout 로거. 레벨은 LOG_LEVEL 환경 변수를 따릅니다.
func NewLogger() *slog.Logger {
	return slog.New(newHandler(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")), false))
}

// ConfigureLogger: 설정을 반영한 로거를 만들고 slog 기본 로거로 등록합니다.
// Dir 이 있으면 stdout 과 lumberjack 로테이션 파일에 함께 씁니다. (파일 쪽은 색상 없음)
func ConfigureLogger(cfg commonconfig.LogConfig, fileName string) (*slog.Logger, error) {
	level := ParseLevel(cfg.Level)

	logDir := strings.TrimSpace(cfg.Dir)
	if logDir == "" {
		logger := slog.New(newHandler(os.Stdout, level, false))
		slog.SetDefault(logger)
		return logger, nil
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf("invalid log config: size=%d backups=%d age_days=%d", cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	logger := slog.New(newHandler(io.MultiWriter(os.Stdout, logFile), level, true))
	slog.SetDefault(logger)
	logger.Info("file_logging_enabled", "path", logFile.Filename, "level", level.String())
	return logger, nil
}
