package dbutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// RetryConfig: DB 연결 재시도 설정
type RetryConfig struct {
	MaxAttempts int           // 최대 시도 횟수 (기본: 5)
	BaseDelay   time.Duration // 초기 대기 시간 (기본: 2초)
	MaxDelay    time.Duration // 최대 대기 시간 (기본: 30초)
}

// DefaultRetryConfig: 기본 재시도 설정
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	return c
}

// backoff: attempt(0부터) 번째 실패 후 대기 시간. 2배씩 늘어나며 MaxDelay 에서 멈춥니다.
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := c.BaseDelay << uint(attempt)
	if delay <= 0 || delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// OpenFunc: DB 연결을 시도하는 함수 타입
type OpenFunc func(ctx context.Context) (*gorm.DB, error)

// OpenWithRetry: exponential backoff로 DB 연결을 재시도합니다.
// DB 컨테이너가 앱보다 늦게 뜨는 경우를 흡수합니다.
func OpenWithRetry(
	ctx context.Context,
	openFn OpenFunc,
	cfg RetryConfig,
	logger *slog.Logger,
) (*gorm.DB, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		db, err := openFn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Info("db_connect_success_after_retry", slog.Int("attempts", attempt+1))
			}
			return db, nil
		}
		lastErr = err

		if attempt >= cfg.MaxAttempts-1 {
			break
		}

		delay := cfg.backoff(attempt)
		logger.Warn("db_connect_retry",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("db connect cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("db connect failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
