package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	commonconfig "github.com/LeandroCantero/Escudle/internal/common/config"
)

// ConfigLoader: 설정을 로드하는 함수 타입
type ConfigLoader[C any] func() (*C, error)

// LogConfigGetter: 로드된 설정에서 로깅 설정을 꺼내는 함수 타입
type LogConfigGetter[C any] func(*C) commonconfig.LogConfig

// AppInitializer: 애플리케이션 초기화 함수 타입 (ServerApp과 정리 함수 반환)
type AppInitializer[C any] func(context.Context, *C, *slog.Logger) (*ServerApp, func(), error)

// RunServiceEntrypoint: 서비스의 공통 시작점.
// .env 로드, 설정 로드, 로거 설정, 앱 초기화 및 실행을 담당합니다.
func RunServiceEntrypoint[C any](
	ctx context.Context,
	logger *slog.Logger,
	logFileName string,
	loadConfig ConfigLoader[C],
	getLogConfig LogConfigGetter[C],
	initialize AppInitializer[C],
) (*slog.Logger, error) {
	dotenvFiles, err := commonconfig.LoadDotenvIfPresent()
	if err != nil {
		return logger, fmt.Errorf("load dotenv failed: %w", err)
	}
	if len(dotenvFiles) > 0 {
		logger.Info("dotenv_loaded", "files", dotenvFiles)
	}

	cfg, err := loadConfig()
	if err != nil {
		return logger, fmt.Errorf("load config failed: %w", err)
	}

	if getLogConfig != nil {
		configured, logErr := ConfigureLogger(getLogConfig(cfg), logFileName)
		if logErr != nil {
			return logger, fmt.Errorf("configure logger failed: %w", logErr)
		}
		logger = configured
	}

	serverApp, cleanup, err := initialize(ctx, cfg, logger)
	if err != nil {
		return logger, fmt.Errorf("initialize app failed: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	if err := serverApp.Run(ctx); err != nil {
		return logger, fmt.Errorf("run app failed: %w", err)
	}
	return logger, nil
}
