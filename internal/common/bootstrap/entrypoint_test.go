package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	commonconfig "github.com/LeandroCantero/Escudle/internal/common/config"
	"github.com/LeandroCantero/Escudle/internal/common/testhelper"
)

type entrypointConfig struct {
	Log commonconfig.LogConfig
}

func TestRunServiceEntrypoint(t *testing.T) {
	restoreDefaultLogger(t)
	t.Setenv(commonconfig.DotenvPathEnv, t.TempDir()+"/missing.env")

	loadOK := func() (*entrypointConfig, error) {
		return &entrypointConfig{Log: commonconfig.LogConfig{Level: "error"}}, nil
	}
	logConfig := func(cfg *entrypointConfig) commonconfig.LogConfig { return cfg.Log }

	t.Run("config error", func(t *testing.T) {
		boom := errors.New("bad env")
		_, err := RunServiceEntrypoint(context.Background(), testhelper.DiscardLogger(), "escudle.log",
			func() (*entrypointConfig, error) { return nil, boom }, logConfig, nil)
		if !errors.Is(err, boom) {
			t.Fatalf("expected config error, got %v", err)
		}
	})

	t.Run("initialize error", func(t *testing.T) {
		boom := errors.New("valkey down")
		_, err := RunServiceEntrypoint(context.Background(), testhelper.DiscardLogger(), "escudle.log",
			loadOK, logConfig,
			func(context.Context, *entrypointConfig, *slog.Logger) (*ServerApp, func(), error) {
				return nil, nil, boom
			})
		if !errors.Is(err, boom) {
			t.Fatalf("expected initialize error, got %v", err)
		}
	})

	t.Run("cleanup runs", func(t *testing.T) {
		cleaned := false
		logger, err := RunServiceEntrypoint(context.Background(), testhelper.DiscardLogger(), "escudle.log",
			loadOK, logConfig,
			func(_ context.Context, _ *entrypointConfig, logger *slog.Logger) (*ServerApp, func(), error) {
				if logger.Enabled(context.Background(), slog.LevelWarn) {
					t.Error("configured logger should be at error level")
				}
				return nil, func() { cleaned = true }, nil
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if logger == nil || !cleaned {
			t.Fatalf("expected configured logger and cleanup, cleaned=%v", cleaned)
		}
	})
}
