// Command escudle 는 Escudle 게임 HTTP API 서버입니다.
package main

import (
	"context"
	"os"

	"github.com/LeandroCantero/Escudle/internal/common/bootstrap"
	"github.com/LeandroCantero/Escudle/internal/common/health"
	"github.com/LeandroCantero/Escudle/internal/escudle/app"
	"github.com/LeandroCantero/Escudle/internal/escudle/config"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func logConfig(cfg *config.Config) config.LogConfig { return cfg.Log }

func main() {
	health.Init(Version)

	logger, err := bootstrap.RunServiceEntrypoint(
		context.Background(),
		bootstrap.NewLogger(),
		config.ServiceName+".log",
		config.LoadFromEnv,
		logConfig,
		app.Initialize,
	)
	if err != nil {
		logger.Error("fatal", "err", err, "version", Version)
		os.Exit(1)
	}
}
