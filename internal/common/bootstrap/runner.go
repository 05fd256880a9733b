package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LeandroCantero/Escudle/internal/common/httpserver"
)

// BackgroundTask: HTTP 서버와 함께 실행되고 같은 컨텍스트로 종료되는 작업입니다.
type BackgroundTask struct {
	Name        string
	ErrorLogKey string
	Run         func(ctx context.Context) error
}

// ServerApp: 초기화가 끝난 HTTP 서버와 같은 수명으로 도는 백그라운드 작업 묶음입니다.
type ServerApp struct {
	Service         string
	Logger          *slog.Logger
	Server          *http.Server
	ShutdownTimeout time.Duration
	BackgroundTasks []BackgroundTask
}

// NewServerApp: ServerApp 을 생성합니다.
func NewServerApp(
	service string,
	logger *slog.Logger,
	server *http.Server,
	shutdownTimeout time.Duration,
	backgroundTasks ...BackgroundTask,
) *ServerApp {
	return &ServerApp{
		Service:         service,
		Logger:          logger,
		Server:          server,
		ShutdownTimeout: shutdownTimeout,
		BackgroundTasks: backgroundTasks,
	}
}

// Run: 먼저 포트를 바인딩한 뒤, 시그널을 감시하면서 HTTP 서버와 백그라운드 작업을 함께 실행합니다.
// 바인딩에 실패하면 백그라운드 작업은 시작하지 않습니다. 어느 하나라도 실패하면 나머지도 취소됩니다.
func (a *ServerApp) Run(ctx context.Context) error {
	if a == nil {
		return nil
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := httpserver.Listen(signalCtx, a.Server)
	if err != nil {
		return fmt.Errorf("bind http server failed: %w", err)
	}

	g, gctx := errgroup.WithContext(signalCtx)
	for _, task := range a.BackgroundTasks {
		if task.Run == nil {
			continue
		}
		g.Go(func() error { return task.run(gctx, logger) })
	}

	logger.Info("server_start",
		"service", a.Service,
		"addr", ln.Addr().String(),
		"background_tasks", len(a.BackgroundTasks),
	)
	g.Go(func() error {
		if err := httpserver.ServeListener(gctx, a.Server, ln, a.ShutdownTimeout); err != nil {
			return fmt.Errorf("http server serve failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run http server failed: %w", err)
	}
	logger.Info("server_stopped", "service", a.Service)
	return nil
}

func (t BackgroundTask) run(ctx context.Context, logger *slog.Logger) error {
	if err := t.Run(ctx); err != nil {
		logKey := t.ErrorLogKey
		if logKey == "" {
			logKey = "background_task_failed"
		}
		logger.Error(logKey, "task", t.Name, "err", err)
		return fmt.Errorf("%s failed: %w", t.Name, err)
	}
	logger.Debug("background_task_stopped", "task", t.Name)
	return nil
}
