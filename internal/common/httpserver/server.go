package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Listen: server.Addr 에 바인딩합니다. 포트 충돌 같은 에러를 Serve 전에 바로 돌려줍니다.
func Listen(ctx context.Context, server *http.Server) (net.Listener, error) {
	addr := server.Addr
	if addr == "" {
		addr = ":http"
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s failed: %w", addr, err)
	}
	return ln, nil
}

// Serve: 바인딩 후 ctx 가 끝날 때까지 요청을 처리하고, 끝나면 shutdownTimeout 안에서 graceful shutdown 합니다.
func Serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	ln, err := Listen(ctx, server)
	if err != nil {
		return err
	}
	return ServeListener(ctx, server, ln, shutdownTimeout)
}

// ServeListener: 이미 열린 리스너로 Serve 와 같은 수명 관리를 수행합니다.
func ServeListener(ctx context.Context, server *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return serveResult(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return serveResult(<-errCh)
}

func serveResult(err error) error {
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("http server stopped with error: %w", err)
}
