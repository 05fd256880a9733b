package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	commonconfig "github.com/LeandroCantero/Escudle/internal/common/config"
	"github.com/LeandroCantero/Escudle/internal/common/httpserver"
	"github.com/LeandroCantero/Escudle/internal/common/testhelper"
)

func TestServerApp_StopsTasksOnCancel(t *testing.T) {
	server := httpserver.NewServer("127.0.0.1:0", http.NewServeMux(), httpserver.ServerOptions{})
	ctx, cancel := context.WithCancel(context.Background())

	var stopped atomic.Bool
	task := BackgroundTask{
		Name: "stats_recorder",
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			stopped.Store(true)
			return nil
		},
	}

	done := make(chan error, 1)
	go func() {
		done <- NewServerApp("escudle", testhelper.DiscardLogger(), server, time.Second, task).Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("runner did not stop")
	}
	if !stopped.Load() {
		t.Error("background task was not stopped")
	}
}

func TestServerApp_TaskFailureStopsServer(t *testing.T) {
	server := httpserver.NewServer("127.0.0.1:0", nil, httpserver.ServerOptions{})
	boom := errors.New("boom")

	app := NewServerApp("escudle", testhelper.DiscardLogger(), server, time.Second,
		BackgroundTask{Name: "broken", Run: func(context.Context) error { return boom }},
	)
	err := app.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected task error, got %v", err)
	}
}

func TestServerApp_NilIsNoop(t *testing.T) {
	var app *ServerApp
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewAndPingValkeyClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, portRaw, _ := net.SplitHostPort(mr.Addr())
	port, _ := strconv.Atoi(portRaw)

	cfg := commonconfig.RedisConfig{Host: host, Port: port, ForceSingleClient: true}
	if got := ToValkeyConfig(cfg); !got.DisableCache || got.Addr != mr.Addr() {
		t.Fatalf("unexpected valkey config: %+v", got)
	}

	client, closeFn, err := NewAndPingValkeyClient(context.Background(), cfg, testhelper.DiscardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()
	if err := client.Do(context.Background(), client.B().Set().Key("k").Value("v").Build()).Error(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("unexpected value: %q", got)
	}
}
