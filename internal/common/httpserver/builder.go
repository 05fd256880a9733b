package httpserver

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServerOptions: http.Server 생성 옵션입니다.
type ServerOptions struct {
	UseH2C            bool   // TLS 없이 HTTP/2 허용
	TraceOperation    string // 비어있지 않으면 otelhttp 로 요청 span 을 생성
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

const defaultReadHeaderTimeout = 5 * time.Second

// NewServer: 옵션에 따라 trace/h2c 핸들러를 감싼 http.Server 를 생성합니다.
// 감싸는 순서는 h2c(바깥) -> otelhttp -> handler 입니다.
func NewServer(addr string, handler http.Handler, opts ServerOptions) *http.Server {
	if handler == nil {
		handler = http.NewServeMux()
	}
	if opts.TraceOperation != "" {
		handler = otelhttp.NewHandler(handler, opts.TraceOperation)
	}
	if opts.UseH2C {
		handler = h2c.NewHandler(handler, &http2.Server{IdleTimeout: opts.IdleTimeout})
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		IdleTimeout:       opts.IdleTimeout,
	}
	if opts.ReadHeaderTimeout > 0 {
		server.ReadHeaderTimeout = opts.ReadHeaderTimeout
	}
	if opts.MaxHeaderBytes > 0 {
		server.MaxHeaderBytes = opts.MaxHeaderBytes
	}
	return server
}
