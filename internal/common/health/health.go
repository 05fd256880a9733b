// Package health: 서비스 상태 정보
package health

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"
)

var (
	startTime = time.Now()
	version   = "dev"
	initOnce  sync.Once
)

// Init: 서비스 시작 시 호출 (버전 정보 설정)
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Version: Init 으로 설정된 빌드 버전
func Version() string {
	return version
}

// Check: 의존성 하나의 상태를 확인하는 함수. nil 이면 정상.
type Check func(ctx context.Context) error

// Response: /health 엔드포인트 표준 응답
type Response struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Goroutines   int               `json:"goroutines"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Get: 현재 상태 반환. 의존성 중 하나라도 실패하면 status 는 degraded 입니다.
func Get(ctx context.Context, checks map[string]Check) Response {
	resp := Response{
		Status:     "ok",
		Version:    version,
		Uptime:     formatDuration(time.Since(startTime)),
		Goroutines: runtime.NumGoroutine(),
	}
	if len(checks) == 0 {
		return resp
	}

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp.Dependencies = make(map[string]string, len(checks))
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			resp.Dependencies[name] = "down: " + err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[name] = "ok"
	}
	return resp
}

// formatDuration: 초 단위로 반올림한 Duration 문자열
func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
