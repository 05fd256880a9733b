package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LeandroCantero/Escudle/internal/common/cache"
	"github.com/LeandroCantero/Escudle/internal/common/processinglock"
	eerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
)

// Registry: 플레이어별 Controller 를 유휴 TTL LRU 로 보관합니다.
// lock 이 설정되면 같은 플레이어의 요청은 Valkey 처리 락으로 직렬화됩니다.
type Registry struct {
	deps        Dependencies
	controllers *cache.TTLLRUCache[*Controller]
	lock        *processinglock.Service
}

// NewRegistry: 새로운 Registry 인스턴스를 생성합니다.
func NewRegistry(deps Dependencies, size int, idleTTL time.Duration, lock *processinglock.Service) *Registry {
	deps = deps.withDefaults()
	logger := deps.Logger
	return &Registry{
		deps: deps,
		controllers: cache.NewTTLLRUCache(size, idleTTL, cache.WithEvictHook(func(playerID string, _ *Controller) {
			logger.Debug("controller_evicted", "player_id", playerID)
		})),
		lock: lock,
	}
}

// Controller: 플레이어의 컨트롤러를 반환합니다. 없으면 새로 만듭니다.
func (r *Registry) Controller(playerID string) *Controller {
	return r.controllers.GetOrCreate(playerID, func() *Controller {
		return NewController(playerID, r.deps)
	})
}

// With: 플레이어 처리 락을 잡은 상태로 fn 을 실행합니다.
// 락이 이미 잡혀 있으면 ErrPlayerBusy 를 반환합니다.
func (r *Registry) With(ctx context.Context, playerID string, fn func(*Controller) error) error {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return eerrors.InvalidRequestError{Field: "player", Value: playerID}
	}
	ctrl := r.Controller(playerID)
	if r.lock == nil {
		return fn(ctrl)
	}

	err := r.lock.WithLock(ctx, playerID, func() error {
		return fn(ctrl)
	})
	if errors.Is(err, processinglock.ErrAlreadyProcessing) {
		r.deps.Logger.Warn("player_busy", "player_id", playerID)
		return fmt.Errorf("player=%s: %w", playerID, eerrors.ErrPlayerBusy)
	}
	return err
}

// Len: 메모리에 유지 중인 컨트롤러 수
func (r *Registry) Len() int {
	return r.controllers.Len()
}
