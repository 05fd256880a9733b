package processinglock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	cerrors "github.com/LeandroCantero/Escudle/internal/common/errors"
	"github.com/LeandroCantero/Escudle/internal/common/valkeyx"
)

// KeyFunc: 락 소유 단위(플레이어 ID 등)로 락 키를 생성합니다.
type KeyFunc func(ownerID string) string

// ErrAlreadyProcessing: 같은 소유자의 요청이 이미 처리 중일 때 반환되는 에러
var ErrAlreadyProcessing = errors.New("already processing")

// Service: Valkey SET NX 로 소유자 단위 동시 처리를 제어하는 락 서비스
type Service struct {
	client  valkey.Client
	logger  *slog.Logger
	keyFunc KeyFunc
	ttl     time.Duration
}

// New: 새로운 Service 인스턴스를 생성합니다.
func New(client valkey.Client, logger *slog.Logger, keyFunc KeyFunc, ttl time.Duration) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:  client,
		logger:  logger,
		keyFunc: keyFunc,
		ttl:     ttl,
	}
}

// Start: 처리 락을 획득합니다. (SET NX EX)
// 이미 락이 존재하면 ErrAlreadyProcessing 을 반환합니다.
func (s *Service) Start(ctx context.Context, ownerID string) error {
	cmd := s.client.B().Set().Key(s.keyFunc(ownerID)).Value("1").Nx().Ex(s.ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if valkeyx.IsNil(err) {
			return ErrAlreadyProcessing
		}
		return cerrors.Valkey("processing_start", err)
	}
	s.logger.Debug("processing_started", "owner_id", ownerID)
	return nil
}

// Finish: 처리 락을 해제합니다.
func (s *Service) Finish(ctx context.Context, ownerID string) error {
	if err := valkeyx.DeleteKeys(ctx, s.client, s.keyFunc(ownerID)); err != nil {
		return cerrors.Valkey("processing_finish", err)
	}
	s.logger.Debug("processing_finished", "owner_id", ownerID)
	return nil
}

// WithLock: 락을 획득한 상태에서 fn 을 실행하고 반드시 해제합니다.
// 락을 얻지 못하면 cerrors.LockError 를 반환합니다. (errors.Is(err, ErrAlreadyProcessing) 도 성립)
func (s *Service) WithLock(ctx context.Context, ownerID string, fn func() error) error {
	if err := s.Start(ctx, ownerID); err != nil {
		if errors.Is(err, ErrAlreadyProcessing) {
			return fmt.Errorf("%w: %w", ErrAlreadyProcessing, cerrors.LockError{OwnerID: ownerID, Description: "already processing"})
		}
		return err
	}
	defer func() {
		// 요청 컨텍스트가 취소되어도 락은 해제한다.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := s.Finish(releaseCtx, ownerID); err != nil {
			s.logger.Warn("processing_release_failed", "owner_id", ownerID, "err", err)
		}
	}()
	return fn()
}
