package gamesession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	cerrors "github.com/LeandroCantero/Escudle/internal/common/errors"
	"github.com/LeandroCantero/Escudle/internal/common/valkeyx"
)

// KeyFunc: (플레이어, 난이도) 쌍을 Valkey 키로 바꿉니다.
type KeyFunc func(ownerID string, partition string) string

// ErrCorruptPayload: 저장된 값이 JSON 으로 해석되지 않을 때 반환됩니다.
var ErrCorruptPayload = errors.New("corrupt session payload")

// Store: 플레이어별 레코드 하나를 JSON 으로 보관하는 Valkey 저장소.
// 라운드, 일일 통계, 무한 통계가 키 함수와 TTL 만 바꿔 같은 구현을 씁니다.
type Store[T any] struct {
	client  valkey.Client
	logger  *slog.Logger
	keyFunc KeyFunc
	ttl     time.Duration
}

// Config: 저장소 생성에 필요한 설정 정보입니다. TTL이 0이면 만료 없이 보관합니다.
type Config struct {
	KeyFunc KeyFunc
	TTL     time.Duration
}

func NewStore[T any](client valkey.Client, logger *slog.Logger, cfg Config) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		client:  client,
		logger:  logger,
		keyFunc: cfg.KeyFunc,
		ttl:     cfg.TTL,
	}
}

func (s *Store[T]) Key(ownerID string, partition string) string {
	return s.keyFunc(ownerID, partition)
}

// Save: 데이터를 JSON으로 직렬화하여 저장합니다. 기존 값은 덮어씁니다.
func (s *Store[T]) Save(ctx context.Context, ownerID string, partition string, data T) error {
	cmd, err := s.SaveCommand(ownerID, partition, data)
	if err != nil {
		return err
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return cerrors.Valkey("session_save", err)
	}

	s.logger.Debug("session_saved", "owner_id", ownerID, "partition", partition)
	return nil
}

// SaveCommand: Save 와 동일한 SET 명령을 실행하지 않고 반환합니다. (트랜잭션 묶음용)
func (s *Store[T]) SaveCommand(ownerID string, partition string, data T) (valkey.Completed, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return valkey.Completed{}, fmt.Errorf("marshal session failed: %w", err)
	}
	return valkeyx.SetCommand(s.client, s.Key(ownerID, partition), string(payload), s.ttl), nil
}

// Load: 저장된 JSON 데이터를 조회하여 역직렬화합니다.
// 데이터가 없거나 만료된 경우 nil을 반환합니다.
// 역직렬화 실패 시 ErrCorruptPayload 를 감싼 에러를 반환합니다.
func (s *Store[T]) Load(ctx context.Context, ownerID string, partition string) (*T, error) {
	raw, ok, err := valkeyx.GetBytes(ctx, s.client, s.Key(ownerID, partition))
	if err != nil {
		return nil, cerrors.Valkey("session_load", err)
	}
	if !ok {
		return nil, nil
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	}
	return &data, nil
}

// Delete: 데이터를 삭제합니다.
func (s *Store[T]) Delete(ctx context.Context, ownerID string, partition string) error {
	if err := valkeyx.DeleteKeys(ctx, s.client, s.Key(ownerID, partition)); err != nil {
		return cerrors.Valkey("session_delete", err)
	}
	s.logger.Debug("session_deleted", "owner_id", ownerID, "partition", partition)
	return nil
}
