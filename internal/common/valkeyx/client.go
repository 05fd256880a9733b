package valkeyx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Config: Valkey 클라이언트 연결 설정
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	WriteTimeout time.Duration

	PoolSize int

	// DisableCache: 클라이언트 사이드 캐싱을 끕니다. MULTI/EXEC 를 쓰는 진행 상태 저장소는 항상 true 입니다.
	DisableCache bool

	// ForceSingleClient: 클러스터/센티널 탐지 없이 단일 노드로 접속합니다. (miniredis 테스트용)
	ForceSingleClient bool
}

func (cfg Config) clientOption() (valkey.ClientOption, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return valkey.ClientOption{}, errors.New("valkey addr is empty")
	}

	opts := valkey.ClientOption{
		InitAddress:       []string{addr},
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		DisableCache:      cfg.DisableCache,
		ForceSingleClient: cfg.ForceSingleClient,
	}
	if cfg.DialTimeout > 0 {
		opts.Dialer.Timeout = cfg.DialTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.ConnWriteTimeout = cfg.WriteTimeout
	}
	if cfg.PoolSize > 0 {
		opts.BlockingPoolSize = cfg.PoolSize
	}
	return opts, nil
}

// NewClient: 설정으로 Valkey 클라이언트를 생성합니다.
func NewClient(cfg Config) (valkey.Client, error) {
	opts, err := cfg.clientOption()
	if err != nil {
		return nil, err
	}
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client failed addr=%s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Ping: PING 으로 연결 상태를 확인합니다. /health 의존성 체크로도 사용됩니다.
func Ping(ctx context.Context, client valkey.Client) error {
	if client == nil {
		return errors.New("valkey client is nil")
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey ping failed: %w", err)
	}
	return nil
}

// IsNil: 키가 없어서 생긴 nil 응답인지 확인합니다. 래핑된 에러도 판별합니다.
func IsNil(err error) bool {
	var valkeyErr *valkey.ValkeyError
	if errors.As(err, &valkeyErr) {
		return valkeyErr.IsNil()
	}
	return false
}
