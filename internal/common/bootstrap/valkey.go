package bootstrap

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"github.com/valkey-io/valkey-go"

	commonconfig "github.com/LeandroCantero/Escudle/internal/common/config"
	"github.com/LeandroCantero/Escudle/internal/common/valkeyx"
)

// ToValkeyConfig: 진행 상태 저장소용 설정. MULTI/EXEC 를 쓰므로 클라이언트 캐시는 항상 끕니다.
func ToValkeyConfig(cfg commonconfig.RedisConfig) valkeyx.Config {
	return valkeyx.Config{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:          cfg.Password,
		DB:                cfg.DB,
		DialTimeout:       cfg.DialTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		PoolSize:          cfg.PoolSize,
		DisableCache:      true,
		ForceSingleClient: cfg.ForceSingleClient,
	}
}

// NewAndPingValkeyClient: 클라이언트를 만들고 PING 이 성공해야 반환합니다. 실패하면 클라이언트를 닫습니다.
func NewAndPingValkeyClient(
	ctx context.Context,
	cfg commonconfig.RedisConfig,
	logger *slog.Logger,
) (valkey.Client, func(), error) {
	vcfg := ToValkeyConfig(cfg)
	client, err := valkeyx.NewClient(vcfg)
	if err != nil {
		return nil, nil, err
	}
	if err := valkeyx.Ping(ctx, client); err != nil {
		client.Close()
		return nil, nil, err
	}

	logger.Info("valkey_connected", "addr", vcfg.Addr, "db", vcfg.DB, "pool_size", vcfg.PoolSize)
	return client, func() {
		client.Close()
		logger.Debug("valkey_client_closed", "addr", vcfg.Addr)
	}, nil
}
