package valkeyx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// SetCommand: SET 명령을 생성합니다. ttl이 0 이하이면 만료 없이 저장합니다.
func SetCommand(client valkey.Client, key string, value string, ttl time.Duration) valkey.Completed {
	if ttl > 0 {
		return client.B().Set().Key(key).Value(value).Ex(ttl).Build()
	}
	return client.B().Set().Key(key).Value(value).Build()
}

// SetStringEX: 문자열 값을 저장합니다.
func SetStringEX(ctx context.Context, client valkey.Client, key string, value string, ttl time.Duration) error {
	if err := client.Do(ctx, SetCommand(client, key, value, ttl)).Error(); err != nil {
		return fmt.Errorf("set key=%s failed: %w", key, err)
	}
	return nil
}

// GetBytes: 키의 값을 조회합니다. 키가 없으면 ok=false 를 반환합니다.
func GetBytes(ctx context.Context, client valkey.Client, key string) ([]byte, bool, error) {
	raw, err := client.Do(ctx, client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get key=%s failed: %w", key, err)
	}
	return raw, true, nil
}

// DeleteKeys: 여러 키를 한 번에 삭제합니다.
func DeleteKeys(ctx context.Context, client valkey.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := client.Do(ctx, client.B().Del().Key(keys...).Build()).Error(); err != nil {
		return fmt.Errorf("delete keys failed: %w", err)
	}
	return nil
}

// ErrTxAborted: EXEC 가 nil 을 반환하여 트랜잭션이 적용되지 않은 경우입니다.
var ErrTxAborted = errors.New("valkey transaction aborted")

// ExecTx: 명령들을 MULTI/EXEC 로 묶어 하나의 전용 커넥션에서 실행합니다.
func ExecTx(ctx context.Context, client valkey.Client, cmds ...valkey.Completed) error {
	if len(cmds) == 0 {
		return nil
	}
	return client.Dedicated(func(dc valkey.DedicatedClient) error {
		batch := make(valkey.Commands, 0, len(cmds)+2)
		batch = append(batch, dc.B().Multi().Build())
		batch = append(batch, cmds...)
		batch = append(batch, dc.B().Exec().Build())

		results := dc.DoMulti(ctx, batch...)
		for i, resp := range results[:len(results)-1] {
			if err := resp.Error(); err != nil {
				return fmt.Errorf("queue tx command %d failed: %w", i, err)
			}
		}
		if err := results[len(results)-1].Error(); err != nil {
			if IsNil(err) {
				return ErrTxAborted
			}
			return fmt.Errorf("exec tx failed: %w", err)
		}
		return nil
	})
}
