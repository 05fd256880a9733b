package testhelper

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"

	"github.com/LeandroCantero/Escudle/internal/common/valkeyx"
)

// NewMiniredisClient: miniredis 인스턴스와 여기에 연결된 Valkey 클라이언트를 생성합니다.
// 두 리소스 모두 t.Cleanup 으로 정리됩니다.
func NewMiniredisClient(t *testing.T) (valkey.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := valkeyx.NewClient(valkeyx.Config{
		Addr:              mr.Addr(),
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("valkey client create failed: %v", err)
	}
	t.Cleanup(client.Close)

	return client, mr
}

// DiscardLogger: 출력을 버리는 테스트용 로거를 반환합니다.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
