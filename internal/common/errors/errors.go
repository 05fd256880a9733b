// Package errors: 저장소 장애와 락 충돌처럼 도메인과 무관한 공용 에러를 정의한다.
// 게임 도메인 에러는 internal/escudle/errors 에 있다.
package errors

import (
	"errors"
	"fmt"
)

// Backend: 장애가 발생한 저장소 종류
type Backend string

const (
	BackendValkey   Backend = "valkey"
	BackendPostgres Backend = "postgres"
)

// StorageError: 저장소 호출 실패. HTTP 계층에서 503 으로 변환된다.
type StorageError struct {
	Backend   Backend
	Operation string
	Err       error
}

func (e StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error operation=%s", e.Backend, e.Operation)
	}
	return fmt.Sprintf("%s error operation=%s: %v", e.Backend, e.Operation, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

// Valkey: Valkey 작업 실패를 감쌉니다.
func Valkey(operation string, err error) error {
	return StorageError{Backend: BackendValkey, Operation: operation, Err: err}
}

// Database: PostgreSQL 작업 실패를 감쌉니다.
func Database(operation string, err error) error {
	return StorageError{Backend: BackendPostgres, Operation: operation, Err: err}
}

// LockError: 같은 소유자의 처리 락이 이미 잡혀 있음
type LockError struct {
	OwnerID     string
	Description string
}

func (e LockError) Error() string {
	msg := e.Description
	if msg == "" {
		msg = "failed to acquire lock"
	}
	if e.OwnerID != "" {
		msg = fmt.Sprintf("%s owner=%s", msg, e.OwnerID)
	}
	return msg
}

// IsInfrastructure: 에러 체인에 StorageError 가 있는지 확인한다.
func IsInfrastructure(err error) bool {
	var storageErr StorageError
	return errors.As(err, &storageErr)
}

// BackendOf: 에러 체인의 StorageError 저장소 종류. 없으면 빈 문자열.
func BackendOf(err error) Backend {
	var storageErr StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Backend
	}
	return ""
}
