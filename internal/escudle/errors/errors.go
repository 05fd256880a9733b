// Package errors: Escudle 게임에 특화된 에러 타입들을 정의한다.
// 저장소 장애(StorageError)와 락 충돌(LockError)은 common/errors 패키지를 직접 사용한다.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPool: 필터를 적용한 후보 풀이 비어 라운드를 시작할 수 없을 때의 센티넬 에러
var ErrEmptyPool = errors.New("empty candidate pool")

// ErrNoActiveRound: 오늘 날짜의 진행 중인 일일 라운드가 없을 때 반환됩니다.
var ErrNoActiveRound = errors.New("no active daily round")

// ErrPlayerBusy: 같은 플레이어의 다른 요청이 처리 중일 때 반환됩니다.
var ErrPlayerBusy = errors.New("player request in progress")

// ErrRoundNotCompleted: 완료되지 않은 라운드로 공유 문구를 만들려 할 때 반환됩니다.
var ErrRoundNotCompleted = errors.New("round not completed")

// ErrAnalyticsDisabled: 라운드 기록 DB가 설정되지 않았을 때 반환됩니다.
var ErrAnalyticsDisabled = errors.New("analytics disabled")

// EmptyPoolError: 후보 풀이 비었을 때의 상세 정보 (errors.Is(err, ErrEmptyPool) 성립)
type EmptyPoolError struct {
	Mode      string
	Dataset   string
	Countries []string
}

func (e EmptyPoolError) Error() string {
	msg := fmt.Sprintf("empty candidate pool mode=%s dataset=%s", e.Mode, e.Dataset)
	if len(e.Countries) > 0 {
		msg += " countries=" + strings.Join(e.Countries, ",")
	}
	return msg
}

// Is: ErrEmptyPool 과 비교할 수 있게 합니다.
func (e EmptyPoolError) Is(target error) bool {
	return target == ErrEmptyPool
}

// InvalidRequestError: 라운드 요청 값(모드, 난이도 등)이 올바르지 않을 때 발생하는 에러
type InvalidRequestError struct {
	Field string
	Value string
}

func (e InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// EntryNotFoundError: 카탈로그에서 항목을 찾을 수 없을 때 발생하는 에러
type EntryNotFoundError struct {
	EntryID string
}

func (e EntryNotFoundError) Error() string {
	return fmt.Sprintf("entry not found id=%s", e.EntryID)
}

// CatalogError: 카탈로그 데이터 검증 실패
type CatalogError struct {
	Index   int
	EntryID string
	Reason  string
}

func (e CatalogError) Error() string {
	if e.EntryID == "" {
		return fmt.Sprintf("invalid catalog entry index=%d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid catalog entry index=%d id=%s: %s", e.Index, e.EntryID, e.Reason)
}
