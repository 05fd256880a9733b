package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envParser: 공백이 제거된 원문을 값으로 변환합니다. 에러에는 키가 덧붙여집니다.
type envParser[T any] func(rawValue string) (T, error)

// lookupEnv: 공백을 제거한 환경 변수 값. 비어있으면 ok=false
func lookupEnv(key string) (string, bool) {
	rawValue, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	rawValue = strings.TrimSpace(rawValue)
	return rawValue, rawValue != ""
}

// lookupEnvFirst: 값이 있는 첫 번째 키와 그 값
func lookupEnvFirst(keys []string) (string, string, bool) {
	for _, key := range keys {
		if rawValue, ok := lookupEnv(key); ok {
			return key, rawValue, true
		}
	}
	return "", "", false
}

func readEnv[T any](keys []string, defaultValue T, kind string, parse envParser[T]) (T, error) {
	key, rawValue, ok := lookupEnvFirst(keys)
	if !ok {
		return defaultValue, nil
	}
	value, err := parse(rawValue)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("invalid %s env %s=%q: %w", kind, key, rawValue, err)
	}
	return value, nil
}

func parseBool(rawValue string) (bool, error) {
	switch strings.ToLower(rawValue) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	}
	return false, strconv.ErrSyntax
}

func parseInt64(rawValue string) (int64, error) {
	return strconv.ParseInt(rawValue, 10, 64)
}

func parseFloat64(rawValue string) (float64, error) {
	return strconv.ParseFloat(rawValue, 64)
}

func parseDuration(rawValue string) (time.Duration, error) {
	value, err := time.ParseDuration(rawValue)
	if err == nil && value < 0 {
		return 0, fmt.Errorf("negative duration")
	}
	return value, err
}

func parseSeconds(rawValue string) (time.Duration, error) {
	seconds, err := parseInt64(rawValue)
	if err == nil && seconds < 0 {
		return 0, fmt.Errorf("negative seconds")
	}
	return time.Duration(seconds) * time.Second, err
}

func parseDate(rawValue string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, rawValue, time.UTC)
}

func splitList(rawValue string) []string {
	return strings.FieldsFunc(rawValue, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// IntFromEnv: 정수 환경 변수
func IntFromEnv(key string, defaultValue int) (int, error) {
	return readEnv([]string{key}, defaultValue, "int", strconv.Atoi)
}

// Int64FromEnv: 64비트 정수 환경 변수 (랜덤 시드 등)
func Int64FromEnv(key string, defaultValue int64) (int64, error) {
	return readEnv([]string{key}, defaultValue, "int64", parseInt64)
}

// Float64FromEnv: 실수 환경 변수
func Float64FromEnv(key string, defaultValue float64) (float64, error) {
	return readEnv([]string{key}, defaultValue, "float64", parseFloat64)
}

// DurationSecondsFromEnv: 초 단위 정수를 Duration 으로 읽습니다. 음수는 에러입니다.
func DurationSecondsFromEnv(key string, defaultSeconds int64) (time.Duration, error) {
	return readEnv([]string{key}, time.Duration(defaultSeconds)*time.Second, "duration seconds", parseSeconds)
}

// DurationFromEnv: "1500ms", "2s", "30m" 같은 Go duration 문자열. 음수는 에러입니다.
func DurationFromEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	return readEnv([]string{key}, defaultValue, "duration", parseDuration)
}

// DateFromEnv: YYYY-MM-DD 날짜를 UTC 자정으로 읽습니다.
func DateFromEnv(key string, defaultValue time.Time) (time.Time, error) {
	return readEnv([]string{key}, defaultValue, "date", parseDate)
}

// BoolFromEnv: true/1/yes/y, false/0/no/n (대소문자 무시)
func BoolFromEnv(key string, defaultValue bool) (bool, error) {
	return readEnv([]string{key}, defaultValue, "bool", parseBool)
}

// StringFromEnv: 문자열 환경 변수
func StringFromEnv(key string, defaultValue string) string {
	return StringFromEnvFirstNonEmpty([]string{key}, defaultValue)
}

// StringFromEnvFirstNonEmpty: 값이 있는 첫 번째 키의 문자열
func StringFromEnvFirstNonEmpty(keys []string, defaultValue string) string {
	if _, rawValue, ok := lookupEnvFirst(keys); ok {
		return rawValue
	}
	return defaultValue
}

// IntFromEnvFirstNonEmpty: 값이 있는 첫 번째 키의 정수. REDIS_PORT/VALKEY_PORT 처럼 별칭이 있는 설정용입니다.
func IntFromEnvFirstNonEmpty(keys []string, defaultValue int) (int, error) {
	return readEnv(keys, defaultValue, "int", strconv.Atoi)
}
