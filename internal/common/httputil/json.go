// Package httputil: JSON 요청/응답과 표준 에러 바디 헬퍼
package httputil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	ContentTypeJSON   = "application/json"
	HeaderContentType = "Content-Type"
	// HeaderPlayerID: 익명 플레이어 식별자. 클라이언트가 로컬에 생성해 매 요청에 보냅니다.
	HeaderPlayerID = "X-Player-Id"
)

var (
	ErrEmptyBody    = errors.New("empty request body")
	ErrBodyTooLarge = errors.New("request body too large")
)

// ReadJSON: 요청 바디를 out 으로 디코딩합니다.
// 공백뿐인 바디는 ErrEmptyBody, maxBytes 초과는 ErrBodyTooLarge 입니다.
func ReadJSON(r *http.Request, out any, maxBytes int64) error {
	raw, err := readBody(r, maxBytes)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode json failed: %w", err)
	}
	return nil
}

func readBody(r *http.Request, maxBytes int64) ([]byte, error) {
	if r.Body == nil {
		return nil, ErrEmptyBody
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	switch {
	case err != nil:
		return nil, fmt.Errorf("read body failed: %w", err)
	case int64(len(raw)) > maxBytes:
		return nil, ErrBodyTooLarge
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrEmptyBody
	}
	return raw, nil
}

// WriteJSON: v 를 직렬화한 뒤 status 와 함께 씁니다. HTML 문자는 이스케이프하지 않습니다.
// 직렬화가 실패하면 아무것도 쓰지 않고 에러를 반환합니다.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.MarshalWithOption(v, json.DisableHTMLEscape())
	if err != nil {
		return fmt.Errorf("encode json failed: %w", err)
	}

	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write response failed: %w", err)
	}
	return nil
}

// ErrorResponse: 에러 응답 바디. Error 는 기계용 코드, Message 는 사용자 문구입니다.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteErrorJSON: 코드와 메시지를 공백 정리 후 ErrorResponse 로 씁니다.
func WriteErrorJSON(w http.ResponseWriter, status int, code string, message string) error {
	return WriteJSON(w, status, ErrorResponse{
		Error:   strings.TrimSpace(code),
		Message: strings.TrimSpace(message),
	})
}
