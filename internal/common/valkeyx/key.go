// Package valkeyx 는 Valkey 클라이언트 공통 유틸리티를 제공한다.
// 키 생성, 연결, nil 체크, 문자열/트랜잭션 헬퍼를 포함한다.
package valkeyx

import "strings"

// BuildKey 는 prefix와 각 파트를 ':'로 결합하여 키를 생성한다.
// 형식: {prefix}:{part1}:{part2}...
func BuildKey(prefix string, parts ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, part := range parts {
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(part))
	}
	return b.String()
}
