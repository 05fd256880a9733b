// Package textutil 는 사용자 입력 이름 비교를 위한 문자열 정규화 헬퍼를 제공한다.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// imageSuffixPattern: 자동완성 목록에서 복사될 때 붙는 파일 형식 토큰 ("River Plate PNG", "Boca.svg")
var imageSuffixPattern = regexp.MustCompile(`(?i)[\s._-]*\b(?:png|svg|jpe?g)\s*$`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// StripImageSuffix: 끝에 붙은 이미지 형식 토큰을 제거하고 앞뒤 공백을 정리합니다.
// 토큰만 남는 입력은 그대로 둡니다.
func StripImageSuffix(text string) string {
	trimmed := strings.TrimSpace(text)
	stripped := strings.TrimSpace(imageSuffixPattern.ReplaceAllString(trimmed, ""))
	if stripped == "" {
		return trimmed
	}
	return stripped
}

// RemoveDiacritics: NFD 분해 후 결합 부호(Mn)를 제거합니다. "Atlético" -> "Atletico"
func RemoveDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Fold: 비교용 정규형을 반환합니다.
// 접미 토큰 제거, 악센트 제거, 소문자화, 연속 공백 축약을 순서대로 적용합니다.
func Fold(text string) string {
	folded := RemoveDiacritics(StripImageSuffix(text))
	folded = strings.ToLower(folded)
	folded = whitespacePattern.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// EqualFold: 두 이름이 Fold 기준으로 같은지 확인합니다.
func EqualFold(a string, b string) bool {
	return Fold(a) == Fold(b)
}
