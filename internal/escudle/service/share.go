package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/LeandroCantero/Escudle/internal/common/messageprovider"
	"github.com/LeandroCantero/Escudle/internal/common/textutil"
	"github.com/LeandroCantero/Escudle/internal/escudle/config"
	"github.com/LeandroCantero/Escudle/internal/escudle/daily"
	eerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/messages"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
)

// ShareText: 끝난 일일 라운드의 공유 문구를 만듭니다.
//
//	Escudle #27 3/6
//	⬜
//	⬜
//	🟩
//
//	https://escudle.netlify.app/
func ShareText(msgs *messageprovider.Provider, round model.DailyRoundState, target model.Entry, launch time.Time) (string, error) {
	if !round.Status.IsTerminal() {
		return "", fmt.Errorf("share daily round status=%s: %w", round.Status, eerrors.ErrRoundNotCompleted)
	}

	var result string
	if round.Status == model.RoundWon {
		result = msgs.Get(messages.ShareResultWon,
			messageprovider.P("attempts", len(round.Guesses)),
			messageprovider.P("max", model.MaxAttempts),
		)
	} else {
		result = msgs.Get(messages.ShareResultLost, messageprovider.P("max", model.MaxAttempts))
	}

	hit := msgs.Get(messages.ShareGlyphHit)
	miss := msgs.Get(messages.ShareGlyphMiss)
	glyphs := make([]string, 0, len(round.Guesses))
	for _, guess := range round.Guesses {
		if textutil.EqualFold(guess, target.Name) {
			glyphs = append(glyphs, hit)
		} else {
			glyphs = append(glyphs, miss)
		}
	}

	var sb strings.Builder
	sb.WriteString(msgs.Get(messages.ShareHeader,
		messageprovider.P("number", daily.GameNumber(round.Date, launch)),
		messageprovider.P("result", result),
	))
	sb.WriteString("\n")
	sb.WriteString(strings.Join(glyphs, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(msgs.Get(messages.ShareFooter, messageprovider.P("url", config.ShareURL)))
	return sb.String(), nil
}
