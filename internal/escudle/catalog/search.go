package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/LeandroCantero/Escudle/internal/common/textutil"
	"github.com/LeandroCantero/Escudle/internal/escudle/config"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
)

// Search: 이름 자동완성 후보를 반환합니다.
// 정규화한 질의가 2글자 미만이면 빈 결과입니다. 부분 문자열 일치를 먼저, 그 다음 편집 거리, 카탈로그 순서로 정렬합니다.
func (c *Catalog) Search(query string, limit int) []model.Entry {
	return rankEntries(query, limit, c.entries, c.foldedNames)
}

// SearchPool: Search 와 같지만 pool 안에서만 찾습니다. 순서는 pool 순서를 따릅니다.
func (c *Catalog) SearchPool(pool []model.Entry, query string, limit int) []model.Entry {
	names := make([]string, 0, len(pool))
	for _, entry := range pool {
		if idx, ok := c.byID[entry.ID]; ok {
			names = append(names, c.foldedNames[idx])
			continue
		}
		names = append(names, textutil.Fold(entry.Name))
	}
	return rankEntries(query, limit, pool, names)
}

func rankEntries(query string, limit int, entries []model.Entry, foldedNames []string) []model.Entry {
	folded := textutil.Fold(query)
	if utf8.RuneCountInString(folded) < config.SearchMinQueryRunes {
		return nil
	}
	if limit <= 0 {
		limit = config.SearchDefaultLimit
	}
	limit = min(limit, config.SearchMaxLimit)

	ranks := fuzzy.RankFindNormalizedFold(folded, foldedNames)
	if len(ranks) == 0 {
		return nil
	}

	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		aSub := strings.Contains(a.Target, folded)
		bSub := strings.Contains(b.Target, folded)
		if aSub != bSub {
			if aSub {
				return -1
			}
			return 1
		}
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	out := make([]model.Entry, 0, min(limit, len(ranks)))
	for _, rank := range ranks {
		if len(out) >= limit {
			break
		}
		out = append(out, entries[rank.OriginalIndex])
	}
	return out
}
