// Package catalog 는 정적 엠블럼 목록을 로드하고 라운드 후보 풀과 자동완성을 제공한다.
package catalog

import (
	"fmt"
	"os"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/LeandroCantero/Escudle/internal/common/textutil"
	"github.com/LeandroCantero/Escudle/internal/escudle/assets"
	cerrors "github.com/LeandroCantero/Escudle/internal/escudle/errors"
	"github.com/LeandroCantero/Escudle/internal/escudle/model"
)

// rawEntry: logos.json 의 레코드 형식
type rawEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Country      string  `json:"country"`
	IsHistorical bool    `json:"isHistorical"`
	Period       *string `json:"period"`
	Type         string  `json:"type"`
	SvgURL       *string `json:"svgUrl"`
	PngURL       *string `json:"pngUrl"`
	LocalPath    string  `json:"localPath"`
	PageURL      string  `json:"pageUrl"`
}

func (r rawEntry) toEntry(index int) (model.Entry, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return model.Entry{}, cerrors.CatalogError{Index: index, Reason: "missing id"}
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return model.Entry{}, cerrors.CatalogError{Index: index, EntryID: id, Reason: "missing name"}
	}

	image, ok := r.imageRef()
	if !ok {
		return model.Entry{}, cerrors.CatalogError{Index: index, EntryID: id, Reason: "no image reference"}
	}

	era := model.CurrentEra()
	if r.IsHistorical {
		period := ""
		if r.Period != nil {
			period = strings.TrimSpace(*r.Period)
		}
		era = model.HistoricalEra(period)
	}

	return model.Entry{
		ID:      id,
		Name:    name,
		Country: strings.TrimSpace(r.Country),
		Era:     era,
		Type:    strings.TrimSpace(r.Type),
		Image:   image,
		PageURL: r.PageURL,
	}, nil
}

// imageRef: 로컬 경로를 우선하고, 없으면 SVG, PNG URL 순서로 사용합니다.
func (r rawEntry) imageRef() (model.ImageRef, bool) {
	if path := strings.TrimSpace(r.LocalPath); path != "" {
		return model.ImageRef{Kind: model.ImageLocal, Ref: path}, true
	}
	for _, url := range []*string{r.SvgURL, r.PngURL} {
		if url != nil && strings.TrimSpace(*url) != "" {
			return model.ImageRef{Kind: model.ImageRemote, Ref: strings.TrimSpace(*url)}, true
		}
	}
	return model.ImageRef{}, false
}

// CountryCount: 국가별 클럽 엠블럼 수
type CountryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Catalog: 로드 이후 변경되지 않는 엠블럼 목록. 동시 읽기에 안전합니다.
type Catalog struct {
	entries     []model.Entry
	byID        map[string]int
	foldedNames []string
	dailyPool   []model.Entry
	countries   []CountryCount
}

// Load: JSON 배열을 디코딩하고 검증합니다. 배열 순서를 그대로 유지합니다.
func Load(data []byte) (*Catalog, error) {
	var raws []rawEntry
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode catalog failed: %w", err)
	}

	c := &Catalog{
		entries:     make([]model.Entry, 0, len(raws)),
		byID:        make(map[string]int, len(raws)),
		foldedNames: make([]string, 0, len(raws)),
	}
	counts := make(map[string]int)

	for i, raw := range raws {
		entry, err := raw.toEntry(i)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[entry.ID]; dup {
			return nil, cerrors.CatalogError{Index: i, EntryID: entry.ID, Reason: "duplicate id"}
		}

		c.byID[entry.ID] = len(c.entries)
		c.entries = append(c.entries, entry)
		c.foldedNames = append(c.foldedNames, textutil.Fold(entry.Name))

		if !entry.IsTournament() {
			c.dailyPool = append(c.dailyPool, entry)
			if entry.Country != "" {
				counts[entry.Country]++
			}
		}
	}

	c.countries = sortedCountries(counts)
	return c, nil
}

func sortedCountries(counts map[string]int) []CountryCount {
	out := make([]CountryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, CountryCount{Name: name, Count: count})
	}
	col := collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortFunc(out, func(a, b CountryCount) int {
		return col.CompareString(a.Name, b.Name)
	})
	return out
}

// LoadEmbedded: 바이너리에 포함된 기본 카탈로그를 로드합니다.
func LoadEmbedded() (*Catalog, error) {
	return Load(assets.LogosJSON)
}

// LoadFile: 운영자가 지정한 파일에서 카탈로그를 로드합니다.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file failed: %w", err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Entries: 원본 순서의 전체 목록. 반환된 슬라이스를 수정하면 안 됩니다.
func (c *Catalog) Entries() []model.Entry {
	return c.entries
}

// Len: 항목 수
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ByID: ID 로 항목을 찾습니다.
func (c *Catalog) ByID(id string) (model.Entry, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return model.Entry{}, false
	}
	return c.entries[idx], true
}

// Countries: 대회를 제외한 국가 목록과 클럽 수 (이름순)
func (c *Catalog) Countries() []CountryCount {
	return slices.Clone(c.countries)
}

// DailyPool: 일일 모드 후보. 대회 엠블럼만 제외하며 데이터셋/국가 필터는 적용하지 않습니다.
func (c *Catalog) DailyPool() []model.Entry {
	return c.dailyPool
}

// FilteredPool: 무한/연습 모드 후보. 데이터셋 필터 후 국가 허용 목록을 적용합니다.
func (c *Catalog) FilteredPool(dataset model.DatasetFilter, countries model.CountryFilter) []model.Entry {
	pool := make([]model.Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		if !dataset.Matches(entry) {
			continue
		}
		if !countries.Allows(entry.Country) {
			continue
		}
		pool = append(pool, entry)
	}
	return pool
}
