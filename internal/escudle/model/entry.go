package model

// EraKind: 엠블럼이 현재 사용 중인지, 과거 시대의 것인지 구분합니다.
type EraKind string

// EraCurrent 등: 시대 구분 상수
const (
	EraCurrent    EraKind = "current"
	EraHistorical EraKind = "historical"
)

// Era: 엠블럼의 시대 정보. 과거 엠블럼만 Period("1903-1939" 등)를 가집니다.
type Era struct {
	Kind   EraKind `json:"kind"`
	Period string  `json:"period,omitempty"`
}

// CurrentEra: 현재 엠블럼 시대 값을 반환합니다.
func CurrentEra() Era {
	return Era{Kind: EraCurrent}
}

// HistoricalEra: 사용 기간이 있는 과거 엠블럼 시대 값을 반환합니다.
func HistoricalEra(period string) Era {
	return Era{Kind: EraHistorical, Period: period}
}

// IsHistorical: 과거 엠블럼인지 확인합니다.
func (e Era) IsHistorical() bool {
	return e.Kind == EraHistorical
}

// ImageKind: 이미지 참조 종류
type ImageKind string

// ImageLocal 등: 이미지 참조 종류 상수
const (
	ImageLocal  ImageKind = "local"
	ImageRemote ImageKind = "remote"
)

// ImageRef: 엠블럼 이미지의 단일 참조 (로컬 경로 또는 원격 URL)
type ImageRef struct {
	Kind ImageKind `json:"kind"`
	Ref  string    `json:"ref"`
}

// Entry: 카탈로그의 엠블럼 한 건. 라운드 정답 후보가 됩니다.
type Entry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Era     Era      `json:"era"`
	Type    string   `json:"type,omitempty"`
	Image   ImageRef `json:"image"`
	PageURL string   `json:"pageUrl,omitempty"`
}

// IsTournament: 클럽이 아닌 대회 엠블럼인지 확인합니다.
func (e Entry) IsTournament() bool {
	return e.Type == EntryTypeTournament
}

// EntryTypeTournament: 대회/리그 엠블럼 타입 값
const EntryTypeTournament = "tournament"
