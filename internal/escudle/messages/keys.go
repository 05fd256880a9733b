package messages

// ShareHeader: 공유 문구 관련 메시지 키
const (
	ShareHeader     = "share.header"
	ShareResultWon  = "share.result_won"
	ShareResultLost = "share.result_lost"
	ShareGlyphHit   = "share.glyph_hit"
	ShareGlyphMiss  = "share.glyph_miss"
	ShareFooter     = "share.footer"
)

// DifficultyPrefix 등: 표시 라벨 키 접두사 (뒤에 값이 붙음)
const (
	DifficultyPrefix = "difficulty."
	ModePrefix       = "mode."
	DatasetPrefix    = "dataset."
)

// ErrorMissingPlayer: HTTP 오류 응답 메시지 키
const (
	ErrorMissingPlayer      = "error.missing_player"
	ErrorInvalidRequest     = "error.invalid_request"
	ErrorEmptyPool          = "error.empty_pool"
	ErrorPlayerBusy         = "error.player_busy"
	ErrorNoRound            = "error.no_round"
	ErrorRoundNotCompleted  = "error.round_not_completed"
	ErrorAnalyticsDisabled  = "error.analytics_disabled"
	ErrorStorageUnavailable = "error.storage_unavailable"
	ErrorInternal           = "error.internal"
)
