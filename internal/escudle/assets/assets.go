package assets

import _ "embed" // 에셋 임베드용

// GameMessagesYAML 는 Escudle 안내 문구 YAML이다.
//
//go:embed messages/escudle-messages.yml
var GameMessagesYAML string

// MessagesRootKey: 메시지 YAML 의 최상위 키
const MessagesRootKey = "escudle"

// LogosJSON 은 기본 엠블럼 카탈로그(JSON 배열)다. ESCUDLE_CATALOG_PATH 로 교체할 수 있다.
//
//go:embed data/logos.json
var LogosJSON []byte
