package assets

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/LeandroCantero/Escudle/internal/common/messageprovider"
)

func TestGameMessagesYAML_Parses(t *testing.T) {
	provider, err := messageprovider.NewFromYAMLAtPath(GameMessagesYAML, MessagesRootKey)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for _, key := range []string{
		"share.header", "share.result_won", "share.result_lost", "share.glyph_hit", "share.glyph_miss",
		"difficulty.easy", "difficulty.medium", "difficulty.hard", "error.empty_pool",
	} {
		if _, ok := provider.Lookup(key); !ok {
			t.Errorf("expected %s to exist", key)
		}
	}

	if got := provider.Get("share.header", messageprovider.P("number", 3), messageprovider.P("result", "2/6")); got != "Escudle #3 2/6" {
		t.Errorf("unexpected share header: %q", got)
	}
}

func TestLogosJSON_IsArray(t *testing.T) {
	var raw []map[string]any
	if err := json.Unmarshal(LogosJSON, &raw); err != nil {
		t.Fatalf("logos.json is not a JSON array: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected embedded catalog to be non-empty")
	}
}
