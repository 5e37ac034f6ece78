package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0xcro3dile/chatstats-go/internal/domain/entities"
)

const sampleExport = `{
  "name": "Study Group",
  "type": "private_group",
  "id": 4242,
  "messages": [
    {"id": 1, "type": "message", "date": "2021-01-01T10:00:00", "from": "A", "from_id": "user1", "text": "What time?"},
    {"id": 2, "type": "message", "date": "2021-01-01T10:01:00", "from": "B", "from_id": "user2", "text": "5pm", "reply_to_message_id": 1},
    {"id": 3, "type": "message", "from": "C", "text": ["Check ", {"type": "link", "text": "this"}]},
    {"id": 4, "type": "service", "from": null, "actor": "A", "action": "pin_message", "text": ""},
    {"id": 5, "type": "message", "from": "D", "photo": "photos/1.jpg"},
    {"id": 6, "type": "message", "from": "E", "text": [{"type": "custom_emoji"}, "ok", {"type": "bold", "text": 7}]},
    {"id": 7, "type": "message", "from": "F", "text": null},
    {"id": 8, "type": "message", "from": "G", "text": 12}
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	dir, _ := os.MkdirTemp("", "loader-test-*")
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, name)
	os.WriteFile(path, []byte(content), 0644)
	return path
}

func TestJSONLoader_LoadExport(t *testing.T) {
	path := writeTemp(t, "result.json", sampleExport)

	chat, err := NewJSONLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if chat.Name != "Study Group" || chat.ID != 4242 {
		t.Errorf("unexpected chat header: %+v", chat)
	}
	if len(chat.Messages) != 8 {
		t.Fatalf("expected 8 messages, got %d", len(chat.Messages))
	}

	first := chat.Messages[0]
	if first.Text.Kind != entities.TextPlain || first.Text.String() != "What time?" {
		t.Errorf("unexpected text: %+v", first.Text)
	}
	if first.FromID != "user1" || first.Date == "" {
		t.Errorf("metadata not loaded: %+v", first)
	}

	target, ok := chat.Messages[1].ReplyTarget()
	if !ok || target != 1 {
		t.Errorf("expected reply to 1, got %d (%v)", target, ok)
	}
	if _, ok := first.ReplyTarget(); ok {
		t.Error("first message should not be a reply")
	}
}

func TestJSONLoader_SegmentedText(t *testing.T) {
	chat, err := Decode([]byte(sampleExport))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	seg := chat.Messages[2].Text
	if seg.Kind != entities.TextSegmented {
		t.Fatalf("expected segmented text, got %v", seg.Kind)
	}
	if seg.String() != "Check this" {
		t.Errorf("unexpected flattened text: %q", seg.String())
	}
	if len(seg.Segments) != 2 || seg.Segments[1].Type != "link" {
		t.Errorf("unexpected segments: %+v", seg.Segments)
	}

	odd := chat.Messages[5].Text
	if odd.String() != "ok" || len(odd.Segments) != 3 {
		t.Errorf("segments without string text should contribute nothing: %+v", odd)
	}
}

func TestJSONLoader_NonTextMessages(t *testing.T) {
	chat, err := Decode([]byte(sampleExport))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	service := chat.Messages[3]
	if service.From != "" || service.Type != "service" {
		t.Errorf("unexpected service message: %+v", service)
	}
	if !service.Text.IsText() {
		t.Error("empty string text is still text")
	}

	for _, i := range []int{4, 6, 7} {
		if chat.Messages[i].Text.IsText() {
			t.Errorf("message %d should have no text", chat.Messages[i].ID)
		}
	}
}

func TestJSONLoader_MalformedJSON(t *testing.T) {
	path := writeTemp(t, "broken.json", `{"messages": [`)

	_, err := NewJSONLoader().Load(context.Background(), path)
	if err == nil {
		t.Error("should error on malformed json")
	}
}

func TestJSONLoader_MissingMessages(t *testing.T) {
	_, err := Decode([]byte(`{"name": "x"}`))
	if !errors.Is(err, ErrNoMessages) {
		t.Errorf("expected ErrNoMessages, got %v", err)
	}
}

func TestJSONLoader_NonexistentFile(t *testing.T) {
	_, err := NewJSONLoader().Load(context.Background(), "/nonexistent/result.json")
	if err == nil {
		t.Error("should error on nonexistent file")
	}
}

// lowerNormalizer lower-cases words; enough for stop-word loading.
type lowerNormalizer struct{}

func (lowerNormalizer) Normalize(text string) string { return strings.ToLower(text) }
func (lowerNormalizer) Words(text string) []string { return strings.Fields(text) }
func (lowerNormalizer) Sentences(text string) []string { return []string{text} }

func TestLoadStopWords(t *testing.T) {
	path := writeTemp(t, "stopwords.txt", "# english\nThe\n  and  \n\nو\n")

	sw, err := LoadStopWords(context.Background(), path, lowerNormalizer{})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sw.Len() != 3 {
		t.Errorf("expected 3 stop words, got %d", sw.Len())
	}
	for _, w := range []string{"the", "and", "و"} {
		if !sw.Contains(w) {
			t.Errorf("missing stop word %q", w)
		}
	}
	if sw.Contains("# english") {
		t.Error("comments should be skipped")
	}
}

func TestLoadStopWords_MissingFile(t *testing.T) {
	_, err := LoadStopWords(context.Background(), "/nonexistent/stopwords.txt", lowerNormalizer{})
	if err == nil {
		t.Error("should error on missing stop-word file")
	}
}
