// Package loader provides transcript and stop-word loading adapters.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/0xcro3dile/chatstats-go/internal/domain/entities"
	"github.com/0xcro3dile/chatstats-go/internal/domain/ports"
)

// ErrNoMessages is returned for JSON documents without a messages key.
var ErrNoMessages = errors.New("transcript has no messages")

// transcriptFile mirrors the Telegram Desktop "result.json" export.
type transcriptFile struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ID       int64           `json:"id"`
	Messages []messageRecord `json:"messages"`
}

type messageRecord struct {
	ID               int64           `json:"id"`
	Type             string          `json:"type"`
	Date             string          `json:"date"`
	From             *string         `json:"from"`
	FromID           string          `json:"from_id"`
	Text             json.RawMessage `json:"text"`
	ReplyToMessageID *int64          `json:"reply_to_message_id"`
}

// JSONLoader loads exported chat transcripts.
type JSONLoader struct{}

// NewJSONLoader creates a new transcript loader.
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// Load reads the whole transcript at path and resolves every message text.
func (l *JSONLoader) Load(ctx context.Context, path string) (*entities.ChatLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Decode(data)
}

// Decode parses transcript JSON.
func Decode(data []byte) (*entities.ChatLog, error) {
	var file transcriptFile
	if err := sonic.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "decoding transcript")
	}
	if file.Messages == nil {
		return nil, ErrNoMessages
	}

	chat := &entities.ChatLog{
		Name:     file.Name,
		Type:     file.Type,
		ID:       file.ID,
		Messages: make([]entities.Message, len(file.Messages)),
	}
	for i, rec := range file.Messages {
		m := entities.Message{
			ID:               rec.ID,
			Type:             rec.Type,
			Date:             rec.Date,
			FromID:           rec.FromID,
			Text:             decodeText(rec.Text),
			ReplyToMessageID: rec.ReplyToMessageID,
		}
		if rec.From != nil {
			m.From = *rec.From
		}
		chat.Messages[i] = m
	}
	return chat, nil
}

// decodeText resolves a text value that is either a plain string or an
// array of strings and typed objects. Anything else has no text.
func decodeText(raw json.RawMessage) entities.Text {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return entities.Text{}
	}

	var str string
	if err := sonic.Unmarshal(raw, &str); err == nil {
		return entities.PlainText(str)
	}

	var parts []json.RawMessage
	if err := sonic.Unmarshal(raw, &parts); err != nil {
		return entities.Text{}
	}

	segments := make([]entities.Segment, 0, len(parts))
	for _, part := range parts {
		if err := sonic.Unmarshal(part, &str); err == nil {
			segments = append(segments, entities.Segment{Type: entities.SegmentPlain, Text: str})
			continue
		}

		var block struct {
			Type string `json:"type"`
			Text any    `json:"text"`
		}
		if err := sonic.Unmarshal(part, &block); err != nil {
			continue
		}
		seg := entities.Segment{Type: block.Type}
		if s, ok := block.Text.(string); ok {
			seg.Text = s
		}
		segments = append(segments, seg)
	}
	return entities.SegmentedText(segments...)
}

// LoadStopWords reads one stop word per line and normalizes each once.
// Blank lines and lines starting with # are ignored.
func LoadStopWords(ctx context.Context, path string, normalizer ports.TextNormalizer) (entities.StopWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return entities.StopWords{}, errors.Wrapf(err, "opening stop words %s", path)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, normalizer.Normalize(line))
	}
	if err := sc.Err(); err != nil {
		return entities.StopWords{}, errors.Wrapf(err, "reading stop words %s", path)
	}

	return entities.NewStopWords(words...), nil
}
