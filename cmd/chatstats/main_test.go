package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/0xcro3dile/chatstats-go/internal/config"
)

const export = `{
  "name": "Study Group",
  "type": "private_group",
  "id": 1,
  "messages": [
    {"id": 1, "type": "message", "from": "Sara", "text": "who has the notes?"},
    {"id": 2, "type": "message", "from": "Ali", "text": "I have the notes", "reply_to_message_id": 1},
    {"id": 3, "type": "message", "from": "Reza", "text": ["check ", {"type": "link", "text": "drive"}], "reply_to_message_id": 1},
    {"id": 4, "type": "message", "from": "Sara", "text": "exam date؟"},
    {"id": 5, "type": "message", "from": "Ali", "text": "monday", "reply_to_message_id": 4},
    {"id": 6, "type": "message", "from": "Reza", "text": "thanks", "reply_to_message_id": 2},
    {"id": 7, "type": "message", "from": "Ali", "photo": "photos/1.jpg", "reply_to_message_id": 404}
  ]
}`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Resources.StopWords = filepath.Join(dir, "stopwords.txt")
	cfg.Resources.Font = filepath.Join(dir, "font.ttf")
	cfg.Cloud.Width, cfg.Cloud.Height = 400, 300
	cfg.Cloud.MaxFontSize = 60
	cfg.Stats.TopN = 2

	require.NoError(t, os.WriteFile(cfg.Resources.StopWords, []byte("the\ni\nhave\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.Resources.Font, goregular.TTF, 0o644))
	return cfg
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	transcript := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(transcript, []byte(export), 0o644))
	out := filepath.Join(t.TempDir(), "out")

	require.NoError(t, run(context.Background(), cfg, transcript, out))

	assert.FileExists(t, filepath.Join(out, "wordcloud.png"))

	data, err := os.ReadFile(filepath.Join(out, "stats.json"))
	require.NoError(t, err)
	var rep struct {
		Messages      int `json:"messages"`
		Questions     int `json:"questions"`
		TopResponders []struct {
			Responder string `json:"responder"`
			Count     int    `json:"count"`
		} `json:"top_responders"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, 7, rep.Messages)
	assert.Equal(t, 2, rep.Questions)
	require.Len(t, rep.TopResponders, 2)
	assert.Equal(t, "Ali", rep.TopResponders[0].Responder)
	assert.Equal(t, 2, rep.TopResponders[0].Count)
	assert.Equal(t, "Reza", rep.TopResponders[1].Responder)
}

func TestRun_MissingResources(t *testing.T) {
	transcript := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(transcript, []byte(export), 0o644))

	cfg := testConfig(t)
	cfg.Resources.Font = filepath.Join(t.TempDir(), "missing.ttf")
	assert.Error(t, run(context.Background(), cfg, transcript, t.TempDir()))

	cfg = testConfig(t)
	cfg.Resources.StopWords = filepath.Join(t.TempDir(), "missing.txt")
	assert.Error(t, run(context.Background(), cfg, transcript, t.TempDir()))
}

func TestRun_BadTranscript(t *testing.T) {
	cfg := testConfig(t)

	assert.Error(t, run(context.Background(), cfg, filepath.Join(t.TempDir(), "none.json"), t.TempDir()))

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	assert.Error(t, run(context.Background(), cfg, broken, t.TempDir()))
}
