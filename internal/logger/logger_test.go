package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xcro3dile/chatstats-go/internal/config"
)

func TestRunHandler_AddsRunID(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Env = "production"
	l := New(cfg, &buf)

	ctx := WithRunID(context.Background(), "run-42")
	l.InfoContext(ctx, "loading chat data", "path", "result.json")

	out := buf.String()
	assert.Contains(t, out, `"run_id":"run-42"`)
	assert.Contains(t, out, `"msg":"loading chat data"`)
}

func TestRunHandler_NoRunID(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.Default(), &buf)

	l.With("component", "loader").Info("hello")

	out := buf.String()
	assert.NotContains(t, out, "run_id")
	assert.Contains(t, out, "component=loader")
}

func TestNew_DevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.Default(), &buf)

	l.Debug("tokens", "count", 3)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Equal(t, "", RunID(context.Background()))
}

func TestRunHandler_DerivedHandlersKeepRunID(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Env = "production"
	l := New(cfg, &buf).With("component", "stats").WithGroup("tally")

	l.InfoContext(WithRunID(context.Background(), "run-7"), "ranked", "responders", 2)

	out := buf.String()
	assert.Contains(t, out, `"component":"stats"`)
	assert.Contains(t, out, `"run_id":"run-7"`)
}
