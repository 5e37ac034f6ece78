// Package logger configures the process-wide slog logger.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/0xcro3dile/chatstats-go/internal/config"
)

// Setup installs the default logger for cfg and returns it.
func Setup(cfg config.Config) *slog.Logger {
	l := New(cfg, os.Stderr)
	slog.SetDefault(l)
	return l
}

// New builds a logger writing to w: text in development, JSON in production.
func New(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = NewRunHandler(slog.NewJSONHandler(w, opts))
	} else {
		handler = NewRunHandler(slog.NewTextHandler(w, opts))
	}
	return slog.New(handler)
}

type runIDKey struct{}

// WithRunID returns a context whose log records carry run_id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the run id stored on ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// RunHandler adds the analysis run id from the context to every record.
type RunHandler struct {
	slog.Handler
}

// NewRunHandler wraps h.
func NewRunHandler(h slog.Handler) *RunHandler {
	return &RunHandler{Handler: h}
}

// Handle adds run_id when the context carries one.
func (h *RunHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := RunID(ctx); id != "" {
			r.AddAttrs(slog.String("run_id", id))
		}
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the wrapper around the derived handler.
func (h *RunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RunHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the wrapper around the derived handler.
func (h *RunHandler) WithGroup(name string) slog.Handler {
	return &RunHandler{Handler: h.Handler.WithGroup(name)}
}
