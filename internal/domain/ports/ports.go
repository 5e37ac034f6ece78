// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/0xcro3dile/chatstats-go/internal/domain/entities"
)

// ErrNothingToRender is returned by a CloudRenderer when the text has no words.
var ErrNothingToRender = errors.New("no words to render")

// TranscriptLoader reads an exported chat transcript.
type TranscriptLoader interface {
	// Load reads and decodes the transcript at path.
	Load(ctx context.Context, path string) (*entities.ChatLog, error)
}

// TextNormalizer canonicalizes and tokenizes message text.
type TextNormalizer interface {
	// Normalize maps character variants to a canonical form and strips diacritics.
	Normalize(text string) string

	// Words splits text into word tokens. Tokens are not normalized.
	Words(text string) []string

	// Sentences splits text into sentences, each keeping its terminator.
	Sentences(text string) []string
}

// CloudRenderer turns prepared text into a word cloud image.
type CloudRenderer interface {
	// Render writes the image into outputDir and returns the file path.
	Render(ctx context.Context, text, outputDir string) (string, error)
}

// ReportWriter persists a run report.
type ReportWriter interface {
	// Write stores the report in outputDir and returns the file path.
	Write(ctx context.Context, report *entities.Report, outputDir string) (string, error)
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
