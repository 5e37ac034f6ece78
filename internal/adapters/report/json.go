// Package report persists run reports.
package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/0xcro3dile/chatstats-go/internal/domain/entities"
)

// FileName is the report file written into the output directory.
const FileName = "stats.json"

// JSONWriter implements ports.ReportWriter.
type JSONWriter struct{}

func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

// Write encodes report as indented JSON into outputDir/stats.json.
func (w *JSONWriter) Write(ctx context.Context, report *entities.Report, outputDir string) (string, error) {
	if report.TopResponders == nil {
		report.TopResponders = []entities.ResponderCount{}
	}
	data, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding report")
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", outputDir)
	}
	path := filepath.Join(outputDir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}
