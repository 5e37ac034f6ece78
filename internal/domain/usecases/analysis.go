// Package usecases - analysis.go runs one load/process/emit pass over a transcript.
package usecases

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/0xcro3dile/chatstats-go/internal/domain/entities"
	"github.com/0xcro3dile/chatstats-go/internal/domain/ports"
	"github.com/0xcro3dile/chatstats-go/internal/logger"
)

// AnalysisUseCase handles a single batch run.
// Each Run owns its ChatLog and derived data; nothing is shared between runs.
type AnalysisUseCase struct {
	loader ports.TranscriptLoader
	stats  *StatisticsUseCase
	writer ports.ReportWriter
}

// NewAnalysisUseCase creates an AnalysisUseCase with injected dependencies.
func NewAnalysisUseCase(
	loader ports.TranscriptLoader,
	stats *StatisticsUseCase,
	writer ports.ReportWriter,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		loader: loader,
		stats:  stats,
		writer: writer,
	}
}

// Run loads the transcript, computes statistics, renders the word cloud
// and writes the report into outputDir.
func (uc *AnalysisUseCase) Run(ctx context.Context, transcriptPath, outputDir string) (*entities.Report, error) {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)

	// 1. Load
	slog.InfoContext(ctx, "loading chat data", "path", transcriptPath)
	chat, err := uc.loader.Load(ctx, transcriptPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading transcript")
	}

	// 2. Statistics
	report := uc.Summarize(chat)
	report.RunID = runID
	slog.InfoContext(ctx, "computed statistics",
		"messages", report.Messages,
		"questions", report.Questions,
		"question_replies", report.QuestionReplies,
	)

	// 3. Word cloud; an empty chat still gets a report
	cloud, err := uc.stats.GenerateWordCloud(ctx, chat, outputDir)
	switch {
	case errors.Is(err, ports.ErrNothingToRender):
		slog.WarnContext(ctx, "skipping word cloud", "reason", err)
	case err != nil:
		return nil, errors.Wrap(err, "generating word cloud")
	default:
		report.WordCloud = cloud
	}

	// 4. Report
	path, err := uc.writer.Write(ctx, report, outputDir)
	if err != nil {
		return nil, errors.Wrap(err, "writing report")
	}
	slog.InfoContext(ctx, "saved report", "path", path)

	return report, nil
}

// Summarize computes the report counters for a loaded chat.
func (uc *AnalysisUseCase) Summarize(chat *entities.ChatLog) *entities.Report {
	flags := uc.stats.QuestionFlags(chat)
	tally := uc.stats.QuestionReplies(chat, flags)

	report := &entities.Report{
		Chat:            chat.Name,
		Messages:        len(chat.Messages),
		Questions:       flags.Count(),
		QuestionReplies: tally.Total(),
		TopResponders:   tally.Top(uc.stats.topN),
	}
	for _, msg := range chat.Messages {
		if msg.Text.IsText() {
			report.TextMessages++
		}
		if _, ok := msg.ReplyTarget(); ok {
			report.Replies++
		}
	}
	return report
}
