// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"log/slog"
	"strings"

	"github.com/0xcro3dile/chatstats-go/internal/domain/entities"
	"github.com/0xcro3dile/chatstats-go/internal/domain/ports"
)

// questionMarkers are the characters that make a sentence a question.
const questionMarkers = "?؟"

// StatisticsUseCase computes question/reply statistics and word cloud text.
// It holds the resources loaded once at startup and no per-run state.
type StatisticsUseCase struct {
	normalizer ports.TextNormalizer
	stopWords  entities.StopWords
	renderer   ports.CloudRenderer
	topN       int
}

// NewStatisticsUseCase creates a StatisticsUseCase with injected dependencies.
// topN is the default ranking size used when callers pass a non-positive value.
func NewStatisticsUseCase(
	normalizer ports.TextNormalizer,
	stopWords entities.StopWords,
	renderer ports.CloudRenderer,
	topN int,
) *StatisticsUseCase {
	if topN <= 0 {
		topN = 1
	}
	return &StatisticsUseCase{
		normalizer: normalizer,
		stopWords:  stopWords,
		renderer:   renderer,
		topN:       topN,
	}
}

// IsQuestion reports whether any sentence of text contains a question marker.
func (uc *StatisticsUseCase) IsQuestion(text string) bool {
	for _, sentence := range uc.normalizer.Sentences(text) {
		if strings.ContainsAny(sentence, questionMarkers) {
			return true
		}
	}
	return false
}

// QuestionFlags flags every message that is a question.
// Messages without text are skipped and stay unflagged.
func (uc *StatisticsUseCase) QuestionFlags(log *entities.ChatLog) entities.QuestionFlags {
	flags := entities.NewQuestionFlags()
	for _, msg := range log.Messages {
		if !msg.Text.IsText() {
			continue
		}
		if uc.IsQuestion(msg.Text.String()) {
			flags.Set(msg.ID, true)
		}
	}
	return flags
}

// QuestionReplies tallies the senders of messages replying to a question.
// Replies to unknown ids or to non-questions are ignored, as are replies
// with no sender identity at all.
func (uc *StatisticsUseCase) QuestionReplies(log *entities.ChatLog, flags entities.QuestionFlags) *entities.ResponderTally {
	tally := entities.NewResponderTally()
	for _, msg := range log.Messages {
		target, ok := msg.ReplyTarget()
		if !ok || !flags.IsQuestion(target) {
			continue
		}
		sender := msg.Sender()
		if sender == "" {
			continue
		}
		tally.Add(sender)
	}
	return tally
}

// TopResponders returns the topN senders who most often replied to questions,
// by descending count.
func (uc *StatisticsUseCase) TopResponders(log *entities.ChatLog, topN int) []entities.ResponderCount {
	if topN <= 0 {
		topN = uc.topN
	}
	flags := uc.QuestionFlags(log)
	return uc.QuestionReplies(log, flags).Top(topN)
}

// PrepareCloudText builds the stop-word-free text blob fed to the renderer.
func (uc *StatisticsUseCase) PrepareCloudText(log *entities.ChatLog) string {
	var sb strings.Builder
	for _, msg := range log.Messages {
		if !msg.Text.IsText() {
			continue
		}
		for _, token := range uc.normalizer.Words(msg.Text.String()) {
			if uc.stopWords.Contains(uc.normalizer.Normalize(token)) {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(token)
		}
	}
	return uc.normalizer.Normalize(sb.String())
}

// GenerateWordCloud renders the chat's word cloud into outputDir.
func (uc *StatisticsUseCase) GenerateWordCloud(ctx context.Context, log *entities.ChatLog, outputDir string) (string, error) {
	slog.InfoContext(ctx, "removing stop words", "stop_words", uc.stopWords.Len())
	text := uc.PrepareCloudText(log)

	slog.InfoContext(ctx, "making word cloud", "chars", len(text))
	path, err := uc.renderer.Render(ctx, text, outputDir)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "saved word cloud", "path", path)
	return path, nil
}
