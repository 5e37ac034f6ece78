// Package entities contains core business entities.
// These are pure domain objects with no external dependencies.
package entities

// SegmentPlain is the segment type given to plain-string parts of a message.
const SegmentPlain = "plain"

// Segment is one part of a message whose text is split into typed spans
// (links, bold text, mentions...). Structured segments without a text
// field carry an empty Text.
type Segment struct {
	Type string
	Text string
}

// Reconstruct flattens segments into a single string, in order, with no separator.
func Reconstruct(segments []Segment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// TextKind tags the shape a message's text had in the transcript.
type TextKind int

const (
	TextAbsent TextKind = iota // missing, null or not text at all (media, polls)
	TextPlain
	TextSegmented
)

// Text is a message body resolved once at load time.
// Segmented text is flattened on construction, so String is always cheap.
type Text struct {
	Kind     TextKind
	Segments []Segment
	flat     string
}

// PlainText wraps a plain string body.
func PlainText(s string) Text {
	return Text{Kind: TextPlain, flat: s}
}

// SegmentedText wraps a segment sequence body.
func SegmentedText(segments ...Segment) Text {
	return Text{Kind: TextSegmented, Segments: segments, flat: Reconstruct(segments)}
}

// String returns the flattened text. Absent text is "".
func (t Text) String() string {
	return t.flat
}

// IsText reports whether the message carried any text value.
func (t Text) IsText() bool {
	return t.Kind != TextAbsent
}

// Message is a single transcript entry.
type Message struct {
	ID               int64
	Type             string // "message" or "service" in Telegram exports
	Date             string
	From             string // sender display name, empty for service messages
	FromID           string
	Text             Text
	ReplyToMessageID *int64
}

// Sender returns the display name, or the sender id when the name is
// missing (deleted accounts).
func (m Message) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.FromID
}

// ReplyTarget returns the id this message replies to, if any.
func (m Message) ReplyTarget() (int64, bool) {
	if m.ReplyToMessageID == nil {
		return 0, false
	}
	return *m.ReplyToMessageID, true
}

// ChatLog is a loaded transcript. Messages keep transcript order.
type ChatLog struct {
	Name     string
	Type     string
	ID       int64
	Messages []Message
}

// Report summarizes one analysis run.
type Report struct {
	RunID           string           `json:"run_id"`
	Chat            string           `json:"chat"`
	Messages        int              `json:"messages"`
	TextMessages    int              `json:"text_messages"`
	Questions       int              `json:"questions"`
	Replies         int              `json:"replies"`
	QuestionReplies int              `json:"question_replies"`
	TopResponders   []ResponderCount `json:"top_responders"`
	WordCloud       string           `json:"word_cloud,omitempty"`
}
