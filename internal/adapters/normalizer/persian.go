// Package normalizer provides text canonicalization and tokenization adapters.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	zwnj         = '\u200c'
	kashida      = '\u0640'
	sentenceEnds = ".!?؟…"

	// maxCachedLen bounds the inputs kept in the cache to word-sized strings.
	maxCachedLen = 64
)

// removable covers Latin combining marks, the kashida and Arabic harakat.
// U+0653..U+0655 (maddah, hamza) are kept so that آ and أ recompose.
var removable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0300, Hi: 0x036f, Stride: 1},
		{Lo: kashida, Hi: kashida, Stride: 1},
		{Lo: 0x064b, Hi: 0x0652, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
	},
}

// PersianNormalizer implements ports.TextNormalizer for Persian, Arabic and
// Latin-script chat text.
type PersianNormalizer struct {
	cache *lru.Cache[string, string]
}

// NewPersianNormalizer creates a normalizer memoizing up to cacheSize words.
func NewPersianNormalizer(cacheSize int) (*PersianNormalizer, error) {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating normalizer cache")
	}
	return &PersianNormalizer{cache: cache}, nil
}

// Normalize maps Arabic letter and digit variants to Persian, strips
// diacritics and kashida, lower-cases and collapses whitespace.
func (n *PersianNormalizer) Normalize(text string) string {
	if len(text) <= maxCachedLen {
		if v, ok := n.cache.Get(text); ok {
			return v
		}
	}

	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(removable)),
		norm.NFC,
		runes.Map(persianRune),
		cases.Lower(language.Und),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	out = strings.Join(strings.Fields(out), " ")

	if len(text) <= maxCachedLen {
		n.cache.Add(text, out)
	}
	return out
}

func persianRune(r rune) rune {
	switch {
	case r == 'ك':
		return 'ک'
	case r == 'ي', r == 'ى':
		return 'ی'
	case r >= '٠' && r <= '٩':
		return '۰' + (r - '٠')
	}
	return r
}

// Words splits text into runs of letters, digits, marks and ZWNJ.
// Apostrophes are kept inside words but trimmed from the edges.
func (n *PersianNormalizer) Words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	})

	words := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'’\u200c")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) ||
		r == zwnj || r == '\'' || r == '’'
}

// Sentences splits text after runs of terminators and at newlines.
// Terminators stay with the sentence they end.
func (n *PersianNormalizer) Sentences(text string) []string {
	var out []string
	start := 0
	pending := false

	for i, r := range text {
		switch {
		case r == '\n':
			out = appendSentence(out, text[start:i])
			start = i + 1
			pending = false
		case strings.ContainsRune(sentenceEnds, r):
			pending = true
		case pending:
			out = appendSentence(out, text[start:i])
			start = i
			pending = false
		}
	}
	return appendSentence(out, text[start:])
}

func appendSentence(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}
