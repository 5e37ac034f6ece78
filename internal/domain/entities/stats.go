package entities

import "sort"

// QuestionFlags maps message ids to whether the message is a question.
// Lookups of ids that were never set return false.
type QuestionFlags struct {
	flags map[int64]bool
}

// NewQuestionFlags creates an empty flag set.
func NewQuestionFlags() QuestionFlags {
	return QuestionFlags{flags: make(map[int64]bool)}
}

// Set records the flag for a message id.
func (q *QuestionFlags) Set(id int64, question bool) {
	if q.flags == nil {
		q.flags = make(map[int64]bool)
	}
	q.flags[id] = question
}

// IsQuestion returns the flag for id, false when unknown.
func (q QuestionFlags) IsQuestion(id int64) bool {
	return q.flags[id]
}

// Count returns how many ids are flagged as questions.
func (q QuestionFlags) Count() int {
	n := 0
	for _, v := range q.flags {
		if v {
			n++
		}
	}
	return n
}

// ResponderCount is one entry of a responder ranking.
type ResponderCount struct {
	Responder string `json:"responder"`
	Count     int    `json:"count"`
}

// ResponderTally counts identities, remembering first-seen order for ties.
type ResponderTally struct {
	order  []string
	counts map[string]int
	total  int
}

// NewResponderTally creates an empty tally.
func NewResponderTally() *ResponderTally {
	return &ResponderTally{counts: make(map[string]int)}
}

// Add counts one occurrence of identity.
func (t *ResponderTally) Add(identity string) {
	if _, ok := t.counts[identity]; !ok {
		t.order = append(t.order, identity)
	}
	t.counts[identity]++
	t.total++
}

// Total returns the number of occurrences added.
func (t *ResponderTally) Total() int {
	return t.total
}

// Top returns at most n identities by descending count.
// Equal counts keep first-encountered order.
func (t *ResponderTally) Top(n int) []ResponderCount {
	ranked := make([]ResponderCount, len(t.order))
	for i, id := range t.order {
		ranked[i] = ResponderCount{Responder: id, Count: t.counts[id]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n < len(ranked) {
		ranked = ranked[:max(n, 0)]
	}
	return ranked
}

// StopWords is a set of normalized words dropped from cloud text.
type StopWords struct {
	words map[string]struct{}
}

// NewStopWords builds a set from already-normalized words.
func NewStopWords(words ...string) StopWords {
	s := StopWords{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w != "" {
			s.words[w] = struct{}{}
		}
	}
	return s
}

// Contains reports set membership.
func (s StopWords) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Len returns the set size.
func (s StopWords) Len() int {
	return len(s.words)
}
