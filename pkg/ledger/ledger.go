package ledger

import (
	"sort"
	"time"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
)

const module = "LEDGER"

// EntryKind classifies a history entry.
type EntryKind string

const (
	EntryRecord       EntryKind = "record"
	EntryImplied      EntryKind = "implied"
	EntryForget       EntryKind = "forget"
	EntryRetry        EntryKind = "retry"
	EntryParseFailure EntryKind = "parse_failure"
	EntryMention      EntryKind = "mention"
	EntryRestart      EntryKind = "restart"
)

// Entry is one line of the session transcript.
type Entry struct {
	Kind      EntryKind
	Attribute requirement.Attribute
	Answer    requirement.Answer
	Note      string
	At        time.Time
}

// Ledger accumulates one session's answers. It is not safe for concurrent
// use; the advisor serializes access per session.
type Ledger struct {
	questions *catalog.QuestionSet
	log       logger.ILogger
	now       func() time.Time

	answers       requirement.Answers
	asked         map[requirement.Attribute]struct{}
	retries       map[requirement.Attribute]int
	parseFailures int
	mentioned     []string
	history       []Entry
}

func New(questions *catalog.QuestionSet, log logger.ILogger) *Ledger {
	l := &Ledger{
		questions: questions,
		log:       log,
		now:       time.Now,
	}
	l.reset()
	return l
}

func (l *Ledger) reset() {
	l.answers = requirement.Answers{}
	l.asked = map[requirement.Attribute]struct{}{}
	l.retries = map[requirement.Attribute]int{}
	l.parseFailures = 0
	l.mentioned = nil
}

// Record stores an answer and marks the attribute asked. A later record for the
// same attribute replaces the earlier one. Recording an identical answer is a
// no-op and reports false.
func (l *Ledger) Record(attr requirement.Attribute, v requirement.Value, confidence float64) bool {
	return l.record(attr, requirement.NewAnswer(v, confidence), EntryRecord)
}

func (l *Ledger) record(attr requirement.Attribute, ans requirement.Answer, kind EntryKind) bool {
	if !requirement.Known(attr) {
		l.log.Warn(module, "Ignoring answer for unknown attribute", map[string]interface{}{"attribute": attr})
		return false
	}
	if prev, ok := l.answers[attr]; ok && prev.Equal(ans) {
		if _, asked := l.asked[attr]; asked {
			return false
		}
	}
	l.answers[attr] = ans
	l.asked[attr] = struct{}{}
	l.history = append(l.history, Entry{Kind: kind, Attribute: attr, Answer: ans, At: l.now()})

	l.log.Debug(module, "Answer recorded", map[string]interface{}{
		"attribute":  attr,
		"value":      ans.Value.String(),
		"confidence": ans.Confidence,
		"kind":       kind,
	})
	return true
}

// forget drops an attribute from answers and asked together so that the
// asked-implies-answered invariant holds.
func (l *Ledger) forget(attr requirement.Attribute) {
	if _, ok := l.answers[attr]; !ok {
		return
	}
	delete(l.answers, attr)
	delete(l.asked, attr)
	l.history = append(l.history, Entry{Kind: EntryForget, Attribute: attr, At: l.now()})
}

// Restart clears everything except the transcript, which gets a restart marker.
func (l *Ledger) Restart() {
	l.reset()
	l.history = append(l.history, Entry{Kind: EntryRestart, At: l.now()})
	l.log.Info(module, "Ledger restarted", nil)
}

// NoteRetry counts a failed or low-confidence parse for attr and returns the new count.
func (l *Ledger) NoteRetry(attr requirement.Attribute) int {
	l.retries[attr]++
	l.history = append(l.history, Entry{Kind: EntryRetry, Attribute: attr, At: l.now()})
	return l.retries[attr]
}

func (l *Ledger) Retries(attr requirement.Attribute) int {
	return l.retries[attr]
}

// NoteParseFailure counts a consecutive interpreter failure.
func (l *Ledger) NoteParseFailure() int {
	l.parseFailures++
	l.history = append(l.history, Entry{Kind: EntryParseFailure, At: l.now()})
	return l.parseFailures
}

func (l *Ledger) ResetParseFailures() {
	l.parseFailures = 0
}

func (l *Ledger) ParseFailures() int {
	return l.parseFailures
}

// Mention remembers a candidate id named by the user.
func (l *Ledger) Mention(id string) {
	for _, m := range l.mentioned {
		if m == id {
			return
		}
	}
	l.mentioned = append(l.mentioned, id)
	l.history = append(l.history, Entry{Kind: EntryMention, Note: id, At: l.now()})
}

func (l *Ledger) Mentioned() []string {
	return append([]string(nil), l.mentioned...)
}

// Answers returns a snapshot; mutating it does not affect the ledger.
func (l *Ledger) Answers() requirement.Answers {
	return l.answers.Clone()
}

func (l *Ledger) Answer(attr requirement.Attribute) (requirement.Answer, bool) {
	a, ok := l.answers[attr]
	return a, ok
}

func (l *Ledger) IsAsked(attr requirement.Attribute) bool {
	_, ok := l.asked[attr]
	return ok
}

// Asked lists asked attributes in name order.
func (l *Ledger) Asked() []requirement.Attribute {
	out := make([]requirement.Attribute, 0, len(l.asked))
	for a := range l.asked {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (l *Ledger) AskedCount() int { return len(l.asked) }

// AnsweredCount counts recorded answers, explicit unknowns included.
func (l *Ledger) AnsweredCount() int { return len(l.answers) }

func (l *Ledger) History() []Entry {
	return append([]Entry(nil), l.history...)
}

func (l *Ledger) Questions() *catalog.QuestionSet { return l.questions }
