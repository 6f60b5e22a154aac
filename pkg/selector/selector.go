package selector

import (
	"errors"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/ledger"
	"connector-selector/pkg/requirement"
)

// ErrNoEligibleQuestion means every question is asked, inapplicable or out of
// retries. The decision policy treats it as exhaustion.
var ErrNoEligibleQuestion = errors.New("no eligible question")

const (
	// RetryCap bounds how often a question is re-offered after failed parses.
	RetryCap = 2
	// heightConfidenceFloor is the height confidence below which pitch is asked next.
	heightConfidenceFloor = 0.5
)

// State of the selection state machine.
type State string

const (
	StateNoQuestion State = "NO_QUESTION"
	StatePending    State = "PENDING"
	StateExhausted  State = "EXHAUSTED"
)

// Selector picks the next question for one session.
type Selector struct {
	questions *catalog.QuestionSet
	log       logger.ILogger

	state   State
	pending *catalog.Question
}

func New(questions *catalog.QuestionSet, log logger.ILogger) *Selector {
	return &Selector{questions: questions, log: log, state: StateNoQuestion}
}

func (s *Selector) State() State { return s.state }

// Pending returns the question awaiting an answer, if any.
func (s *Selector) Pending() (catalog.Question, bool) {
	if s.pending == nil {
		return catalog.Question{}, false
	}
	return *s.pending, true
}

// Reset returns to the NoQuestion state.
func (s *Selector) Reset() {
	s.state = StateNoQuestion
	s.pending = nil
}

// Next selects the next question against the ledger. Inapplicable questions
// have their implied answers recorded first. It returns ErrNoEligibleQuestion
// and moves to Exhausted when nothing is left to ask.
func (s *Selector) Next(l *ledger.Ledger) (catalog.Question, error) {
	if touched := l.ApplyApplicability(); len(touched) > 0 {
		s.log.Debug("SELECTOR", "Recorded implied answers", map[string]interface{}{"attributes": touched})
	}

	q, ok := s.pick(l)
	if !ok {
		s.state = StateExhausted
		s.pending = nil
		return catalog.Question{}, ErrNoEligibleQuestion
	}
	s.state = StatePending
	s.pending = &q
	return q, nil
}

func (s *Selector) pick(l *ledger.Ledger) (catalog.Question, bool) {
	answers := l.Answers()

	if l.IsAsked(requirement.HeightRequirement) && !l.IsAsked(requirement.PitchSize) && weakHeight(answers) {
		if pitch, ok := s.questions.ByAttribute(requirement.PitchSize); ok && s.eligible(pitch, l, answers) {
			return pitch, true
		}
	}

	for _, q := range s.questions.Ordered() {
		if s.eligible(q, l, answers) {
			return q, true
		}
	}
	return catalog.Question{}, false
}

func (s *Selector) eligible(q catalog.Question, l *ledger.Ledger, answers requirement.Answers) bool {
	return !l.IsAsked(q.Attribute) && q.Applicable(answers) && l.Retries(q.Attribute) < RetryCap
}

func weakHeight(answers requirement.Answers) bool {
	h, ok := answers.Known(requirement.HeightRequirement)
	return !ok || h.Confidence < heightConfidenceFloor
}
