package interpreter

import (
	"context"
	"errors"

	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
)

var (
	// ErrInterpreterTimeout is returned when the backend misses its deadline.
	ErrInterpreterTimeout = errors.New("interpreter timed out")
	// ErrInterpreterMalformedOutput is returned when the backend answer cannot
	// be decoded into a value and a confidence.
	ErrInterpreterMalformedOutput = errors.New("interpreter returned malformed output")
)

// AggressiveAfter is the consecutive failure count above which the
// aggressive fallback replaces the simple one.
const AggressiveAfter = 2

const module = "INTERPRETER"

// Source names the strategy that produced an interpretation.
type Source string

const (
	SourceLLM        Source = "llm"
	SourceHeuristic  Source = "heuristic"
	SourceAggressive Source = "aggressive"
)

// Interpretation is one parsed value with its confidence.
type Interpretation struct {
	Value      requirement.Value
	Confidence float64
	Reasoning  string
	Source     Source
	// Failed is set when the primary strategy failed and a fallback answered.
	Failed bool
	// Unparseable is set when no strategy extracted anything usable. It differs
	// from an explicit "don't know", which is an Unknown value that parsed fine.
	Unparseable bool
}

// Answer converts the interpretation into a ledger answer.
func (i Interpretation) Answer() requirement.Answer {
	return requirement.NewAnswer(i.Value, i.Confidence)
}

// Bulk is the set of attributes extracted from a free-form message.
type Bulk struct {
	Attributes map[requirement.Attribute]Interpretation
	Failed     bool
}

func newBulk() Bulk {
	return Bulk{Attributes: map[requirement.Attribute]Interpretation{}}
}

func (b Bulk) set(attr requirement.Attribute, v requirement.Value, confidence float64, reasoning string, source Source) {
	b.Attributes[attr] = Interpretation{Value: v, Confidence: confidence, Reasoning: reasoning, Source: source}
}

func (b Bulk) has(attr requirement.Attribute) bool {
	_, ok := b.Attributes[attr]
	return ok
}

// Interpreter turns user text into attribute values. Implementations must be
// safe for concurrent use.
type Interpreter interface {
	// Interpret parses a reply to question q. failures is the number of
	// consecutive failed interpretations so far in the session.
	Interpret(ctx context.Context, text string, q catalog.Question, failures int) (Interpretation, error)
	// InterpretBulk extracts every attribute it can from an opening message.
	InterpretBulk(ctx context.Context, text string, failures int) (Bulk, error)
}
