package catalog

import (
	"sort"

	"connector-selector/pkg/requirement"
)

// Implied is the answer recorded automatically when a question stops applying.
type Implied struct {
	Value      string  `yaml:"value"`
	Confidence float64 `yaml:"confidence" validate:"gte=0,lte=1"`
}

// Question asks the user for one attribute.
type Question struct {
	AttributeName    string   `yaml:"attribute" validate:"required"`
	Prompt           string   `yaml:"prompt" validate:"required"`
	Weight           float64  `yaml:"weight" validate:"gte=0,lte=100"`
	Clarification    string   `yaml:"clarification"`
	ParseGuidance    string   `yaml:"parse_guidance"`
	Order            int      `yaml:"order" validate:"gte=0"`
	NotApplicableFor []string `yaml:"not_applicable_for"`
	Implied          *Implied `yaml:"implied"`

	Attribute   requirement.Attribute `yaml:"-"`
	excludedFor map[requirement.ConnectionType]struct{}
}

// Applicable evaluates the applicability predicate against the current answers.
// Questions only become inapplicable through the connection type.
func (q Question) Applicable(answers requirement.Answers) bool {
	if len(q.excludedFor) == 0 {
		return true
	}
	ans, ok := answers.Known(requirement.ConnectionTypes)
	if !ok {
		return true
	}
	text, _ := ans.Value.Text()
	_, excluded := q.excludedFor[requirement.ParseConnectionType(text)]
	return !excluded
}

// QuestionSet is the immutable, validated question catalog.
type QuestionSet struct {
	ordered []Question
	byAttr  map[requirement.Attribute]Question
}

// Ordered returns questions by ascending order, ties broken by attribute name.
func (s *QuestionSet) Ordered() []Question {
	return append([]Question(nil), s.ordered...)
}

// ByAttribute looks up the question for attr.
func (s *QuestionSet) ByAttribute(attr requirement.Attribute) (Question, bool) {
	q, ok := s.byAttr[attr]
	return q, ok
}

// Weight returns the question weight for attr, or zero when no question covers it.
func (s *QuestionSet) Weight(attr requirement.Attribute) float64 {
	return s.byAttr[attr].Weight
}

// First returns the lowest-order question.
func (s *QuestionSet) First() Question {
	return s.ordered[0]
}

func (s *QuestionSet) Len() int { return len(s.ordered) }

func newQuestionSet(questions []Question) *QuestionSet {
	sorted := append([]Question(nil), questions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].Attribute < sorted[j].Attribute
	})
	set := &QuestionSet{ordered: sorted, byAttr: make(map[requirement.Attribute]Question, len(sorted))}
	for _, q := range sorted {
		set.byAttr[q.Attribute] = q
	}
	return set
}
