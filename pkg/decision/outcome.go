package decision

import (
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/scoring"
)

// Kind discriminates an Outcome.
type Kind string

const (
	KindContinue Kind = "continue"
	KindCommit   Kind = "commit"
	KindEscalate Kind = "escalate"
)

// Outcome is the result of one conversational turn. Only the fields of its
// Kind are set, apart from Scores and Restarted which every outcome carries.
type Outcome struct {
	Kind Kind `json:"kind"`

	// Continue
	Question      *catalog.Question `json:"question,omitempty"`
	Clarification string            `json:"clarification,omitempty"`

	// Commit
	CandidateID     string           `json:"candidate_id,omitempty"`
	Score           float64          `json:"score,omitempty"`
	Caveats         []scoring.Caveat `json:"caveats,omitempty"`
	ConfiguratorURL string           `json:"configurator_url,omitempty"`

	// Escalate
	Reason     string `json:"reason,omitempty"`
	ContactURL string `json:"contact_url,omitempty"`

	Scores    map[string]float64 `json:"scores"`
	Restarted bool               `json:"restarted,omitempty"`
}

// Continue builds a Continue outcome asking q.
func Continue(q catalog.Question, scores map[string]float64) Outcome {
	return Outcome{
		Kind:          KindContinue,
		Question:      &q,
		Clarification: q.Clarification,
		Scores:        scores,
	}
}

// Terminal reports whether the outcome ends the selection.
func (o Outcome) Terminal() bool {
	return o.Kind == KindCommit || o.Kind == KindEscalate
}
