package decision

import (
	"fmt"

	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
	"connector-selector/pkg/scoring"
)

// Stage is the conversational moment a decision is taken at.
type Stage string

const (
	StageOpening Stage = "opening"
	StageAnswer  Stage = "answer"
)

// Policy holds the thresholds of the commit and escalate rules.
type Policy struct {
	OpeningCommitScore float64 `validate:"gte=0,lte=100"`
	OpeningCommitGap   float64 `validate:"gte=0,lte=100"`
	AnswerCommitScore  float64 `validate:"gte=0,lte=100"`
	AnswerCommitGap    float64 `validate:"gte=0,lte=100"`
	CriticalConfidence float64 `validate:"gte=0,lte=1"`
	MinAnswered        int     `validate:"gte=0"`

	EscalateScore     float64 `validate:"gte=0,lte=100"`
	SoftMismatchLimit int     `validate:"gte=0"`
	SoftMismatchScore float64 `validate:"gte=0,lte=100"`

	ContactURL string `validate:"omitempty,url"`
}

func DefaultPolicy() Policy {
	return Policy{
		OpeningCommitScore: 57,
		OpeningCommitGap:   25,
		AnswerCommitScore:  75,
		AnswerCommitGap:    15,
		CriticalConfidence: 0.7,
		MinAnswered:        3,
		EscalateScore:      22,
		SoftMismatchLimit:  3,
		SoftMismatchScore:  35,
		ContactURL:         "https://www.nicomatic.com/contact/",
	}
}

// View is the read-only part of a ledger the policy needs.
type View interface {
	Answers() requirement.Answers
	IsAsked(attr requirement.Attribute) bool
	AnsweredCount() int
}

// Input gathers everything one decision depends on. NextErr is the error the
// selector returned; any error means the questions are exhausted.
type Input struct {
	Stage   Stage
	Catalog *catalog.Catalog
	Board   scoring.Board
	Ledger  View
	Next    catalog.Question
	NextErr error
}

// Evaluate decides whether to keep asking, commit to the leader or hand the
// user over to a human.
func (p Policy) Evaluate(in Input) Outcome {
	scores := in.Board.Scores()
	leader, gap, ok := in.Board.Leader()
	if !ok {
		return Outcome{Kind: KindEscalate, Reason: "No candidates available", ContactURL: p.ContactURL, Scores: scores}
	}

	exhausted := in.NextErr != nil
	if !exhausted && !p.earlyCommit(in.Stage, leader.Score, gap, in.Ledger) {
		return Continue(in.Next, scores)
	}

	candidate, _ := in.Catalog.Lookup(leader.CandidateID)
	answers := in.Ledger.Answers()
	caveats := scoring.Caveats(candidate, answers)

	if reason, escalate := p.escalation(leader.Score, len(caveats)); escalate {
		return Outcome{Kind: KindEscalate, Reason: reason, ContactURL: p.ContactURL, Scores: scores}
	}
	return Outcome{
		Kind:            KindCommit,
		CandidateID:     leader.CandidateID,
		Score:           leader.Score,
		Caveats:         caveats,
		ConfiguratorURL: candidate.ConfiguratorURL,
		Scores:          scores,
	}
}

func (p Policy) earlyCommit(stage Stage, score, gap float64, view View) bool {
	if view.AnsweredCount() < p.MinAnswered {
		return false
	}
	switch stage {
	case StageOpening:
		if score < p.OpeningCommitScore || gap <= p.OpeningCommitGap {
			return false
		}
		answers := view.Answers()
		for _, attr := range requirement.Critical {
			ans, ok := answers.Known(attr)
			if !ok || ans.Confidence < p.CriticalConfidence {
				return false
			}
		}
		return true
	case StageAnswer:
		if score < p.AnswerCommitScore || gap <= p.AnswerCommitGap {
			return false
		}
		for _, attr := range requirement.Critical {
			if !view.IsAsked(attr) {
				return false
			}
		}
		return true
	}
	return false
}

func (p Policy) escalation(score float64, caveats int) (string, bool) {
	if score < p.EscalateScore {
		return fmt.Sprintf("Best match scores only %.0f%%", score), true
	}
	if caveats > p.SoftMismatchLimit && score < p.SoftMismatchScore {
		return fmt.Sprintf("Best match has %d unconfirmed requirements", caveats), true
	}
	return "", false
}
