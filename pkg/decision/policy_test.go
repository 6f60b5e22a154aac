package decision

import (
	"testing"

	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
	"connector-selector/pkg/scoring"
	"connector-selector/pkg/selector"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	answers requirement.Answers
	asked   map[requirement.Attribute]bool
}

func (v fakeView) Answers() requirement.Answers { return v.answers }

func (v fakeView) IsAsked(attr requirement.Attribute) bool { return v.asked[attr] }

func (v fakeView) AnsweredCount() int { return len(v.answers) }

func view(critConf float64, extra int) fakeView {
	v := fakeView{answers: requirement.Answers{}, asked: map[requirement.Attribute]bool{}}
	for _, attr := range requirement.Critical {
		v.answers[attr] = requirement.NewAnswer(requirement.Bool(true), critConf)
		v.asked[attr] = true
	}
	fill := []requirement.Attribute{requirement.PitchSize, requirement.PinCount, requirement.TempRange}
	for _, attr := range fill[:extra] {
		v.answers[attr] = requirement.NewAnswer(requirement.Number(1), 0.9)
		v.asked[attr] = true
	}
	return v
}

func board(scores ...float64) scoring.Board {
	ids := []string{"AMM", "CMM", "DMM", "EMM"}
	var b scoring.Board
	for i, s := range scores {
		b.Results = append(b.Results, scoring.Result{CandidateID: ids[i], Score: s})
	}
	return b
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func TestEvaluate(t *testing.T) {
	cat := defaultCatalog(t)
	next := catalog.Question{Attribute: requirement.PinCount, Clarification: "How many contacts?"}

	tests := []struct {
		name    string
		stage   Stage
		board   scoring.Board
		view    fakeView
		nextErr error
		want    Kind
		id      string
	}{
		{"opening commit", StageOpening, board(20, 90, 60, 20), view(0.9, 1), nil, KindCommit, "CMM"},
		{"opening gap too small", StageOpening, board(20, 80, 60, 20), view(0.9, 1), nil, KindContinue, ""},
		{"opening weak critical", StageOpening, board(20, 90, 20, 20), view(0.6, 1), nil, KindContinue, ""},
		{"opening too few answers", StageOpening, board(20, 90, 20, 20), view(0.9, 0), nil, KindContinue, ""},
		{"answer commit", StageAnswer, board(20, 80, 60, 20), view(0.3, 1), nil, KindCommit, "CMM"},
		{"answer below score", StageAnswer, board(20, 74, 20, 20), view(0.9, 1), nil, KindContinue, ""},
		{"answer gap boundary", StageAnswer, board(20, 80, 65, 20), view(0.9, 1), nil, KindContinue, ""},
		{"exhausted commits", StageAnswer, board(20, 40, 38, 20), view(0.9, 1), selector.ErrNoEligibleQuestion, KindCommit, "CMM"},
		{"exhausted low escalates", StageAnswer, board(20, 21, 20, 20), view(0.9, 1), selector.ErrNoEligibleQuestion, KindEscalate, ""},
		{"tie keeps catalog order", StageAnswer, board(50, 50, 50, 50), view(0.9, 1), selector.ErrNoEligibleQuestion, KindCommit, "AMM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DefaultPolicy().Evaluate(Input{
				Stage:   tt.stage,
				Catalog: cat,
				Board:   tt.board,
				Ledger:  tt.view,
				Next:    next,
				NextErr: tt.nextErr,
			})
			assert.Equal(t, tt.want, out.Kind)
			assert.Equal(t, tt.board.Scores(), out.Scores)
			switch out.Kind {
			case KindCommit:
				assert.Equal(t, tt.id, out.CandidateID)
				c, _ := cat.Lookup(tt.id)
				assert.Equal(t, c.ConfiguratorURL, out.ConfiguratorURL)
			case KindContinue:
				require.NotNil(t, out.Question)
				assert.Equal(t, requirement.PinCount, out.Question.Attribute)
				assert.Equal(t, "How many contacts?", out.Clarification)
			case KindEscalate:
				assert.NotEmpty(t, out.Reason)
				assert.NotEmpty(t, out.ContactURL)
			}
		})
	}
}

func TestSingleCandidateGapIsItsScore(t *testing.T) {
	out := DefaultPolicy().Evaluate(Input{
		Stage:   StageAnswer,
		Catalog: defaultCatalog(t),
		Board:   board(80),
		Ledger:  view(0.9, 1),
		Next:    catalog.Question{Attribute: requirement.PinCount},
	})
	assert.Equal(t, KindCommit, out.Kind)
	assert.Equal(t, "AMM", out.CandidateID)
}

func TestManyCaveatsEscalate(t *testing.T) {
	v := fakeView{answers: requirement.Answers{
		requirement.PitchSize:        requirement.NewAnswer(requirement.Number(2.0), 0.9),
		requirement.PinCount:         requirement.NewAnswer(requirement.Number(7), 0.9),
		requirement.MaxCurrent:       requirement.NewAnswer(requirement.Number(10), 0.9),
		requirement.MixedPowerSignal: requirement.NewAnswer(requirement.Bool(true), 0.9),
		requirement.EMIProtection:    requirement.NewAnswer(requirement.Bool(true), 0.9),
	}}
	out := DefaultPolicy().Evaluate(Input{
		Stage:   StageAnswer,
		Catalog: defaultCatalog(t),
		Board:   board(30, 25, 25, 25),
		Ledger:  v,
		NextErr: selector.ErrNoEligibleQuestion,
	})
	assert.Equal(t, KindEscalate, out.Kind)
	assert.Contains(t, out.Reason, "5 unconfirmed")
}

func TestCommitCarriesCaveats(t *testing.T) {
	v := fakeView{answers: requirement.Answers{
		requirement.PitchSize: requirement.NewAnswer(requirement.Number(1.27), 0.9),
	}}
	out := DefaultPolicy().Evaluate(Input{
		Stage:   StageAnswer,
		Catalog: defaultCatalog(t),
		Board:   board(20, 60),
		Ledger:  v,
		NextErr: selector.ErrNoEligibleQuestion,
	})
	require.Equal(t, KindCommit, out.Kind)
	require.Len(t, out.Caveats, 1)
	assert.Equal(t, requirement.PitchSize, out.Caveats[0].Attribute)
	assert.True(t, out.Terminal())
}

func TestDefaultPolicyIsValid(t *testing.T) {
	assert.NoError(t, validator.New().Struct(DefaultPolicy()))

	p := DefaultPolicy()
	p.CriticalConfidence = 1.5
	assert.Error(t, validator.New().Struct(p))
}
