package scoring

import (
	"math"
	"sort"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
)

const (
	// PenaltyMultiplier scales the gap between total and weighted score. Bonus
	// attribute scores above 1.0 shrink the gap and can make it negative.
	PenaltyMultiplier = 1.2
	// BaseFloor bounds the base score from below before factors apply.
	BaseFloor = 10.0
	// MinWeight is the effective weight below which an answer is ignored.
	MinWeight = 0.001

	// EarlyMinScore applies while fewer than EarlyAnswerCount attributes are answered.
	EarlyMinScore    = 20.0
	LateMinScore     = 5.0
	EarlyAnswerCount = 3

	MaterialMatchBonus = 1.1
	MetalExternalBonus = 1.2

	MaxScore = 100.0
)

const module = "SCORING"

// AttributeScore is one line of a candidate's score breakdown.
type AttributeScore struct {
	Attribute requirement.Attribute `json:"attribute"`
	Score     float64               `json:"score"`
	Weight    float64               `json:"weight"`
	Critical  bool                  `json:"critical"`
	Reason    string                `json:"reason,omitempty"`
}

// Result is the outcome of scoring one candidate.
type Result struct {
	CandidateID  string           `json:"candidate_id"`
	Score        float64          `json:"score"`
	Raw          float64          `json:"raw"`
	Disqualified bool             `json:"disqualified"`
	Attributes   []AttributeScore `json:"attributes"`
	Critical     []string         `json:"critical,omitempty"`
}

// Engine scores candidates against answers. It holds no per-session state and
// is safe for concurrent use.
type Engine struct {
	questions *catalog.QuestionSet
	log       logger.ILogger
}

func NewEngine(questions *catalog.QuestionSet, log logger.ILogger) *Engine {
	return &Engine{questions: questions, log: log}
}

// MinScore is the lowest score a non-disqualified candidate can get with the
// given number of answered attributes.
func MinScore(answered int) float64 {
	if answered < EarlyAnswerCount {
		return EarlyMinScore
	}
	return LateMinScore
}

// Score rates one candidate. It is a pure function of its inputs.
func (e *Engine) Score(c catalog.Candidate, answers requirement.Answers) Result {
	res := Result{CandidateID: c.ID}
	floor := MinScore(len(answers))

	var (
		total, weighted float64
		severe          = map[mismatch]bool{}
	)
	for _, attr := range sortedAttributes(answers) {
		ans := answers[attr]
		if ans.Value.IsUnknown() {
			continue
		}
		ew := e.questions.Weight(attr) * ans.Confidence
		if ew < MinWeight {
			continue
		}
		r, ok := evaluate(c, attr, ans.Value)
		if !ok {
			continue
		}

		total += ew
		weighted += ew * r.score

		res.Attributes = append(res.Attributes, AttributeScore{
			Attribute: attr,
			Score:     r.score,
			Weight:    ew,
			Critical:  r.critical,
			Reason:    r.reason,
		})
		if r.critical {
			res.Critical = append(res.Critical, r.reason)
			severe[r.severe] = true
		}
	}

	if total < MinWeight {
		res.Score = floor
		return res
	}
	res.Raw = MaxScore * weighted / total

	score := math.Max(BaseFloor, MaxScore-(total-weighted)*PenaltyMultiplier)

	factor, disqualified := consistency(c, answers)
	if disqualified {
		res.Disqualified = true
		res.Score = 0
		e.log.Debug(module, "Candidate disqualified", map[string]interface{}{
			"candidate": c.ID,
			"reason":    "housing material inconsistent with location",
		})
		return res
	}
	score *= factor

	if n := len(res.Critical); n > 0 {
		f := math.Max(0.5, 0.8-0.03*float64(n))
		if severe[mismatchMixedPower] {
			f *= 0.5
		}
		if severe[mismatchMetalHousing] {
			f *= 0.5
		}
		score *= f
	}

	res.Score = clamp(score, floor, MaxScore)
	return res
}

// consistency checks the housing answer against the candidate once both
// housing and location are known. A metal requirement on a plastic candidate
// disqualifies. An exact match earns a multiplier, the larger one for metal
// housing on an external mount.
func consistency(c catalog.Candidate, answers requirement.Answers) (float64, bool) {
	housing, ok := answers.Known(requirement.HousingMaterial)
	if !ok {
		return 1, false
	}
	location, ok := answers.Known(requirement.Location)
	if !ok {
		return 1, false
	}
	text, _ := housing.Value.Text()
	want := requirement.ParseMaterial(text)
	text, _ = location.Value.Text()
	where := requirement.ParseLocation(text)
	if want == requirement.MaterialUnknown || where == requirement.LocationUnknown {
		return 1, false
	}

	have := c.Material()
	switch {
	case want == requirement.MaterialMetal && have != requirement.MaterialMetal:
		return 0, true
	case want != have:
		return 1, false
	case have == requirement.MaterialMetal && where == requirement.LocationExternal:
		return MetalExternalBonus, false
	}
	return MaterialMatchBonus, false
}

func sortedAttributes(answers requirement.Answers) []requirement.Attribute {
	attrs := make([]requirement.Attribute, 0, len(answers))
	for a := range answers {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i] < attrs[j] })
	return attrs
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
