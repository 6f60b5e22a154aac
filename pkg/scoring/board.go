package scoring

import (
	"math"
	"sort"

	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"
)

// Board holds one result per candidate, in catalog order.
type Board struct {
	Results []Result `json:"results"`
}

// ScoreAll scores every candidate of the catalog.
func (e *Engine) ScoreAll(cat *catalog.Catalog, answers requirement.Answers) Board {
	candidates := cat.Candidates()
	board := Board{Results: make([]Result, 0, len(candidates))}
	for _, c := range candidates {
		board.Results = append(board.Results, e.Score(c, answers))
	}
	e.log.Debug(module, "Scored candidates", map[string]interface{}{
		"answers": len(answers),
		"scores":  board.Scores(),
	})
	return board
}

// Ranked returns the results ordered by score, then raw match ratio, then
// catalog position. The board itself is left untouched.
func (b Board) Ranked() []Result {
	ranked := append([]Result(nil), b.Results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Raw > ranked[j].Raw
	})
	return ranked
}

// Leader returns the best ranked result and the gap to the runner-up. With a
// single candidate the gap is the leader's own score.
func (b Board) Leader() (Result, float64, bool) {
	ranked := b.Ranked()
	if len(ranked) == 0 {
		return Result{}, 0, false
	}
	if len(ranked) == 1 {
		return ranked[0], ranked[0].Score, true
	}
	return ranked[0], ranked[0].Score - ranked[1].Score, true
}

// Scores maps candidate ids to final scores.
func (b Board) Scores() map[string]float64 {
	out := make(map[string]float64, len(b.Results))
	for _, r := range b.Results {
		out[r.CandidateID] = r.Score
	}
	return out
}

// Boost adds bonus points to the named candidates, capped at MaxScore.
// Disqualified candidates stay at zero.
func (b Board) Boost(ids []string, bonus float64) Board {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := Board{Results: append([]Result(nil), b.Results...)}
	for i, r := range out.Results {
		if _, ok := want[r.CandidateID]; !ok || r.Disqualified {
			continue
		}
		out.Results[i].Score = math.Min(MaxScore, r.Score+bonus)
	}
	return out
}
