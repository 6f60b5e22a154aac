package mapper

import (
	"sort"

	"connector-selector/internal/dto"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/decision"
	"connector-selector/pkg/requirement"
)

type AdvisorMapper struct{}

func NewAdvisorMapper() *AdvisorMapper {
	return &AdvisorMapper{}
}

func (m *AdvisorMapper) ToOutcomeResponse(o decision.Outcome) *dto.OutcomeResponse {
	res := &dto.OutcomeResponse{
		Kind:            string(o.Kind),
		CandidateId:     o.CandidateID,
		Score:           o.Score,
		ConfiguratorUrl: o.ConfiguratorURL,
		Reason:          o.Reason,
		ContactUrl:      o.ContactURL,
		Scores:          o.Scores,
		Restarted:       o.Restarted,
	}
	if o.Question != nil {
		res.Question = &dto.QuestionResponse{
			Attribute:     string(o.Question.Attribute),
			Prompt:        o.Question.Prompt,
			Clarification: o.Clarification,
			Order:         o.Question.Order,
		}
	}
	for _, c := range o.Caveats {
		res.Caveats = append(res.Caveats, dto.CaveatResponse{
			Attribute: string(c.Attribute),
			Message:   c.Message,
		})
	}
	return res
}

// ToAnswerResponses lists answers sorted by attribute name.
func (m *AdvisorMapper) ToAnswerResponses(answers requirement.Answers) []dto.AnswerResponse {
	res := make([]dto.AnswerResponse, 0, len(answers))
	for attr, a := range answers {
		res = append(res, dto.AnswerResponse{
			Attribute:  string(attr),
			Value:      a.Value.Interface(),
			Confidence: a.Confidence,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Attribute < res[j].Attribute })
	return res
}

func (m *AdvisorMapper) ToCandidateResponse(c catalog.Candidate) dto.CandidateResponse {
	return dto.CandidateResponse{
		Id:               c.ID,
		Family:           c.Family,
		PitchSize:        c.PitchSize,
		HousingMaterial:  c.HousingMaterial,
		Location:         c.Location,
		EMIProtection:    c.EMIProtection,
		MixedPowerSignal: c.MixedPowerSignal,
		RightAngle:       c.RightAngle,
		MaxPins:          c.MaxPins,
		MaxCurrent:       c.MaxCurrent,
		ConfiguratorUrl:  c.ConfiguratorURL,
	}
}
