package dto

type BeginSessionResponse struct {
	SessionId string `json:"session_id"`
}

type OpeningMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type AnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=2000"`
}

type QuestionResponse struct {
	Attribute     string `json:"attribute"`
	Prompt        string `json:"prompt"`
	Clarification string `json:"clarification,omitempty"`
	Order         int    `json:"order"`
}

type CaveatResponse struct {
	Attribute string `json:"attribute"`
	Message   string `json:"message"`
}

// OutcomeResponse is one conversational turn. Kind is continue, commit or
// escalate; only the fields of that kind are set.
type OutcomeResponse struct {
	Kind            string             `json:"kind"`
	Question        *QuestionResponse  `json:"question,omitempty"`
	CandidateId     string             `json:"candidate_id,omitempty"`
	Score           float64            `json:"score,omitempty"`
	Caveats         []CaveatResponse   `json:"caveats,omitempty"`
	ConfiguratorUrl string             `json:"configurator_url,omitempty"`
	Reason          string             `json:"reason,omitempty"`
	ContactUrl      string             `json:"contact_url,omitempty"`
	Scores          map[string]float64 `json:"scores"`
	Restarted       bool               `json:"restarted,omitempty"`
}

type AnswerResponse struct {
	Attribute  string      `json:"attribute"`
	Value      interface{} `json:"value"`
	Confidence float64     `json:"confidence"`
}

type CandidateResponse struct {
	Id               string  `json:"id"`
	Family           string  `json:"family"`
	PitchSize        float64 `json:"pitch_size"`
	HousingMaterial  string  `json:"housing_material"`
	Location         string  `json:"location"`
	EMIProtection    bool    `json:"emi_protection"`
	MixedPowerSignal bool    `json:"mixed_power_signal"`
	RightAngle       bool    `json:"right_angle"`
	MaxPins          int     `json:"max_pins"`
	MaxCurrent       float64 `json:"max_current"`
	ConfiguratorUrl  string  `json:"configurator_url,omitempty"`
}
