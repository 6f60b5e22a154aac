package catalog

import (
	"errors"
	"testing"

	"connector-selector/pkg/requirement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"AMM", "CMM", "DMM", "EMM"}, cat.IDs())

	dmm, ok := cat.Lookup("DMM")
	require.True(t, ok)
	assert.Equal(t, requirement.MaterialMetal, dmm.Material())
	assert.Equal(t, requirement.LocationExternal, dmm.MountLocation())
	assert.True(t, dmm.PanelMount)
	assert.True(t, dmm.SupportsGauge(24))
	assert.Equal(t, 120, dmm.MaxPins)

	amm, ok := cat.Lookup("AMM")
	require.True(t, ok)
	assert.Equal(t, []int{26, 28, 30}, amm.WireGauges())
	assert.False(t, amm.SupportsGauge(24))
	assert.True(t, amm.OffersPinCount(34))
	assert.False(t, amm.OffersPinCount(33))

	_, ok = cat.Lookup("XMM")
	assert.False(t, ok)
	assert.Equal(t, -1, cat.Position("XMM"))
	assert.Equal(t, 2, cat.Position("DMM"))
}

func TestNearestPinCount(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	emm, _ := cat.Lookup("EMM")

	got, dist := emm.NearestPinCount(13)
	assert.Equal(t, 12, got)
	assert.Equal(t, 1, dist)

	got, dist = emm.NearestPinCount(61)
	assert.Equal(t, 60, got)
	assert.Equal(t, 1, dist)
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	_, err := Load([]byte("candidates: []\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCandidateSet))
}

func TestLoadRejectsInconsistentCandidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "max pins mismatch",
			yaml: `
candidates:
  - id: XMM
    family: test
    pitch_size: 1.0
    housing_material: plastic
    height_range: {min: 4, max: 4}
    height_options: [4]
    location: internal
    max_current: 1
    wire_gauges: [AWG26]
    valid_pin_counts: [4, 6]
    max_pins: 10
`,
		},
		{
			name: "inverted range",
			yaml: `
candidates:
  - id: XMM
    family: test
    pitch_size: 1.0
    housing_material: plastic
    height_range: {min: 8, max: 4}
    height_options: [4]
    location: internal
    max_current: 1
    wire_gauges: [AWG26]
    valid_pin_counts: [4]
    max_pins: 4
`,
		},
		{
			name: "unknown material",
			yaml: `
candidates:
  - id: XMM
    family: test
    pitch_size: 1.0
    housing_material: wood
    height_range: {min: 4, max: 4}
    height_options: [4]
    location: internal
    max_current: 1
    wire_gauges: [AWG26]
    valid_pin_counts: [4]
    max_pins: 4
`,
		},
		{
			name: "unknown field",
			yaml: `
candidates:
  - id: XMM
    colour: red
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDefaultQuestions(t *testing.T) {
	qs, err := DefaultQuestions()
	require.NoError(t, err)
	require.Equal(t, 11, qs.Len())

	ordered := qs.Ordered()
	assert.Equal(t, requirement.ConnectionTypes, ordered[0].Attribute)
	assert.Equal(t, requirement.WireGauge, ordered[len(ordered)-1].Attribute)
	for i := 1; i < len(ordered); i++ {
		assert.LessOrEqual(t, ordered[i-1].Order, ordered[i].Order)
	}

	assert.Equal(t, 70.0, qs.Weight(requirement.PitchSize))
	assert.Equal(t, 0.0, qs.Weight(requirement.EMIProtection))
	assert.Equal(t, requirement.ConnectionTypes, qs.First().Attribute)
}

func TestQuestionApplicability(t *testing.T) {
	qs, err := DefaultQuestions()
	require.NoError(t, err)

	wire, ok := qs.ByAttribute(requirement.WireGauge)
	require.True(t, ok)
	require.NotNil(t, wire.Implied)

	boardToBoard := requirement.Answers{
		requirement.ConnectionTypes: requirement.NewAnswer(requirement.Text("PCB-to-PCB"), 0.9),
	}
	toCable := requirement.Answers{
		requirement.ConnectionTypes: requirement.NewAnswer(requirement.Text("PCB-to-Cable"), 0.9),
	}

	assert.False(t, wire.Applicable(boardToBoard))
	assert.True(t, wire.Applicable(toCable))
	assert.True(t, wire.Applicable(requirement.Answers{}))

	pitch, _ := qs.ByAttribute(requirement.PitchSize)
	assert.True(t, pitch.Applicable(boardToBoard))
}

func TestLoadQuestionsRejectsUnknownAttribute(t *testing.T) {
	_, err := LoadQuestions([]byte(`
questions:
  - attribute: colour
    prompt: "Which colour?"
    weight: 10
    order: 1
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, requirement.ErrUnknownAttribute))
}

func TestLoadQuestionsRejectsWeightOutOfRange(t *testing.T) {
	_, err := LoadQuestions([]byte(`
questions:
  - attribute: pitch_size
    prompt: "Pitch?"
    weight: 140
    order: 1
`))
	assert.Error(t, err)
}
