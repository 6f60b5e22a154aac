package interpreter

import (
	"context"
	"testing"

	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(attr requirement.Attribute) catalog.Question {
	return catalog.Question{Attribute: attr, Prompt: "?"}
}

func TestParseBulkOpeningMessage(t *testing.T) {
	b := ParseBulk("I need a 2mm pitch connector with 20 pins, metal housing for external panel mount, EMI shielding required")

	want := map[requirement.Attribute]requirement.Value{
		requirement.PitchSize:       requirement.Number(2),
		requirement.PinCount:        requirement.Number(20),
		requirement.Location:        requirement.Text("external"),
		requirement.EMIProtection:   requirement.Bool(true),
		requirement.HousingMaterial: requirement.Text("metal"),
	}
	require.Len(t, b.Attributes, len(want))
	for attr, v := range want {
		got, ok := b.Attributes[attr]
		require.True(t, ok, attr)
		assert.True(t, v.Equal(got.Value), "%s: got %s", attr, got.Value)
		assert.Equal(t, SourceHeuristic, got.Source)
	}
	assert.Equal(t, 0.95, b.Attributes[requirement.HousingMaterial].Confidence)
}

func TestParseBulkGaugeImpliesCable(t *testing.T) {
	b := ParseBulk("straight on PCB side, AWG26 wires on the other side")

	gauge := b.Attributes[requirement.WireGauge]
	assert.True(t, requirement.Number(26).Equal(gauge.Value))

	conn := b.Attributes[requirement.ConnectionTypes]
	assert.True(t, requirement.Text("PCB-to-Cable").Equal(conn.Value))
	assert.Equal(t, 0.95, conn.Confidence)

	angle := b.Attributes[requirement.RightAngle]
	assert.True(t, requirement.Bool(false).Equal(angle.Value))
}

func TestParseBulkSkipsAngleAsTemperature(t *testing.T) {
	b := ParseBulk("90 degree connector rated for 125c")

	temp, ok := b.Attributes[requirement.TempRange]
	require.True(t, ok)
	assert.True(t, requirement.Number(125).Equal(temp.Value))
	angle := b.Attributes[requirement.RightAngle]
	assert.True(t, requirement.Bool(true).Equal(angle.Value))
}

func TestParseBulkMaterialPreference(t *testing.T) {
	b := ParseBulk("I would prefer a non-metal housing")
	got := b.Attributes[requirement.HousingMaterial]
	assert.True(t, requirement.Text("plastic").Equal(got.Value))
	assert.Equal(t, 0.85, got.Confidence)
}

func TestParseBulkNothing(t *testing.T) {
	assert.Empty(t, ParseBulk("hello there").Attributes)
}

func TestSimpleParse(t *testing.T) {
	tests := []struct {
		name        string
		attr        requirement.Attribute
		text        string
		want        requirement.Value
		confidence  float64
		unparseable bool
	}{
		{"standard pitch", requirement.PitchSize, "about 1.27 mm", requirement.Number(1.27), 0.8, false},
		{"non standard pitch", requirement.PitchSize, "2.54mm", requirement.Text("2.54mm"), 0.4, true},
		{"pins", requirement.PinCount, "I need 34 pins", requirement.Number(34), 0.7, false},
		{"not metal", requirement.HousingMaterial, "no, not metal", requirement.Text("plastic"), 0.8, false},
		{"metal", requirement.HousingMaterial, "Metal please", requirement.Text("metal"), 0.8, false},
		{"shielding implies metal", requirement.HousingMaterial, "we need shielding", requirement.Text("metal"), 0.7, false},
		{"mixed yes", requirement.MixedPowerSignal, "Yes", requirement.Bool(true), 0.7, false},
		{"emi no", requirement.EMIProtection, "no", requirement.Bool(false), 0.7, false},
		{"uncertain", requirement.PinCount, "I don't know", requirement.Unknown(), 0, false},
		{"straight", requirement.RightAngle, "straight please", requirement.Bool(false), 0.7, false},
		{"right angle", requirement.RightAngle, "a right-angle one", requirement.Bool(true), 0.7, false},
		{"bare gauge", requirement.WireGauge, "26", requirement.Number(26), 0.6, false},
		{"awg", requirement.WireGauge, "AWG 24", requirement.Number(24), 0.7, false},
		{"inside", requirement.Location, "inside the enclosure", requirement.Text("internal"), 0.7, false},
		{"connection", requirement.ConnectionTypes, "board to board", requirement.Text("PCB-to-PCB"), 0.7, false},
		{"current", requirement.MaxCurrent, "around 3.5", requirement.Number(3.5), 0.6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimpleParse(tt.text, question(tt.attr))
			assert.True(t, tt.want.Equal(got.Value), "got %s", got.Value)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.unparseable, got.Unparseable)
			assert.Equal(t, SourceHeuristic, got.Source)
		})
	}
}

func TestAggressiveParse(t *testing.T) {
	tests := []struct {
		name        string
		attr        requirement.Attribute
		text        string
		want        requirement.Value
		confidence  float64
		unparseable bool
	}{
		{"closest pitch", requirement.PitchSize, "roughly 2.5mm", requirement.Number(2), 0.6, false},
		{"aluminium", requirement.HousingMaterial, "aluminium is fine", requirement.Text("metal"), 0.95, false},
		{"defaults to plastic", requirement.HousingMaterial, "whatever", requirement.Text("plastic"), 0.95, false},
		{"temperature", requirement.TempRange, "85c", requirement.Number(85), 0.6, false},
		{"pin default", requirement.PinCount, "hmm", requirement.Number(20), 0.3, false},
		{"no default", requirement.EMIProtection, "hmm", requirement.Unknown(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggressiveParse(tt.text, question(tt.attr))
			assert.True(t, tt.want.Equal(got.Value), "got %s", got.Value)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.unparseable, got.Unparseable)
			assert.Equal(t, SourceAggressive, got.Source)
		})
	}
}

func TestHeuristicEscalatesAfterFailures(t *testing.T) {
	var h Heuristic
	ctx := context.Background()

	got, err := h.Interpret(ctx, "hmm", question(requirement.PinCount), AggressiveAfter)
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, got.Source)
	assert.True(t, got.Unparseable)

	got, err = h.Interpret(ctx, "hmm", question(requirement.PinCount), AggressiveAfter+1)
	require.NoError(t, err)
	assert.Equal(t, SourceAggressive, got.Source)
	assert.True(t, requirement.Number(20).Equal(got.Value))

	got, err = h.Interpret(ctx, "5mm", question(requirement.HeightRequirement), AggressiveAfter+1)
	require.NoError(t, err)
	assert.True(t, requirement.Number(5).Equal(got.Value))
}
