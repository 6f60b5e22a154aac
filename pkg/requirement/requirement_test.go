package requirement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Attribute
		wantErr bool
	}{
		{"canonical", "pitch_size", PitchSize, false},
		{"alias", "connection_type", ConnectionTypes, false},
		{"padded upper", "  Housing_Material ", HousingMaterial, false},
		{"unknown", "colour", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAttribute(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownAttribute))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMaterial(t *testing.T) {
	tests := []struct {
		input string
		want  Material
	}{
		{"metal", MaterialMetal},
		{"Aluminum", MaterialMetal},
		{"stainless steel housing", MaterialMetal},
		{"ＭＥＴＡＬＬＩＣ", MaterialMetal},
		{"plastic", MaterialPlastic},
		{"LCP", MaterialPlastic},
		{"wood", MaterialUnknown},
		{"", MaterialUnknown},
		{"non-metal", MaterialPlastic},
		{"nonmetallic", MaterialPlastic},
		{"not metal", MaterialPlastic},
		{"no metal housing", MaterialPlastic},
		{"metal-free", MaterialPlastic},
		{"without steel", MaterialPlastic},
		{"not plastic", MaterialUnknown},
		{"no", MaterialUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMaterial(tt.input))
		})
	}
}

func TestParseLocationAndConnection(t *testing.T) {
	assert.Equal(t, LocationInternal, ParseLocation("Inside the box"))
	assert.Equal(t, LocationExternal, ParseLocation("panel"))
	assert.Equal(t, LocationUnknown, ParseLocation("somewhere"))

	assert.Equal(t, ConnectionPCBToPCB, ParseConnectionType("board-to-board"))
	assert.Equal(t, ConnectionPCBToCable, ParseConnectionType("PCB_to_Cable"))
	assert.Equal(t, ConnectionCableToPCB, ParseConnectionType("Cable-to-PCB"))
	assert.Equal(t, ConnectionUnknown, ParseConnectionType("wireless"))
	assert.True(t, ConnectionPCBToCable.InvolvesCable())
	assert.False(t, ConnectionPCBToPCB.InvolvesCable())
}

func TestParseGauge(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"AWG26", 26, true},
		{"awg 24", 24, true},
		{"28 AWG", 28, true},
		{"22.0", 22, true},
		{"thin", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseGauge(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseGauge(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValueVariants(t *testing.T) {
	assert.True(t, Unknown().IsUnknown())
	assert.True(t, Value{}.Equal(Unknown()))

	n, ok := Number(2).Number()
	assert.True(t, ok)
	assert.Equal(t, 2.0, n)

	_, ok = Text("metal").Number()
	assert.False(t, ok)

	s := Set(26, 24, 26)
	items, ok := s.Set()
	require.True(t, ok)
	assert.Equal(t, []float64{24, 26}, items)
	assert.Equal(t, "{24,26}", s.String())

	lo, hi, ok := Range(8, 3).Range()
	require.True(t, ok)
	assert.Equal(t, 3.0, lo)
	assert.Equal(t, 8.0, hi)

	assert.True(t, Set().IsUnknown())
	assert.False(t, Number(1).Equal(Bool(true)))
}

func TestNewAnswerClampsConfidence(t *testing.T) {
	assert.Equal(t, 1.0, NewAnswer(Number(2), 1.7).Confidence)
	assert.Equal(t, 0.0, NewAnswer(Number(2), -0.2).Confidence)
	assert.Equal(t, 0.0, NewAnswer(Unknown(), 0.9).Confidence)
}

func TestParseBoolWord(t *testing.T) {
	v, ok := ParseBoolWord("Yes!")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = ParseBoolWord("nope")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = ParseBoolWord("maybe")
	assert.False(t, ok)
}
