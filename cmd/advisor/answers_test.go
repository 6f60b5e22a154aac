package main

import (
	"testing"

	"connector-selector/pkg/requirement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswerFlag(t *testing.T) {
	tests := []struct {
		name string
		in   string
		attr requirement.Attribute
		raw  string
		conf float64
	}{
		{"canonical name", "pitch_size=2", requirement.PitchSize, "2", 1},
		{"alias", "housing=metal", requirement.HousingMaterial, "metal", 1},
		{"confidence", "awg=24:0.6", requirement.WireGauge, "24", 0.6},
		{"value with spaces", "connection= pcb to cable ", requirement.ConnectionTypes, "pcb to cable", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnswerFlag(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.attr, got.Attribute)
			assert.True(t, requirement.Text(tt.raw).Equal(got.Raw), "raw = %s", got.Raw)
			assert.InDelta(t, tt.conf, got.Confidence, 1e-9)
		})
	}
}

func TestParseAnswerFlagErrors(t *testing.T) {
	for _, in := range []string{"pitch", "colour=red", "pitch=", "pitch=2:high", "pitch=2:1.5"} {
		_, err := parseAnswerFlag(in)
		assert.Error(t, err, in)
	}
	_, err := parseAnswerFlag("colour=red")
	assert.ErrorIs(t, err, requirement.ErrUnknownAttribute)
}
