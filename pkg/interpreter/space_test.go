package interpreter

import (
	"testing"

	"connector-selector/pkg/requirement"

	"github.com/stretchr/testify/assert"
)

func TestParseSpace(t *testing.T) {
	tests := []struct {
		text        string
		want        requirement.Value
		confidence  float64
		unparseable bool
	}{
		{"about 5mm", requirement.Number(5), 0.75, false},
		{"10x20x5 mm", requirement.Number(5), 0.9, false},
		{"It has to fit in 10 × 8 mm", requirement.Number(8), 0.95, false},
		{"between 4 and 8 mm", requirement.Number(6), 0.8, false},
		{"height of 30mm", requirement.Number(30), 0.5, false},
		{"up to 6 millimeters", requirement.Number(6), 0.9, false},
		{"maximum clearance is 7", requirement.Number(7), 0.85, false},
		{"low profile please", requirement.Number(4), 0.6, false},
		{"it is a tall box", requirement.Number(10), 0.6, false},
		{"no idea", requirement.Unknown(), 0, false},
		{"blue", requirement.Unknown(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseSpace(tt.text)
			assert.True(t, tt.want.Equal(got.Value), "got %s", got.Value)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.unparseable, got.Unparseable)
			assert.Equal(t, SourceHeuristic, got.Source)
		})
	}
}
