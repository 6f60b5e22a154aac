package interpreter

import (
	"context"
	"testing"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/requirement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInterpreter struct {
	interp Interpretation
	bulk   Bulk
	err    error
}

func (s stubInterpreter) Interpret(context.Context, string, catalog.Question, int) (Interpretation, error) {
	return s.interp, s.err
}

func (s stubInterpreter) InterpretBulk(context.Context, string, int) (Bulk, error) {
	return s.bulk, s.err
}

func TestResilientFallsBackOnError(t *testing.T) {
	r := NewResilient(stubInterpreter{err: ErrInterpreterTimeout}, logger.NewNopLogger())

	got, err := r.Interpret(context.Background(), "34 pins", question(requirement.PinCount), 0)
	require.NoError(t, err)
	assert.True(t, got.Failed)
	assert.Equal(t, SourceHeuristic, got.Source)
	assert.True(t, requirement.Number(34).Equal(got.Value))

	// The failed primary attempt counts toward the aggressive threshold.
	got, err = r.Interpret(context.Background(), "hmm", question(requirement.PinCount), AggressiveAfter)
	require.NoError(t, err)
	assert.Equal(t, SourceAggressive, got.Source)
}

func TestResilientPassesPrimaryThrough(t *testing.T) {
	want := Interpretation{Value: requirement.Number(1.27), Confidence: 0.9, Source: SourceLLM}
	r := NewResilient(stubInterpreter{interp: want}, logger.NewNopLogger())

	got, err := r.Interpret(context.Background(), "1.27", question(requirement.PitchSize), 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResilientWithoutPrimary(t *testing.T) {
	r := NewResilient(nil, logger.NewNopLogger())

	got, err := r.Interpret(context.Background(), "metal", question(requirement.HousingMaterial), 0)
	require.NoError(t, err)
	assert.False(t, got.Failed)
	assert.True(t, requirement.Text("metal").Equal(got.Value))

	b, err := r.InterpretBulk(context.Background(), "20 pins", 0)
	require.NoError(t, err)
	assert.False(t, b.Failed)
	assert.True(t, requirement.Number(20).Equal(b.Attributes[requirement.PinCount].Value))
}

func TestResilientBulkFallback(t *testing.T) {
	r := NewResilient(stubInterpreter{err: ErrInterpreterMalformedOutput}, logger.NewNopLogger())

	b, err := r.InterpretBulk(context.Background(), "2mm pitch, 50 pins", 0)
	require.NoError(t, err)
	assert.True(t, b.Failed)
	assert.Len(t, b.Attributes, 2)
}

func TestResilientBulkPostProcess(t *testing.T) {
	primary := newBulk()
	primary.set(requirement.WireGauge, requirement.Number(26), 0.9, "", SourceLLM)
	primary.set(requirement.ConnectionTypes, requirement.Text("PCB-to-PCB"), 0.9, "", SourceLLM)
	r := NewResilient(stubInterpreter{bulk: primary}, logger.NewNopLogger())

	b, err := r.InterpretBulk(context.Background(), "AWG 26 conductors", 0)
	require.NoError(t, err)
	conn := b.Attributes[requirement.ConnectionTypes]
	assert.True(t, requirement.Text("PCB-to-Cable").Equal(conn.Value))
	assert.Equal(t, 0.9, conn.Confidence)
}

func TestResilientBulkStraightPCBSide(t *testing.T) {
	primary := newBulk()
	primary.set(requirement.RightAngle, requirement.Bool(true), 0.6, "", SourceLLM)
	r := NewResilient(stubInterpreter{bulk: primary}, logger.NewNopLogger())

	b, err := r.InterpretBulk(context.Background(), "Straight on the PCB side and AWG 28 on the other", 0)
	require.NoError(t, err)

	assert.True(t, requirement.Bool(false).Equal(b.Attributes[requirement.RightAngle].Value))
	assert.True(t, requirement.Number(28).Equal(b.Attributes[requirement.WireGauge].Value))
	conn := b.Attributes[requirement.ConnectionTypes]
	assert.True(t, requirement.Text("PCB-to-Cable").Equal(conn.Value))
	assert.Equal(t, 0.99, conn.Confidence)
}
