package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	seen []string
	err  error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.seen = append(r.seen, e.EventType())
	return r.err
}

func TestEnvelopeRoundTrip(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := BaseEvent{Type: TypeSessionCommitted, Data: map[string]interface{}{"candidate_id": "CMM", "score": 87.5}, OccurredAt: at}

	raw, err := Marshal(in)
	require.NoError(t, err)
	out, err := Unmarshal(raw)
	require.NoError(t, err)

	assert.Equal(t, TypeSessionCommitted, out.Type)
	assert.Equal(t, "CMM", out.Data["candidate_id"])
	assert.Equal(t, 87.5, out.Data["score"])
	assert.True(t, at.Equal(out.OccurredAt))
}

func TestUnmarshalRejectsMissingType(t *testing.T) {
	_, err := Unmarshal([]byte(`{"data":{}}`))
	assert.Error(t, err)
	_, err = Unmarshal([]byte(`nope`))
	assert.Error(t, err)
}

func TestMultiAndFilter(t *testing.T) {
	all := &recorder{}
	failing := &recorder{err: errors.New("bus down")}
	escalations := &recorder{}

	pub := Multi{all, failing, nil, Filter{Next: escalations, Types: []string{TypeSessionEscalated}}}

	ctx := context.Background()
	assert.Error(t, pub.Publish(ctx, New(TypeSessionStarted, nil)))
	assert.Error(t, pub.Publish(ctx, New(TypeSessionEscalated, nil)))

	assert.Equal(t, []string{TypeSessionStarted, TypeSessionEscalated}, all.seen)
	assert.Equal(t, []string{TypeSessionStarted, TypeSessionEscalated}, failing.seen)
	assert.Equal(t, []string{TypeSessionEscalated}, escalations.seen)
	assert.NoError(t, Nop.Publish(ctx, New(TypeSessionStarted, nil)))
}
