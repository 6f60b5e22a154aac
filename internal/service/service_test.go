package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditTrailFromBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	audit := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "audit.log"))
	require.NoError(t, NewAuditService(pubSub, EventsTopic, audit).Consume(ctx))

	pub := NewPublisherService(EventsTopic, pubSub)
	require.NoError(t, pub.Publish(ctx, events.New(events.TypeSessionStarted, map[string]interface{}{"session_id": "s-1"})))
	require.NoError(t, pub.Publish(ctx, events.New(events.TypeSessionEscalated, map[string]interface{}{"session_id": "s-1", "reason": "low score"})))
	require.NoError(t, pub.Publish(ctx, events.New(events.TypeSessionStarted, map[string]interface{}{"session_id": "s-2"})))

	assert.Eventually(t, func() bool {
		_ = audit.Sync()
		entries, err := audit.GetSessionLogs("s-1", 10)
		return err == nil && len(entries) == 2
	}, 2*time.Second, 20*time.Millisecond)

	warns, err := audit.GetLogs("WARN", 10, 0)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, events.TypeSessionEscalated, warns[0].Message)
	assert.Equal(t, "low score", warns[0].Details["reason"])
}

func TestPublisherSetsEventType(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(ctx, EventsTopic)
	require.NoError(t, err)

	pub := NewPublisherService(EventsTopic, pubSub)
	go func() {
		assert.NoError(t, pub.Publish(ctx, events.New(events.TypeSessionCommitted, map[string]interface{}{"candidate_id": "DMM"})))
	}()

	var msg *message.Message
	select {
	case msg = <-messages:
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
	msg.Ack()

	assert.Equal(t, events.TypeSessionCommitted, msg.Metadata.Get(metadataEventType))
	e, err := events.Unmarshal(msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, "DMM", e.Data["candidate_id"])
}
