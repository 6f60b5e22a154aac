package service

import (
	"context"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const auditModule = "AUDIT"

type IAuditService interface {
	Consume(ctx context.Context) error
}

// auditService writes every session event on the bus to the audit log.
type auditService struct {
	subscriber message.Subscriber
	topicName  string
	audit      *logger.ZapLogger
}

func NewAuditService(subscriber message.Subscriber, topicName string, audit *logger.ZapLogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		topicName:  topicName,
		audit:      audit,
	}
}

// Consume subscribes and processes messages in the background until ctx is
// cancelled.
func (as *auditService) Consume(ctx context.Context) error {
	messages, err := as.subscriber.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(msg)
		}
	}()

	return nil
}

func (as *auditService) processMessage(msg *message.Message) {
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		as.audit.Error(auditModule, "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Invalid payloads never become valid; ack to avoid redelivery.
		msg.Ack()
		return
	}

	details := make(map[string]interface{}, len(event.Data)+2)
	for k, v := range event.Data {
		details[k] = v
	}
	details["event_type"] = event.Type
	details["occurred_at"] = event.OccurredAt

	audit := as.audit
	if id, ok := event.Data["session_id"].(string); ok {
		audit = audit.With(map[string]interface{}{"session_id": id})
	}
	level := audit.Info
	if event.Type == events.TypeSessionEscalated {
		level = audit.Warn
	}
	level(auditModule, event.Type, details)
	msg.Ack()
}
