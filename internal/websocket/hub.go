package websocket

import (
	"context"
	"sync"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

const (
	// AllSessions registers a client for the events of every session.
	AllSessions = "*"

	redisChannel = "connector-selector:events"
	module       = "HUB"
)

// Hub fans session events out to websocket clients. With Redis configured,
// every instance publishes to a shared channel and delivers only what it reads
// back, so a client sees events of sessions served by other instances too.
type Hub struct {
	// Registered clients: session id (or AllSessions) -> clients
	clients map[string][]*Client

	// Lock for safe map access and for sends on client channels
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[string][]*Client),
		rdb:     rdb,
		logger:  log,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
	h.mu.Unlock()
	h.logger.Info(module, "Client registered", map[string]interface{}{"session_id": client.SessionID})
}

// Unregister removes the client and closes its Send channel. Calling it twice
// is harmless.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SessionID]
	for i, c := range clients {
		if c != client {
			continue
		}
		h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
		close(client.Send)
		if len(h.clients[client.SessionID]) == 0 {
			delete(h.clients, client.SessionID)
		}
		h.logger.Info(module, "Client unregistered", map[string]interface{}{"session_id": client.SessionID})
		return
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Consume feeds the hub from the event bus until ctx is cancelled.
func (h *Hub) Consume(ctx context.Context, subscriber message.Subscriber, topic string) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	go func() {
		for msg := range messages {
			h.Publish(ctx, msg.Payload)
			msg.Ack()
		}
	}()
	return nil
}

// Publish delivers an encoded event, through Redis when it is configured.
func (h *Hub) Publish(ctx context.Context, payload []byte) {
	if h.rdb == nil {
		h.deliver(payload)
		return
	}
	if err := h.rdb.Publish(ctx, redisChannel, payload).Err(); err != nil {
		h.logger.Warn(module, "Redis publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
		h.deliver(payload)
	}
}

func (h *Hub) deliver(payload []byte) {
	event, err := events.Unmarshal(payload)
	if err != nil {
		h.logger.Warn(module, "Dropping undecodable event", map[string]interface{}{"error": err.Error()})
		return
	}
	sessionID, _ := event.Data["session_id"].(string)

	var slow []*Client
	h.mu.RLock()
	for _, key := range []string{sessionID, AllSessions} {
		for _, client := range h.clients[key] {
			select {
			case client.Send <- payload:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn(module, "Client Send buffer full, dropping client", map[string]interface{}{"session_id": client.SessionID})
		h.Unregister(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.deliver([]byte(msg.Payload))
		}
	}
}
