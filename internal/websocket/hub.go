package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"
	"timetrack-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const relayChannel = "timetrack_notifications"

// Hub is the connection registry: user id -> at most one live client.
// A new registration for the same user replaces the old handle without
// closing it; the superseded client's own pumps tear it down, and its late
// Unregister is ignored because it no longer matches the current handle.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client

	// Optional Redis relay for multi-instance deployments.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		rdb:     rdb,
		logger:  log,
	}
}

// Register installs client as the live handle for its user.
// Last registration wins.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.userID] = client
	h.mu.Unlock()

	h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.userID})
}

// Unregister removes the registry entry, but only if it still refers to this
// exact client. A stale close arriving after a newer registration is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.userID]
	if ok && current == client {
		delete(h.clients, client.userID)
		h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.userID})
	}
	h.mu.Unlock()
}

// Lookup returns the current handle for the user, if any. Never blocks beyond
// the registry lock.
func (h *Hub) Lookup(userID uuid.UUID) (*Client, bool) {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	return client, ok
}

// Send pushes one notification frame to the user's channel, if one is
// registered and open. Failures are logged and swallowed: the durable record
// is the source of truth and the client recovers it on its next fetch.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data, err := json.Marshal(notification)
	if err != nil {
		h.logger.Error("Hub", "Failed to serialize notification", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	client, ok := h.Lookup(userID)
	if ok && client.IsOpen() {
		if client.enqueue(data) {
			return
		}
		pushErr := &apperrors.ChannelError{
			UserID: userID.String(),
			Err:    errors.New("channel closed or backed up"),
		}
		h.logger.Warn("Hub", "Push failed", map[string]interface{}{
			"user_id": userID,
			"error":   pushErr.Error(),
		})
	}

	// Not connected here. Another instance may hold the channel.
	if h.rdb != nil {
		payload, _ := json.Marshal(relayPayload{
			TargetUserID: userID.String(),
			Message:      data,
		})
		if err := h.rdb.Publish(context.Background(), relayChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Relay publish failed", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}
}

type relayPayload struct {
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Run subscribes to the cross-instance relay, delivering frames published by
// other instances to locally registered clients. No-op without Redis.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	pubsub := h.rdb.Subscribe(ctx, relayChannel)
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
			var payload relayPayload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Relay message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			uid, err := uuid.Parse(payload.TargetUserID)
			if err != nil {
				continue
			}
			if client, ok := h.Lookup(uid); ok && client.IsOpen() {
				client.enqueue(payload.Message)
			}
		}
	}
}
