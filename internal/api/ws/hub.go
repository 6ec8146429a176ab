package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"

	"github.com/Lixtic/Intellisynth2/internal/domain"
	redisstore "github.com/Lixtic/Intellisynth2/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	client *redisstore.Client
}

// NewHub creates a new WebSocket hub.
func NewHub(client *redisstore.Client) *Hub {
	return &Hub{client: client}
}

// ServeFeed handles WebSocket connections for the live activity feed.
// On connect it replays the most recent activities from the ring buffer,
// then streams events from the Redis feed channel.
func (h *Hub) ServeFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.client.Subscribe(ctx, redisstore.FeedChannel())
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	// Replay happens after the subscription is live so nothing published
	// in between is lost; clients dedup by activity ID.
	recent, err := h.client.RecentActivities(ctx, replayCount)
	if err != nil {
		log.Warn().Err(err).Msg("feed replay unavailable")
	}
	for i := len(recent) - 1; i >= 0; i-- {
		if writeErr := conn.Write(ctx, websocket.MessageText, recent[i]); writeErr != nil {
			log.Debug().Err(writeErr).Msg("websocket write")
			return
		}
	}

	h.stream(ctx, conn, messages)
}

// ServeAlerts handles WebSocket connections for anomaly and violation
// alerts.
func (h *Hub) ServeAlerts(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.client.Subscribe(ctx, redisstore.AlertChannel())
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	h.stream(ctx, conn, messages)
}

func (h *Hub) stream(ctx context.Context, conn *websocket.Conn, messages <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, ok := <-messages:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

// PublishActivity fans a newly logged activity out to feed subscribers and
// records it in the recent-activity ring buffer.
func (h *Hub) PublishActivity(ctx context.Context, record *domain.ActivityRecord) error {
	payload, err := json.Marshal(FeedEvent{Type: EventActivity, Activity: record})
	if err != nil {
		return fmt.Errorf("ws.Hub.PublishActivity: marshal: %w", err)
	}

	if err := h.client.PushActivity(ctx, payload); err != nil {
		return fmt.Errorf("ws.Hub.PublishActivity: %w", err)
	}
	if err := h.client.Publish(ctx, redisstore.FeedChannel(), payload); err != nil {
		return fmt.Errorf("ws.Hub.PublishActivity: %w", err)
	}
	return nil
}

// PublishAlert fans an alert out to alert subscribers.
func (h *Hub) PublishAlert(ctx context.Context, event AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ws.Hub.PublishAlert: marshal: %w", err)
	}

	if err := h.client.Publish(ctx, redisstore.AlertChannel(), payload); err != nil {
		return fmt.Errorf("ws.Hub.PublishAlert: %w", err)
	}
	return nil
}
