package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/poolroom/internal/store"
	"github.com/redis/go-redis/v9"
)

// RemoteEvent is relayed to clients when another scene sharing the same Redis
// reports collisions or shots.
type RemoteEvent struct {
	Type  string             `json:"type"`
	Event store.EventMessage `json:"event"`
}

// relayMessage decodes a scene_events payload. Events from localScene are
// skipped since they already travel in frame messages.
func relayMessage(payload, localScene string) (*RemoteEvent, bool) {
	var msg store.EventMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return nil, false
	}
	if msg.SceneID == localScene {
		return nil, false
	}
	return &RemoteEvent{Type: "remote_event", Event: msg}, true
}

// RunEventRelay subscribes to scene_events and forwards other scenes' events
// to every client until ctx is cancelled.
func (h *Hub) RunEventRelay(ctx context.Context, rdb *redis.Client, localScene string) error {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event relay not started")
		return nil
	}

	pubsub := rdb.Subscribe(ctx, store.EventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Printf("[WS] %s subscriber started", store.EventsChannel)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if ev, ok := relayMessage(msg.Payload, localScene); ok {
				h.Broadcast(ev)
			}
		}
	}
}
