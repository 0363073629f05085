package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/playmatatu/poolroom/internal/game"
	"github.com/playmatatu/poolroom/internal/scene"
	"github.com/redis/go-redis/v9"
)

// EventsChannel is the pub/sub channel collision events are published on.
const EventsChannel = "scene_events"

// SnapshotKey is where the latest snapshot of a scene is cached.
func SnapshotKey(sceneID string) string {
	return fmt.Sprintf("scene:%s:snapshot", sceneID)
}

// EventMessage is what goes out on EventsChannel.
type EventMessage struct {
	Type    string                `json:"type"`
	SceneID string                `json:"scene_id"`
	Frame   uint64                `json:"frame"`
	Events  []game.CollisionEvent `json:"events"`
	Shots   []scene.ShotFired     `json:"shots,omitempty"`
}

// SnapshotCache mirrors the scene into Redis: the latest snapshot under
// SnapshotKey (throttled) and every collision or shot on EventsChannel.
type SnapshotCache struct {
	rdb      *redis.Client
	sceneID  string
	interval time.Duration
	ttl      time.Duration

	latest    chan *scene.Snapshot
	events    chan EventMessage
	lastWrite time.Time
}

func NewSnapshotCache(rdb *redis.Client, sceneID string, interval, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		rdb:      rdb,
		sceneID:  sceneID,
		interval: interval,
		ttl:      ttl,
		latest:   make(chan *scene.Snapshot, 1),
		events:   make(chan EventMessage, 256),
	}
}

// Listener hands snapshots to Run without blocking. Only the newest snapshot
// is kept; event messages are queued until the buffer fills.
func (c *SnapshotCache) Listener() scene.Listener {
	return func(snap *scene.Snapshot) {
		if len(snap.Events) > 0 || len(snap.Shots) > 0 {
			msg := EventMessage{
				Type:    "collision",
				SceneID: c.sceneID,
				Frame:   snap.Frame,
				Events:  snap.Events,
				Shots:   snap.Shots,
			}
			select {
			case c.events <- msg:
			default:
				log.Printf("[REDIS] Event buffer full, dropping frame=%d", snap.Frame)
			}
		}

		// Replace whatever is waiting.
		select {
		case <-c.latest:
		default:
		}
		select {
		case c.latest <- snap:
		default:
		}
	}
}

// due reports whether enough time has passed since the last snapshot write.
func (c *SnapshotCache) due(now time.Time) bool {
	return c.lastWrite.IsZero() || now.Sub(c.lastWrite) >= c.interval
}

// Run writes to Redis until ctx is cancelled.
func (c *SnapshotCache) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-c.events:
			if err := c.publish(ctx, msg); err != nil {
				log.Printf("[REDIS] Failed to publish events frame=%d: %v", msg.Frame, err)
			}
		case snap := <-c.latest:
			now := time.Now()
			if !c.due(now) {
				continue
			}
			if err := c.Save(ctx, snap); err != nil {
				log.Printf("[REDIS] Failed to save snapshot frame=%d: %v", snap.Frame, err)
				continue
			}
			c.lastWrite = now
		}
	}
}

func (c *SnapshotCache) publish(ctx context.Context, msg EventMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, EventsChannel, b).Err()
}

// Save stores snap under SnapshotKey with the configured TTL.
func (c *SnapshotCache) Save(ctx context.Context, snap *scene.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.rdb.SetEx(ctx, SnapshotKey(c.sceneID), data, c.ttl).Err()
}

// Load reads the cached snapshot. It returns redis.Nil when there is none.
func (c *SnapshotCache) Load(ctx context.Context) (*scene.Snapshot, error) {
	data, err := c.rdb.Get(ctx, SnapshotKey(c.sceneID)).Bytes()
	if err != nil {
		return nil, err
	}
	var snap scene.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
