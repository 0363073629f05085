package scene

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playmatatu/poolroom/internal/game"
)

var (
	ErrQueueFull      = errors.New("scene command queue is full")
	ErrStopped        = errors.New("scene driver stopped")
	ErrUnknownCommand = errors.New("unknown scene command")
)

// CommandType names a change a client may request.
type CommandType string

const (
	CmdShoot       CommandType = "shoot"
	CmdToggleMode  CommandType = "toggle_mode"
	CmdAim         CommandType = "aim"
	CmdFire        CommandType = "fire"
	CmdToggleLight CommandType = "toggle_light"
	CmdRollDice    CommandType = "roll_dice"
	CmdSpotlight   CommandType = "spotlight"
	CmdReset       CommandType = "reset"
)

// Command is a queued request against the room. Only the fields the type needs
// are read.
type Command struct {
	Type      CommandType
	SessionID string
	Angle     float64 // shoot
	Delta     float64 // aim
	Light     int     // toggle_light
}

// Validate rejects unknown command types before they reach the queue.
func (c Command) Validate() error {
	switch c.Type {
	case CmdShoot, CmdToggleMode, CmdAim, CmdFire, CmdToggleLight, CmdRollDice, CmdSpotlight, CmdReset:
		return nil
	}
	return ErrUnknownCommand
}

// Apply runs the command against the room. It reports false when the room
// ignored it (aim outside shooting mode, bad light index...).
func (c Command) Apply(r *Room) bool {
	switch c.Type {
	case CmdShoot:
		r.Shoot(c.SessionID, c.Angle)
		return true
	case CmdToggleMode:
		r.ToggleShootingMode()
		return true
	case CmdAim:
		return r.AdjustAim(c.Delta)
	case CmdFire:
		return r.Fire(c.SessionID)
	case CmdToggleLight:
		return r.ToggleLight(c.Light)
	case CmdRollDice:
		r.RollDice()
		return true
	case CmdSpotlight:
		r.ToggleSpotlightSwing()
		return true
	case CmdReset:
		r.Reset()
		return true
	}
	return false
}

// Listener receives every published snapshot on the driver goroutine. It must
// not block.
type Listener func(snap *Snapshot)

// DriverConfig holds the loop rates and queue size.
type DriverConfig struct {
	SceneID         string
	SimHz           int
	RenderHz        int
	MaxCatchUpSteps int
	QueueSize       int
}

// Driver owns a Room on a single goroutine. Everyone else talks to it through
// Submit and reads it through Snapshot.
type Driver struct {
	room     *Room
	clock    *Clock
	sceneID  string
	interval time.Duration
	commands chan Command

	snapshot atomic.Pointer[Snapshot]
	stopped  atomic.Bool

	mu        sync.RWMutex
	listeners []Listener
}

// NewDriver wraps room and publishes its initial snapshot.
func NewDriver(room *Room, cfg DriverConfig) *Driver {
	if cfg.RenderHz <= 0 {
		cfg.RenderHz = 60
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	d := &Driver{
		room:     room,
		clock:    NewClock(cfg.SimHz, cfg.MaxCatchUpSteps),
		sceneID:  cfg.SceneID,
		interval: time.Second / time.Duration(cfg.RenderHz),
		commands: make(chan Command, cfg.QueueSize),
	}
	d.snapshot.Store(room.Snapshot(cfg.SceneID))
	return d
}

// AddListener registers fn for every future snapshot.
func (d *Driver) AddListener(fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Submit queues a command without blocking.
func (d *Driver) Submit(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if d.stopped.Load() {
		return ErrStopped
	}
	select {
	case d.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Snapshot returns the latest published state. Safe from any goroutine.
func (d *Driver) Snapshot() *Snapshot {
	return d.snapshot.Load()
}

// Run ticks at the render rate until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	defer d.stopped.Store(true)

	log.Printf("[SCENE] Driver started scene=%s step=%s render=%s", d.sceneID, d.clock.StepDuration(), d.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[SCENE] Driver stopped scene=%s frame=%d", d.sceneID, d.room.Frame())
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			d.advance(d.clock.Advance(elapsed))
		}
	}
}

// advance runs steps fixed steps, applying queued commands before the first
// one, then publishes a snapshot.
func (d *Driver) advance(steps int) {
	if steps <= 0 {
		return
	}

	d.drainCommands()

	var events []game.CollisionEvent
	for i := 0; i < steps; i++ {
		events = append(events, d.room.Tick()...)
	}

	snap := d.room.Snapshot(d.sceneID)
	snap.Events = append(snap.Events, events...)
	snap.Shots = d.room.TakeShots()
	d.snapshot.Store(snap)

	d.mu.RLock()
	listeners := d.listeners
	d.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (d *Driver) drainCommands() {
	for {
		select {
		case cmd := <-d.commands:
			if !cmd.Apply(d.room) {
				log.Printf("[SCENE] Ignored command type=%s session=%s", cmd.Type, cmd.SessionID)
			}
		default:
			return
		}
	}
}
