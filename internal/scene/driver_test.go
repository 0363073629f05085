package scene

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(queue int) *Driver {
	return NewDriver(newTestRoom(), DriverConfig{
		SceneID:         "test",
		SimHz:           60,
		RenderHz:        60,
		MaxCatchUpSteps: 5,
		QueueSize:       queue,
	})
}

func TestDriverInitialSnapshot(t *testing.T) {
	d := newTestDriver(4)
	snap := d.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, "test", snap.SceneID)
	assert.Equal(t, uint64(0), snap.Frame)
}

func TestDriverSubmitValidation(t *testing.T) {
	d := newTestDriver(2)

	assert.ErrorIs(t, d.Submit(Command{Type: "dance"}), ErrUnknownCommand)
	assert.NoError(t, d.Submit(Command{Type: CmdRollDice}))
	assert.NoError(t, d.Submit(Command{Type: CmdSpotlight}))
	assert.ErrorIs(t, d.Submit(Command{Type: CmdRollDice}), ErrQueueFull)
}

func TestDriverAppliesCommandsAtStepBoundary(t *testing.T) {
	d := newTestDriver(8)
	require.NoError(t, d.Submit(Command{Type: CmdToggleLight, Light: LightRed}))

	d.advance(0)
	assert.True(t, d.Snapshot().Lights[LightRed].On, "no step, no commands")

	d.advance(2)
	snap := d.Snapshot()
	assert.False(t, snap.Lights[LightRed].On)
	assert.Equal(t, uint64(2), snap.Frame)
}

func TestDriverPublishesShotsAndEvents(t *testing.T) {
	d := newTestDriver(8)
	var got []*Snapshot
	d.AddListener(func(snap *Snapshot) { got = append(got, snap) })

	require.NoError(t, d.Submit(Command{Type: CmdShoot, SessionID: "s1", Angle: 180}))
	d.advance(1)

	require.Len(t, got, 1)
	require.Len(t, got[0].Shots, 1)
	assert.Equal(t, "s1", got[0].Shots[0].SessionID)
	assert.Equal(t, 180.0, got[0].Shots[0].Angle)
	assert.False(t, got[0].AllStopped)

	// Cue heads for the near cushion; it gets there within a few frames.
	sawCushion := false
	for i := 0; i < 20 && !sawCushion; i++ {
		d.advance(1)
		for _, e := range got[len(got)-1].Events {
			if e.Type == "cushion" {
				sawCushion = true
			}
		}
	}
	assert.True(t, sawCushion)
	assert.Empty(t, got[len(got)-1].Shots)
}

func TestDriverAimFlow(t *testing.T) {
	d := newTestDriver(8)
	require.NoError(t, d.Submit(Command{Type: CmdAim, Delta: 10}))
	require.NoError(t, d.Submit(Command{Type: CmdToggleMode}))
	require.NoError(t, d.Submit(Command{Type: CmdAim, Delta: 10}))
	d.advance(1)

	snap := d.Snapshot()
	assert.True(t, snap.Shooting)
	assert.Equal(t, 10.0, snap.Aim, "aim before entering the mode is ignored")

	require.NoError(t, d.Submit(Command{Type: CmdFire, SessionID: "s2"}))
	d.advance(1)
	snap = d.Snapshot()
	assert.False(t, snap.Shooting)
	require.Len(t, snap.Shots, 1)
	assert.Equal(t, 10.0, snap.Shots[0].Angle)
}

func TestDriverRunStops(t *testing.T) {
	d := newTestDriver(8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.NoError(t, d.Submit(Command{Type: CmdShoot, Angle: 0}))
	require.Eventually(t, func() bool {
		return d.Snapshot().Frame > 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop")
	}
	assert.ErrorIs(t, d.Submit(Command{Type: CmdRollDice}), ErrStopped)
}
