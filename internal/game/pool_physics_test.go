package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/playmatatu/poolroom/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// Helper to create a 2-ball setup with the boundary disabled: a moving ball and a target.
func setupTwoBalls(movingPos, targetPos Point, dir Direction, power float64) *PhysicsEngine {
	params := config.DefaultPhysics()
	params.Boundary = config.BoundaryNone

	mover := NewBall(0, CueBall(), movingPos, params.BallRadius)
	mover.Direction = dir
	mover.SetPower(power)
	target := NewBall(1, Numbered(1), targetPos, params.BallRadius)

	return NewPhysicsEngine([]*Ball{mover, target}, NewStandardTable(params), params)
}

func TestAdvanceMovesByPowerBeforeFriction(t *testing.T) {
	params := config.DefaultPhysics()
	b := NewBall(0, CueBall(), Point{}, params.BallRadius)
	b.Direction = Direction{DX: 1}
	b.SetPower(0.4)

	b.Advance(params)

	assert.Equal(t, 0.4, b.Position.X)
	assert.Equal(t, 0.0, b.Position.Z)
	assert.InDelta(t, 0.38, b.Power, eps)
}

func TestFrictionStopsBalls(t *testing.T) {
	// A lone ball in the middle of nowhere: no cushions, no partners.
	engine := setupTwoBalls(Point{}, Point{X: 100, Z: 100}, Direction{DX: 1}, 0.4)
	ball := engine.Balls[0]

	prev := ball.Power
	frames := 0
	for ball.IsMoving() {
		engine.Step()
		frames++
		require.LessOrEqual(t, ball.Power, prev, "power increased at frame %d", frames)
		prev = ball.Power
		require.Less(t, frames, 100, "ball never stopped")
	}

	assert.Equal(t, 0.0, ball.Power, "a stopped ball has exactly zero power")
	assert.True(t, engine.AllStopped())
	assert.Empty(t, engine.Step(), "nothing happens once everything is at rest")
}

func TestHeadOnCollision(t *testing.T) {
	engine := setupTwoBalls(Point{}, Point{X: 0.5}, Direction{DX: 1}, 0.4)
	mover, target := engine.Balls[0], engine.Balls[1]

	events := engine.Step()

	require.Len(t, events, 1)
	assert.Equal(t, EventBall, events[0].Type)
	assert.Equal(t, 0, events[0].BallID)
	assert.Equal(t, 1, events[0].TargetID)
	assert.InDelta(t, 0.0, events[0].Angle, eps)

	assert.Equal(t, 5, engine.Cooldown(0, 1))
	assert.Equal(t, 5, engine.Cooldown(1, 0), "pair counters are unordered")

	// Pushed along the line of centres.
	assert.InDelta(t, 1.0, target.Direction.DX, eps)
	assert.InDelta(t, 0.0, target.Direction.DZ, eps)

	// Parallel headings: everything goes to the target.
	assert.Equal(t, 0.0, mover.Power)
	assert.InDelta(t, 0.38, target.Power, eps)
	assert.Equal(t, 0.5, target.Position.X, "target only starts moving next frame")
}

func TestCooldownSuppressesExactlyFiveFrames(t *testing.T) {
	params := config.DefaultPhysics()
	params.Boundary = config.BoundaryNone

	// Huge radii keep the pair overlapping for the whole test.
	a := NewBall(0, CueBall(), Point{}, 10)
	b := NewBall(1, Numbered(1), Point{X: 1}, 10)
	engine := NewPhysicsEngine([]*Ball{a, b}, NewStandardTable(params), params)

	var hitFrames []int
	var remaining []int
	for frame := 1; frame <= 13; frame++ {
		a.SetPower(0.01)
		b.SetPower(0)
		if len(engine.Step()) > 0 {
			hitFrames = append(hitFrames, frame)
		}
		remaining = append(remaining, engine.Cooldown(0, 1))
	}

	assert.Equal(t, []int{1, 7, 13}, hitFrames)
	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, remaining[:6])
}

func TestStationaryFirstBallStillCollides(t *testing.T) {
	params := config.DefaultPhysics()
	params.Boundary = config.BoundaryNone

	still := NewBall(0, Numbered(1), Point{X: 0.5}, params.BallRadius)
	mover := NewBall(1, CueBall(), Point{}, params.BallRadius)
	mover.Direction = Direction{DX: 1}
	mover.SetPower(0.4)
	engine := NewPhysicsEngine([]*Ball{still, mover}, NewStandardTable(params), params)

	events := engine.Step()

	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].BallID, "the moving ball drives the impact")
	assert.Equal(t, 0, events[0].TargetID)
	assert.True(t, still.IsMoving())
}

func TestNoCollisionBetweenRestingBalls(t *testing.T) {
	engine := setupTwoBalls(Point{}, Point{X: 0.1}, Direction{DX: 1}, 0)

	assert.Empty(t, engine.Step())
	assert.Equal(t, 0, engine.Cooldown(0, 1))
}

func TestCoincidentCentresKeepTargetDirection(t *testing.T) {
	engine := setupTwoBalls(Point{X: -0.4}, Point{}, Direction{DX: 1}, 0.4)
	target := engine.Balls[1]
	target.Direction = Direction{DZ: 1}

	events := engine.Step()

	require.Len(t, events, 1)
	assert.Equal(t, Direction{DZ: 1}, target.Direction)
	for _, b := range engine.Balls {
		assert.False(t, math.IsNaN(b.Position.X) || math.IsNaN(b.Position.Z))
		assert.False(t, math.IsNaN(b.Direction.DX) || math.IsNaN(b.Direction.DZ))
		assert.False(t, math.IsNaN(b.Power))
	}
	// Perpendicular headings: the mover keeps its power.
	assert.InDelta(t, 90.0, events[0].Angle, eps)
	assert.InDelta(t, 0.0, target.Power, eps)
}

func TestLineOfCentresIncidence(t *testing.T) {
	params := config.DefaultPhysics()
	params.Boundary = config.BoundaryNone
	params.Incidence = config.IncidenceLineOfCenters

	mover := NewBall(0, CueBall(), Point{}, params.BallRadius)
	mover.Direction = Direction{DX: 1}
	mover.SetPower(0.4)
	// Target sits above the path and faces away; only the line of centres matters.
	target := NewBall(1, Numbered(1), Point{X: 0.4, Z: 0.3}, params.BallRadius)
	target.Direction = Direction{DX: -1}
	engine := NewPhysicsEngine([]*Ball{mover, target}, NewStandardTable(params), params)

	events := engine.Step()

	require.Len(t, events, 1)
	assert.InDelta(t, 90.0, events[0].Angle, eps)
	assert.InDelta(t, 0.0, target.Direction.DX, eps)
	assert.InDelta(t, 1.0, target.Direction.DZ, eps)
}

func TestIncidenceAngleAndSplitBounds(t *testing.T) {
	for a := 0.0; a < 360; a += 15 {
		for b := 0.0; b < 360; b += 15 {
			angle := HeadingDirection(a).AngleBetween(HeadingDirection(b))
			require.GreaterOrEqual(t, angle, 0.0)
			require.LessOrEqual(t, angle, 180.0)

			kept, transferred := splitPower(0.4, angle)
			require.GreaterOrEqual(t, kept, 0.0)
			require.GreaterOrEqual(t, transferred, 0.0)
			require.InDelta(t, 0.4, kept+transferred, 1e-15)
		}
	}
}

func TestSplitPower(t *testing.T) {
	kept, transferred := splitPower(0.4, 45)
	assert.InDelta(t, 0.2, kept, eps)
	assert.InDelta(t, 0.2, transferred, eps)

	kept, transferred = splitPower(0.4, 150)
	assert.Equal(t, 0.4, kept, "obtuse hits keep all power")
	assert.Equal(t, 0.0, transferred)
}

func TestDeflectHeading(t *testing.T) {
	// Wraparound: 350 vs 10 would compare as "greater" and turn +90.
	assert.Equal(t, 260.0, deflectHeading(350, 10))
	assert.Equal(t, -60.0, deflectHeading(30, 60))
	assert.Equal(t, 150.0, deflectHeading(60, 30))
	assert.Equal(t, 90.0, deflectHeading(0, 0))
	// Negative headings are compared after mapping onto [0, 360).
	assert.Equal(t, -100.0, deflectHeading(-10, 10))
}

func TestShootSetsDirectionAndPower(t *testing.T) {
	engine := NewStandardEngine(config.DefaultPhysics())
	cue := engine.Cue()
	require.NotNil(t, cue)
	cue.Direction = Direction{DZ: 1}
	cue.SetPower(0.1)

	engine.Shoot(0)
	assert.InDelta(t, 1.0, cue.Direction.DX, eps)
	assert.InDelta(t, 0.0, cue.Direction.DZ, eps)
	assert.Equal(t, 0.4, cue.Power)

	engine.Shoot(90)
	assert.InDelta(t, 0.0, cue.Direction.DX, eps)
	assert.InDelta(t, -1.0, cue.Direction.DZ, eps)
	assert.Equal(t, 0.4, cue.Power)
}

func TestCushionReflection(t *testing.T) {
	params := config.DefaultPhysics()
	ball := NewBall(0, CueBall(), Point{X: 3.5}, params.BallRadius)
	ball.Direction = Direction{DX: 1}
	ball.SetPower(0.4)
	engine := NewPhysicsEngine([]*Ball{ball}, NewStandardTable(params), params)

	events := engine.Step()

	require.Len(t, events, 1)
	assert.Equal(t, EventCushion, events[0].Type)
	assert.Equal(t, -1, events[0].TargetID)
	assert.InDelta(t, params.TableHalfLength-params.BallRadius, ball.Position.X, eps)
	assert.Less(t, ball.Direction.DX, 0.0)
	assert.InDelta(t, 0.4*0.95*0.8, ball.Power, eps)
}

func TestBoundaryNoneLetsBallsLeave(t *testing.T) {
	engine := setupTwoBalls(Point{X: 3.5}, Point{X: -3}, Direction{DX: 1}, 0.4)

	engine.Simulate(200)

	assert.Greater(t, engine.Balls[0].Position.X, engine.Table.HalfLength)
}

func TestPowerNeverNegativeAndBallsStayOnFelt(t *testing.T) {
	engine := NewStandardEngine(config.DefaultPhysics())
	rng := rand.New(rand.NewSource(7))

	for frame := 0; frame < 2000; frame++ {
		if frame%120 == 0 {
			engine.Shoot(rng.Float64() * 360)
		}
		engine.Step()
		for _, b := range engine.Balls {
			require.GreaterOrEqual(t, b.Power, 0.0, "ball %d at frame %d", b.ID, frame)
			require.True(t, engine.Table.Contains(b.Position, b.Radius), "ball %d left the felt at frame %d", b.ID, frame)
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() []Point {
		engine := NewStandardEngine(config.DefaultPhysics())
		engine.Shoot(12)
		engine.Simulate(1000)
		result := make([]Point, len(engine.Balls))
		for i, b := range engine.Balls {
			result[i] = b.Position
		}
		return result
	}

	assert.Equal(t, run(), run())
}

func TestBreakShotMovesObjectBalls(t *testing.T) {
	engine := NewStandardEngine(config.DefaultPhysics())
	start := make([]Point, len(engine.Balls))
	for i, b := range engine.Balls {
		start[i] = b.Position
	}

	// Cue at (-2, 0) aimed at ball 1 at (0.5, 0.3). Shot angles grow toward -Z.
	angle := math.Atan2(0.3, 2.5) * 180 / math.Pi
	engine.Shoot(-angle)
	events := engine.Simulate(2000)

	ballHits := 0
	for _, e := range events {
		if e.Type == EventBall {
			ballHits++
		}
	}
	assert.GreaterOrEqual(t, ballHits, 1)
	assert.NotEqual(t, start[1], engine.Balls[1].Position, "ball 1 should have been struck")
	assert.True(t, engine.AllStopped())
}

func TestRerack(t *testing.T) {
	engine := NewStandardEngine(config.DefaultPhysics())
	engine.Shoot(0)
	engine.Simulate(50)

	engine.Rerack()

	require.Len(t, engine.Balls, NumBalls)
	assert.Equal(t, Point{X: -2, Z: 0}, engine.Cue().Position)
	assert.True(t, engine.AllStopped())
}
