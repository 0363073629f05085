package game

import (
	"math"
	"testing"

	"github.com/playmatatu/poolroom/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestBallKinds(t *testing.T) {
	tests := []struct {
		kind   BallKind
		name   string
		number int
	}{
		{CueBall(), "cue", 0},
		{EightBall(), "eight", 8},
		{Numbered(3), "ball-3", 3},
		{BallKind{}, "unknown", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.kind.String())
		assert.Equal(t, tt.number, tt.kind.Number())
	}
	assert.True(t, CueBall().IsCue())
	assert.False(t, Numbered(1).IsCue())
	assert.True(t, EightBall().IsEight())
}

func TestSetPowerClampsToZero(t *testing.T) {
	b := NewBall(0, CueBall(), Point{}, 0.186)

	for _, p := range []float64{-0.1, math.NaN(), math.Inf(1), math.Inf(-1), 0} {
		b.Power = 0.3
		b.SetPower(p)
		assert.Equal(t, 0.0, b.Power, "SetPower(%v)", p)
	}

	b.SetPower(0.25)
	assert.Equal(t, 0.25, b.Power)
}

func TestRestingBallDoesNotMove(t *testing.T) {
	b := NewBall(0, Numbered(2), Point{X: 1, Z: 2}, 0.186)
	b.Advance(config.DefaultPhysics())

	assert.Equal(t, Point{X: 1, Z: 2}, b.Position)
	assert.False(t, b.IsMoving())
}

func TestAdvanceStopsBelowThreshold(t *testing.T) {
	params := config.DefaultPhysics()
	b := NewBall(0, CueBall(), Point{}, params.BallRadius)
	b.SetPower(0.005)

	b.Advance(params)

	assert.InDelta(t, 0.005, b.Position.X, eps, "still moves on its last frame")
	assert.Equal(t, 0.0, b.Power)
}

func TestStandardRackOrder(t *testing.T) {
	rack := StandardRack(0.186)

	assert.Len(t, rack, NumBalls)
	assert.True(t, rack[CueIndex].Kind.IsCue())
	assert.True(t, rack[EightIndex].Kind.IsEight())
	assert.Equal(t, 100.0, rack[EightIndex].RotationX)
	for i, b := range rack {
		assert.Equal(t, i, b.ID)
		assert.False(t, b.IsMoving())
		assert.True(t, NewStandardTable(config.DefaultPhysics()).Contains(b.Position, b.Radius))
	}
}
