package game

import (
	"fmt"
	"math"

	"github.com/playmatatu/poolroom/internal/config"
)

type kindTag uint8

const (
	kindCue kindTag = iota + 1
	kindEight
	kindNumbered
)

// BallKind identifies a ball. It never affects physics; renderers use it to
// pick materials and textures.
type BallKind struct {
	tag    kindTag
	number int
}

func CueBall() BallKind   { return BallKind{tag: kindCue} }
func EightBall() BallKind { return BallKind{tag: kindEight, number: 8} }

// Numbered returns the kind for a plain numbered ball.
func Numbered(n int) BallKind { return BallKind{tag: kindNumbered, number: n} }

func (k BallKind) IsCue() bool   { return k.tag == kindCue }
func (k BallKind) IsEight() bool { return k.tag == kindEight }

// Number is 0 for the cue ball, 8 for the eight ball.
func (k BallKind) Number() int { return k.number }

func (k BallKind) String() string {
	switch k.tag {
	case kindCue:
		return "cue"
	case kindEight:
		return "eight"
	case kindNumbered:
		return fmt.Sprintf("ball-%d", k.number)
	default:
		return "unknown"
	}
}

// Ball is a single pool ball's physics state.
type Ball struct {
	ID        int       `json:"id"`
	Kind      BallKind  `json:"-"`
	Position  Point     `json:"position"`
	Direction Direction `json:"direction"`
	Power     float64   `json:"power"`
	Radius    float64   `json:"radius"`
	RotationX float64   `json:"rotation_x"` // static pose only
	RotationZ float64   `json:"rotation_z"`
}

// NewBall creates a ball at rest heading along +X.
func NewBall(id int, kind BallKind, pos Point, radius float64) *Ball {
	return &Ball{
		ID:        id,
		Kind:      kind,
		Position:  pos,
		Direction: Direction{DX: 1},
		Radius:    radius,
	}
}

func (b *Ball) IsMoving() bool {
	return b.Power > 0
}

// SetPower assigns power, treating anything below zero (or NaN) as a stop.
func (b *Ball) SetPower(p float64) {
	if !(p > 0) || math.IsInf(p, 0) {
		b.Power = 0
		return
	}
	b.Power = p
}

// Advance moves the ball one frame along its direction, then applies friction.
// Power that decays below the stop threshold becomes exactly zero.
func (b *Ball) Advance(p config.PhysicsConfig) {
	if !b.IsMoving() {
		b.Power = 0
		return
	}
	b.Position = b.Position.Plus(b.Direction, b.Power)

	power := b.Power * p.FrictionFactor
	if power < p.StopThreshold {
		power = 0
	}
	b.SetPower(power)
}
