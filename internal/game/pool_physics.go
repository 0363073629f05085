package game

import (
	"math"

	"github.com/playmatatu/poolroom/internal/config"
)

// PhysicsEngine runs the frame-stepped billiard simulation. It is not safe for
// concurrent use; the scene loop owns it.
type PhysicsEngine struct {
	Balls  []*Ball
	Table  *Table
	Events []CollisionEvent

	params    config.PhysicsConfig
	cooldowns *CooldownTracker
	frame     uint64
}

// NewPhysicsEngine creates an engine over an existing ball list. Ball IDs must be
// unique; list order is the collision scan order.
func NewPhysicsEngine(balls []*Ball, table *Table, params config.PhysicsConfig) *PhysicsEngine {
	return &PhysicsEngine{
		Balls:     balls,
		Table:     table,
		Events:    make([]CollisionEvent, 0),
		params:    params,
		cooldowns: NewCooldownTracker(params.CooldownFrames),
	}
}

// NewStandardEngine creates an engine with the standard rack on the standard table.
func NewStandardEngine(params config.PhysicsConfig) *PhysicsEngine {
	return NewPhysicsEngine(StandardRack(params.BallRadius), NewStandardTable(params), params)
}

func (pe *PhysicsEngine) Params() config.PhysicsConfig {
	return pe.params
}

// Frame is the number of steps taken so far.
func (pe *PhysicsEngine) Frame() uint64 {
	return pe.frame
}

// Cue returns the cue ball, or nil if the list has none.
func (pe *PhysicsEngine) Cue() *Ball {
	for _, b := range pe.Balls {
		if b.Kind.IsCue() {
			return b
		}
	}
	return nil
}

// Cooldown returns the frames left before balls i and j (by ID) may collide again.
func (pe *PhysicsEngine) Cooldown(i, j int) int {
	return pe.cooldowns.Remaining(i, j)
}

// AllStopped returns true if no ball has power left.
func (pe *PhysicsEngine) AllStopped() bool {
	for _, b := range pe.Balls {
		if b.IsMoving() {
			return false
		}
	}
	return true
}

// Shoot sends the cue ball off at the aim angle (degrees) with the fixed shot
// power. A moving cue ball is simply redirected.
func (pe *PhysicsEngine) Shoot(angle float64) {
	cue := pe.Cue()
	if cue == nil {
		return
	}
	rad := angle * math.Pi / 180
	cue.Direction = Direction{DX: math.Cos(rad), DZ: -math.Sin(rad)}
	cue.SetPower(pe.params.ShotPower)
}

// Rerack puts the standard rack back and forgets all cooldowns.
func (pe *PhysicsEngine) Rerack() {
	pe.Balls = StandardRack(pe.params.BallRadius)
	pe.cooldowns.Reset()
}

// Step advances the simulation by one frame and returns the collisions it produced.
// Order: every ball advances, cushions are applied, all pairs are scanned, then
// cooldowns tick.
func (pe *PhysicsEngine) Step() []CollisionEvent {
	pe.frame++
	pe.Events = make([]CollisionEvent, 0)

	for _, b := range pe.Balls {
		b.Advance(pe.params)
		pe.containBall(b)
	}
	pe.resolveCollisions()
	pe.cooldowns.Tick()

	return pe.Events
}

// Simulate steps until every ball stops or maxFrames is reached.
func (pe *PhysicsEngine) Simulate(maxFrames int) []CollisionEvent {
	all := make([]CollisionEvent, 0)
	for i := 0; i < maxFrames && !pe.AllStopped(); i++ {
		all = append(all, pe.Step()...)
	}
	return all
}

func (pe *PhysicsEngine) resolveCollisions() {
	for i := 0; i < len(pe.Balls); i++ {
		for j := i + 1; j < len(pe.Balls); j++ {
			a, b := pe.Balls[i], pe.Balls[j]
			if pe.cooldowns.Active(a.ID, b.ID) {
				continue
			}
			if a.Position.DistanceTo(b.Position) >= a.Radius+b.Radius {
				continue
			}

			// Whichever ball is moving drives the impact; ball i wins a tie.
			initiator, target := a, b
			if !a.IsMoving() {
				if !b.IsMoving() {
					continue
				}
				initiator, target = b, a
			}
			pe.resolveBallBall(initiator, target)
		}
	}
}

func (pe *PhysicsEngine) resolveBallBall(ball, target *Ball) {
	pe.cooldowns.Arm(ball.ID, target.ID)

	// Target is pushed straight away along the line of centres.
	before := target.Direction
	if dir, ok := DirectionBetween(ball.Position, target.Position).Normalize(); ok {
		target.Direction = dir
	}

	reference := before
	if pe.params.Incidence == config.IncidenceLineOfCenters {
		reference = target.Direction
	}
	angle := ball.Direction.AngleBetween(reference)

	power := ball.Power
	ballPower, targetPower := splitPower(power, angle)
	ball.SetPower(ballPower)
	target.SetPower(targetPower)

	ball.Direction = HeadingDirection(deflectHeading(ball.Direction.Heading(), target.Direction.Heading()))

	pe.Events = append(pe.Events, CollisionEvent{
		Frame:    pe.frame,
		Type:     EventBall,
		BallID:   ball.ID,
		TargetID: target.ID,
		Speed:    power,
		Angle:    angle,
	})
}

// splitPower divides the initiator's power by incidence angle: a head-on hit (0°)
// hands everything to the target, a glancing hit (90° or more) keeps it all.
// The two parts always sum to power and are never negative.
func splitPower(power, angle float64) (kept, transferred float64) {
	s := math.Min(math.Max(angle, 0), 90)
	kept = math.Min(power*s/90, power)
	transferred = power - kept
	return kept, transferred
}

// deflectHeading turns the initiator 90° away from the target's new heading.
// Headings just below 360 facing a target just above 0 count as "less than" so
// the turn does not flip at the wrap.
func deflectHeading(ballHeading, targetHeading float64) float64 {
	hb := mod360(ballHeading)
	ht := mod360(targetHeading)
	if hb < ht || (hb > 270 && ht < 90) {
		return ballHeading - 90
	}
	return ballHeading + 90
}

func (pe *PhysicsEngine) containBall(b *Ball) {
	if pe.params.Boundary != config.BoundaryReflect || pe.Table == nil {
		return
	}

	maxX := pe.Table.HalfLength - b.Radius
	maxZ := pe.Table.HalfWidth - b.Radius
	hit := false

	if b.Position.X > maxX {
		b.Position.X = maxX
		b.Direction.DX = -math.Abs(b.Direction.DX)
		hit = true
	} else if b.Position.X < -maxX {
		b.Position.X = -maxX
		b.Direction.DX = math.Abs(b.Direction.DX)
		hit = true
	}
	if b.Position.Z > maxZ {
		b.Position.Z = maxZ
		b.Direction.DZ = -math.Abs(b.Direction.DZ)
		hit = true
	} else if b.Position.Z < -maxZ {
		b.Position.Z = -maxZ
		b.Direction.DZ = math.Abs(b.Direction.DZ)
		hit = true
	}
	if !hit {
		return
	}

	speed := b.Power
	damped := speed * pe.params.CushionDamping
	if damped < pe.params.StopThreshold {
		damped = 0
	}
	b.SetPower(damped)
	if speed == 0 {
		return
	}

	pe.Events = append(pe.Events, CollisionEvent{
		Frame:    pe.frame,
		Type:     EventCushion,
		BallID:   b.ID,
		TargetID: -1,
		Speed:    speed,
	})
}
