package scene

import (
	"math"
	"math/rand"

	"github.com/playmatatu/poolroom/internal/config"
	"github.com/playmatatu/poolroom/internal/game"
)

// Light indexes, in the order the room sets them up.
const (
	LightRed = iota
	LightGreen
	LightBlue
	LightSpotlight
	LightLamp
	LightFlashlight
	NumLights
)

var lightNames = [NumLights]string{"red", "green", "blue", "spotlight", "lamp", "flashlight"}

const (
	diceFrames        = 200
	swingFactorActive = 8.0
	swingDecay        = 0.03
	swingRate         = 0.03

	flickerPeriod  = 60
	flickerOffOdds = 0.3
	flickerHalf    = 15
	flickerHigh    = 0.5
	flickerLow     = 0.2
	flickerEase    = 0.1

	defaultSession = "local"
)

// AimStep is how far one aim key press turns the shot, in degrees.
const AimStep = 1.0

// ShotFired is a shot the room applied; the driver hands these to the shot log.
type ShotFired struct {
	SessionID string  `json:"session_id"`
	Angle     float64 `json:"angle"`
	Power     float64 `json:"power"`
	Frame     uint64  `json:"frame"`
}

// Room is the whole animated scene: the pool table plus the lights, dice and
// spotlight around it. It is owned by a single goroutine.
type Room struct {
	engine *game.PhysicsEngine
	rng    *rand.Rand
	frame  uint64

	shooting bool
	aim      float64

	lights [NumLights]bool

	diceRolling bool
	diceStart   uint64
	diceFrame   int

	swinging    bool
	swingFactor float64
	swingFrame  int

	flickerTarget    float64
	flickerIntensity float64

	shots []ShotFired
}

// NewRoom sets up the standard rack with every light on.
func NewRoom(params config.PhysicsConfig, seed int64) *Room {
	r := &Room{
		engine:        game.NewStandardEngine(params),
		rng:           rand.New(rand.NewSource(seed)),
		flickerTarget: flickerHigh,
	}
	for i := range r.lights {
		r.lights[i] = true
	}
	return r
}

func (r *Room) Engine() *game.PhysicsEngine { return r.engine }

func (r *Room) Frame() uint64 { return r.frame }

func (r *Room) Shooting() bool { return r.shooting }

func (r *Room) Aim() float64 { return r.aim }

// ToggleShootingMode enters or leaves aiming. Leaving this way never fires.
func (r *Room) ToggleShootingMode() {
	r.shooting = !r.shooting
}

// AdjustAim turns the aim by delta degrees. Ignored outside shooting mode.
func (r *Room) AdjustAim(delta float64) bool {
	if !r.shooting {
		return false
	}
	r.aim += delta
	return true
}

// Fire leaves shooting mode and shoots along the current aim.
func (r *Room) Fire(sessionID string) bool {
	if !r.shooting {
		return false
	}
	r.shooting = false
	r.Shoot(sessionID, r.aim)
	return true
}

// Shoot sends the cue ball off at angle regardless of mode.
func (r *Room) Shoot(sessionID string, angle float64) {
	if sessionID == "" {
		sessionID = defaultSession
	}
	r.engine.Shoot(angle)
	r.shots = append(r.shots, ShotFired{
		SessionID: sessionID,
		Angle:     angle,
		Power:     r.engine.Params().ShotPower,
		Frame:     r.frame,
	})
}

// ToggleLight flips one light. Out-of-range indexes are ignored.
func (r *Room) ToggleLight(index int) bool {
	if index < 0 || index >= NumLights {
		return false
	}
	r.lights[index] = !r.lights[index]
	return true
}

func (r *Room) LightOn(index int) bool {
	if index < 0 || index >= NumLights {
		return false
	}
	return r.lights[index]
}

// ShowPicture is true once every light but the flashlight is off.
func (r *Room) ShowPicture() bool {
	for i, on := range r.lights {
		if i != LightFlashlight && on {
			return false
		}
	}
	return true
}

// RollDice (re)starts the dice animation.
func (r *Room) RollDice() {
	r.diceRolling = true
	r.diceStart = r.frame
}

func (r *Room) DiceAngle() float64 { return float64(r.diceFrame) }

func (r *Room) DiceRolling() bool { return r.diceRolling }

func (r *Room) ToggleSpotlightSwing() {
	r.swinging = !r.swinging
}

// SwingAngle is the spotlight's current deflection in degrees.
func (r *Room) SwingAngle() float64 {
	return r.swingFactor * math.Sin(swingRate*float64(r.swingFrame))
}

func (r *Room) SpotlightIntensity() float64 { return r.flickerIntensity }

// Reset re-racks the table. Lights and animations are left alone.
func (r *Room) Reset() {
	r.engine.Rerack()
	r.shooting = false
	r.aim = 0
}

// TakeShots returns the shots fired since the last call.
func (r *Room) TakeShots() []ShotFired {
	shots := r.shots
	r.shots = nil
	return shots
}

// Tick runs one frame of the room: the table first, then the animations.
func (r *Room) Tick() []game.CollisionEvent {
	r.frame++
	events := r.engine.Step()
	r.animateDice()
	r.animateSwing()
	r.animateFlicker()
	return events
}

func (r *Room) animateDice() {
	if !r.diceRolling {
		return
	}
	r.diceFrame++
	if r.frame-r.diceStart > diceFrames {
		r.diceRolling = false
	}
}

func (r *Room) animateSwing() {
	if r.swinging {
		r.swingFactor = swingFactorActive
		r.swingFrame++
		return
	}
	if r.swingFactor > 0 {
		r.swingFrame++
		r.swingFactor = math.Max(r.swingFactor-swingDecay, 0)
		return
	}
	r.swingFrame = 0
}

func (r *Room) animateFlicker() {
	if r.frame%flickerPeriod == 0 {
		if r.rng.Float64() < flickerOffOdds {
			r.flickerTarget = 0
		} else {
			r.flickerTarget = flickerHigh
		}
	}

	current := 0.0
	if r.flickerTarget != 0 {
		current = flickerLow
		if r.frame%(2*flickerHalf) < flickerHalf {
			current = flickerHigh
		}
	}
	current += (r.flickerTarget - current) * flickerEase
	r.flickerIntensity = math.Min(math.Max(current, 0), flickerHigh)
}
