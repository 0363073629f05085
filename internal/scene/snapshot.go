package scene

import "github.com/playmatatu/poolroom/internal/game"

// BallState is one ball as renderers see it.
type BallState struct {
	ID        int            `json:"id"`
	Kind      string         `json:"kind"`
	Position  game.Point     `json:"position"`
	Direction game.Direction `json:"direction"`
	Power     float64        `json:"power"`
	Radius    float64        `json:"radius"`
	RotationX float64        `json:"rotation_x"`
	RotationZ float64        `json:"rotation_z"`
}

type LightState struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	On    bool   `json:"on"`
}

type DiceState struct {
	Rolling bool    `json:"rolling"`
	Angle   float64 `json:"angle"`
}

type SpotlightState struct {
	Swinging   bool    `json:"swinging"`
	SwingAngle float64 `json:"swing_angle"`
	Intensity  float64 `json:"intensity"`
}

// Snapshot is an immutable copy of the room after a render tick. Events and
// Shots cover only the steps run in that tick.
type Snapshot struct {
	SceneID     string                `json:"scene_id"`
	Frame       uint64                `json:"frame"`
	Balls       []BallState           `json:"balls"`
	Table       game.Table            `json:"table"`
	Shooting    bool                  `json:"shooting"`
	Aim         float64               `json:"aim"`
	Lights      []LightState          `json:"lights"`
	ShowPicture bool                  `json:"show_picture"`
	Dice        DiceState             `json:"dice"`
	Spotlight   SpotlightState        `json:"spotlight"`
	AllStopped  bool                  `json:"all_stopped"`
	Events      []game.CollisionEvent `json:"events"`
	Shots       []ShotFired           `json:"shots,omitempty"`
}

// Snapshot copies the current room state.
func (r *Room) Snapshot(sceneID string) *Snapshot {
	balls := make([]BallState, len(r.engine.Balls))
	for i, b := range r.engine.Balls {
		balls[i] = BallState{
			ID:        b.ID,
			Kind:      b.Kind.String(),
			Position:  b.Position,
			Direction: b.Direction,
			Power:     b.Power,
			Radius:    b.Radius,
			RotationX: b.RotationX,
			RotationZ: b.RotationZ,
		}
	}

	lights := make([]LightState, NumLights)
	for i := range lights {
		lights[i] = LightState{Index: i, Name: lightNames[i], On: r.lights[i]}
	}

	snap := &Snapshot{
		SceneID:     sceneID,
		Frame:       r.frame,
		Balls:       balls,
		Shooting:    r.shooting,
		Aim:         r.aim,
		Lights:      lights,
		ShowPicture: r.ShowPicture(),
		Dice:        DiceState{Rolling: r.diceRolling, Angle: r.DiceAngle()},
		Spotlight: SpotlightState{
			Swinging:   r.swinging,
			SwingAngle: r.SwingAngle(),
			Intensity:  r.flickerIntensity,
		},
		AllStopped: r.engine.AllStopped(),
		Events:     []game.CollisionEvent{},
	}
	if r.engine.Table != nil {
		snap.Table = *r.engine.Table
	}
	return snap
}

// LightName returns the name of a light index, or "" if it is out of range.
func LightName(index int) string {
	if index < 0 || index >= NumLights {
		return ""
	}
	return lightNames[index]
}
