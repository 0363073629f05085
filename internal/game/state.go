package game

// EventType distinguishes what a ball hit.
type EventType string

const (
	EventBall    EventType = "ball"
	EventCushion EventType = "cushion"
)

// CollisionEvent records a collision for sound playback and frame streaming.
type CollisionEvent struct {
	Frame    uint64    `json:"frame"`
	Type     EventType `json:"type"`
	BallID   int       `json:"ball_id"`   // initiator
	TargetID int       `json:"target_id"` // ball ID, -1 for cushions
	Speed    float64   `json:"speed"`     // initiator power before impact
	Angle    float64   `json:"angle"`     // incidence angle in degrees (ball hits only)
}
