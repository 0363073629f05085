package game

// Table setup constants. Physics tuning lives in config.PhysicsConfig.
const (
	NumBalls = 6 // cue, four numbered, eight

	CueIndex   = 0
	EightIndex = 5
)
