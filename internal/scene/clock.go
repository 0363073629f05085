package scene

import "time"

// Clock turns wall time into a whole number of fixed simulation steps. Physics
// constants are per step, so the table behaves the same at any render rate.
type Clock struct {
	step        time.Duration
	maxCatchUp  int
	accumulator time.Duration
}

// NewClock configures a clock that targets the provided steps per second.
func NewClock(simHz, maxCatchUp int) *Clock {
	if simHz <= 0 {
		simHz = 60
	}
	if maxCatchUp <= 0 {
		maxCatchUp = 1
	}
	return &Clock{
		step:       time.Second / time.Duration(simHz),
		maxCatchUp: maxCatchUp,
	}
}

// Advance accumulates elapsed time and returns how many steps to run now.
// Backlog beyond the catch-up cap is dropped.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		c.accumulator += elapsed
	}
	steps := int(c.accumulator / c.step)
	if steps > c.maxCatchUp {
		c.accumulator %= c.step
		return c.maxCatchUp
	}
	c.accumulator -= time.Duration(steps) * c.step
	return steps
}

// StepDuration exposes the fixed timestep.
func (c *Clock) StepDuration() time.Duration {
	return c.step
}

// Pending is the time accumulated toward the next step.
func (c *Clock) Pending() time.Duration {
	return c.accumulator
}
