package game

// pairKey is an unordered pair of ball IDs, stored with a < b.
type pairKey struct {
	a, b int
}

func makePair(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}
	return pairKey{a: i, b: j}
}

// CooldownTracker suppresses repeat collisions between the same two balls while
// they are still overlapping after an impact. Counters are per pair, so a ball
// touching two partners at once keeps an independent counter for each.
type CooldownTracker struct {
	frames    int
	remaining map[pairKey]int
	// pairs armed during the current frame; they are not decremented until the next Tick
	fresh map[pairKey]struct{}
}

func NewCooldownTracker(frames int) *CooldownTracker {
	return &CooldownTracker{
		frames:    frames,
		remaining: make(map[pairKey]int),
		fresh:     make(map[pairKey]struct{}),
	}
}

// Active reports whether collisions between i and j are currently suppressed.
func (c *CooldownTracker) Active(i, j int) bool {
	return c.remaining[makePair(i, j)] > 0
}

// Remaining returns the frames left before i and j may collide again.
func (c *CooldownTracker) Remaining(i, j int) int {
	return c.remaining[makePair(i, j)]
}

// Arm starts the cooldown for a pair that just collided.
func (c *CooldownTracker) Arm(i, j int) {
	if c.frames <= 0 {
		return
	}
	k := makePair(i, j)
	c.remaining[k] = c.frames
	c.fresh[k] = struct{}{}
}

// Tick is the end-of-frame housekeeping: every positive counter drops by one,
// except pairs armed this frame.
func (c *CooldownTracker) Tick() {
	for k, n := range c.remaining {
		if _, armed := c.fresh[k]; armed {
			continue
		}
		if n <= 1 {
			delete(c.remaining, k)
			continue
		}
		c.remaining[k] = n - 1
	}
	clear(c.fresh)
}

// Reset forgets every pair.
func (c *CooldownTracker) Reset() {
	clear(c.remaining)
	clear(c.fresh)
}

// Len is the number of pairs currently cooling down.
func (c *CooldownTracker) Len() int {
	return len(c.remaining)
}
