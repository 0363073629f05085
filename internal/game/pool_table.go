package game

import "github.com/playmatatu/poolroom/internal/config"

// Table holds the playable felt rectangle, centred on the origin.
type Table struct {
	HalfLength float64 `json:"half_length"` // along X
	HalfWidth  float64 `json:"half_width"`  // along Z
}

func NewStandardTable(p config.PhysicsConfig) *Table {
	return &Table{
		HalfLength: p.TableHalfLength,
		HalfWidth:  p.TableHalfWidth,
	}
}

// Contains reports whether a ball of the given radius centred at pos lies on the felt.
func (t *Table) Contains(pos Point, radius float64) bool {
	return pos.X >= -t.HalfLength+radius && pos.X <= t.HalfLength-radius &&
		pos.Z >= -t.HalfWidth+radius && pos.Z <= t.HalfWidth-radius
}

// StandardRack returns the six balls in their starting spots, all at rest.
// Order is fixed: cue, 1, 2, 3, 4, eight.
func StandardRack(radius float64) []*Ball {
	spots := []struct {
		kind BallKind
		pos  Point
		rotX float64
	}{
		{CueBall(), Point{X: -2, Z: 0}, 0},
		{Numbered(1), Point{X: 0.5, Z: 0.3}, 0},
		{Numbered(2), Point{X: -0.3, Z: 1}, 0},
		{Numbered(3), Point{X: 1, Z: 0.8}, 0},
		{Numbered(4), Point{X: -0.6, Z: -1.2}, 0},
		{EightBall(), Point{X: 0.3, Z: 0.7}, 100},
	}

	balls := make([]*Ball, len(spots))
	for i, s := range spots {
		b := NewBall(i, s.kind, s.pos, radius)
		b.RotationX = s.rotX
		balls[i] = b
	}
	return balls
}
