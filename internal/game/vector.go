package game

import "math"

// Point is a position on the table plane. Height is owned by the renderer.
type Point struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

func (p Point) Plus(d Direction, s float64) Point {
	return Point{X: p.X + d.DX*s, Z: p.Z + d.DZ*s}
}

func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Z-p.Z)
}

// Direction is a heading vector. Motion is planar so DY stays 0.
type Direction struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
	DZ float64 `json:"dz"`
}

// DirectionBetween returns the (unnormalized) vector from a to b.
func DirectionBetween(a, b Point) Direction {
	return Direction{DX: b.X - a.X, DZ: b.Z - a.Z}
}

// HeadingDirection returns the unit vector for a heading in degrees.
func HeadingDirection(degrees float64) Direction {
	rad := degrees * math.Pi / 180
	return Direction{DX: math.Cos(rad), DZ: math.Sin(rad)}
}

func (d Direction) Magnitude() float64 {
	return math.Sqrt(d.DX*d.DX + d.DY*d.DY + d.DZ*d.DZ)
}

func (d Direction) Dot(o Direction) float64 {
	return d.DX*o.DX + d.DY*o.DY + d.DZ*o.DZ
}

func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0 && d.DZ == 0
}

// Normalize returns the unit vector. A zero (or non-finite) vector is returned
// unchanged with ok=false so callers can keep their previous heading.
func (d Direction) Normalize() (Direction, bool) {
	m := d.Magnitude()
	if m == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return d, false
	}
	return Direction{DX: d.DX / m, DY: d.DY / m, DZ: d.DZ / m}, true
}

// Heading returns the angle from the +X axis toward +Z in degrees, in (-180, 180].
func (d Direction) Heading() float64 {
	return math.Atan2(d.DZ, d.DX) * 180 / math.Pi
}

// AngleBetween returns the angle between two vectors in degrees, in [0, 180].
func (d Direction) AngleBetween(o Direction) float64 {
	denom := d.Magnitude() * o.Magnitude()
	if denom == 0 {
		return 0
	}
	cos := d.Dot(o) / denom
	// Clamp to [-1, 1] to avoid NaN from acos
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// mod360 maps an angle in degrees onto [0, 360).
func mod360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}
