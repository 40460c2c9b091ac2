package geo

import "math"

// Vec2 is a point or displacement on the sand table. X grows to the right,
// Y grows downward, matching image row order.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is a shorthand constructor for Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v.X - w.X, v.Y - w.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// LengthSquared returns |v|².
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the Euclidean length of the vector.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns the unit vector in the same direction.
// Returns zero vector if length is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// DistanceSquared returns |v - w|².
func (v Vec2) DistanceSquared(w Vec2) float64 {
	return v.Sub(w).LengthSquared()
}

// Distance returns the Euclidean distance from v to w.
func (v Vec2) Distance(w Vec2) float64 {
	return math.Sqrt(v.DistanceSquared(w))
}

// Lerp returns the linear interpolation between v and w at t in [0,1].
func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
	}
}

// Cell returns the grid cell containing v, truncating both components toward zero.
func (v Vec2) Cell() (int, int) {
	return int(v.X), int(v.Y)
}
