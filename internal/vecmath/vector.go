// Package vecmath provides the 2D vector arithmetic shared by the spatial
// grid, the integrator, and the contact resolver.
package vecmath

import "math"

// Vector2 is a point or displacement in 2D world space.
type Vector2 struct {
	X, Y float64
}

func New(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Scale(factor float64) Vector2 {
	return Vector2{X: v.X * factor, Y: v.Y * factor}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vector2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector2) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// zeroLengthEpsilon guards Normalize against dividing by a near-zero length.
const zeroLengthEpsilon = 1e-4

// Normalize returns a unit vector in the direction of v, or the zero vector
// if v is shorter than zeroLengthEpsilon. The contact detector does not call
// this: its narrow phase applies the same guard inline, after the distance
// has already been checked against the sum of radii.
func (v Vector2) Normalize() Vector2 {
	length := v.Length()
	if length < zeroLengthEpsilon {
		return Vector2{}
	}
	inv := 1.0 / length
	return Vector2{X: v.X * inv, Y: v.Y * inv}
}
