// pkg/core/vec.go
package core

import "math"

// Vec3 is a world-space position, velocity or direction.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Len returns the euclidean length.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenXZ returns the length projected on the ground plane.
func (v Vec3) LenXZ() float64 { return math.Hypot(v.X, v.Z) }

// Normalize returns the unit vector, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Dist returns the distance between two points.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// DistXZ returns the ground-plane distance between two points.
func (v Vec3) DistXZ(o Vec3) float64 { return v.Sub(o).LenXZ() }

// Ptr returns a pointer to a copy of v.
func (v Vec3) Ptr() *Vec3 { return &v }
