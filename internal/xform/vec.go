// Package xform provides the small fixed-size vector and matrix types used
// by the map renderer, plus the camera matrices shared by every render pass.
//
// All types are float32 because they are copied verbatim into GPU uniform
// and vertex buffers. Mat3 is column-major to match GLSL/WGSL mat3 layout.
package xform

import "math"

// Vec2 is a 2D float32 vector.
type Vec2 struct {
	X, Y float32
}

// V2 is a convenience constructor for Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the component-wise sum v + w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the component-wise difference v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by s.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div returns the vector divided by s.
func (v Vec2) Div(s float32) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// Dot returns the dot product of v and w.
func (v Vec2) Dot(w Vec2) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Length returns the Euclidean length of v.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Distance returns the distance between v and w.
func (v Vec2) Distance(w Vec2) float32 {
	return v.Sub(w).Length()
}

// DistanceSquared returns the squared distance between v and w.
// Cheaper than Distance when only comparing magnitudes.
func (v Vec2) DistanceSquared(w Vec2) float32 {
	d := v.Sub(w)
	return d.X*d.X + d.Y*d.Y
}

// Normalize returns a unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Div(l)
}

// Perp returns the counter-clockwise perpendicular of v.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Expand lifts v into 3D with the given z component.
func (v Vec2) Expand(z float32) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: z}
}

// Vec3 is a 3D float32 vector. In this package it usually holds a 2D
// position in homogeneous coordinates (z = 1) or an RGB color.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is a convenience constructor for Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Mul returns the vector scaled by s.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Collapse projects a homogeneous coordinate back to 2D by dividing
// through by z. A zero z component returns the xy part unchanged.
func (v Vec3) Collapse() Vec2 {
	if v.Z == 0 {
		return Vec2{X: v.X, Y: v.Y}
	}
	return Vec2{X: v.X / v.Z, Y: v.Y / v.Z}
}
