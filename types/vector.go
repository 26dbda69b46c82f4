package types

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Epsilon for guarding against degenerate (near-zero length) vectors.
const vecEpsilon float32 = 1e-8

type Vec2 f32.Vec2
type Vec3 f32.Vec3

// Define a 2 component vector.
func XY(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Multiply two vectors component-wise. When vectors encode colors this
// is how attenuation filters light.
func (v Vec3) MulVec(v2 Vec3) Vec3 {
	return Vec3{v[0] * v2[0], v[1] * v2[1], v[2] * v2[2]}
}

// Divide a 3 component vector by a scalar.
func (v Vec3) Div(s float32) Vec3 {
	return Vec3{v[0] / s, v[1] / s, v[2] / s}
}

// Negate a vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Get 3 component vector length.
func (v Vec3) Len() float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Get squared 3 component vector length.
func (v Vec3) LenSqr() float32 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Normalize 3 component vector. Near-zero vectors normalize to the zero
// vector instead of blowing up.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < vecEpsilon {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Calculate dot product of 2 vectors.
func (v Vec3) Dot(v2 Vec3) float32 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Mirror-reflect a vector about unit normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Refract a unit vector through a surface with unit normal n using
// Snell's law. etaRatio is the ratio of refractive indices on the
// incident and transmitted sides of the interface.
func (v Vec3) Refract(n Vec3, etaRatio float32) Vec3 {
	cosTheta := math32.Min(v.Neg().Dot(n), 1.0)
	outPerp := v.Add(n.Mul(cosTheta)).Mul(etaRatio)
	outParallel := n.Mul(-math32.Sqrt(math32.Abs(1.0 - outPerp.LenSqr())))
	return outPerp.Add(outParallel)
}
