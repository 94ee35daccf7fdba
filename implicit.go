// Package implicit evaluates implicit surfaces and the skeletons they are built on.
package implicit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultGradientStep is the central difference step used by NumericGradient
	// when a non-positive step is passed.
	DefaultGradientStep = 1e-6
	tolerance           = 1e-9
)

// Surface is the interface to an implicit surface, the zero set of a scalar
// function over 3D space.
type Surface interface {
	// Evaluate returns the value of the implicit function at p. The value is
	// negative inside the surface, zero on the surface and positive outside.
	Evaluate(p r3.Vec) float64
	// Gradient returns the gradient of the implicit function at p.
	Gradient(p r3.Vec) r3.Vec
}

// SDF3 is a Surface with a bounding box that completely contains its zero set.
type SDF3 interface {
	Surface
	// Bounds returns the bounding box that completely contains
	// the surface.
	Bounds() r3.Box
}

// DistanceBound is implemented by surfaces whose Evaluate never overestimates
// the Euclidean distance from a point to the zero set. Samplers may skip
// regions based on the value of such surfaces.
type DistanceBound interface {
	SDF3
	IsDistanceBound() bool
}

// IsDistanceBound reports whether s never overestimates the distance to its zero set.
func IsDistanceBound(s Surface) bool {
	db, ok := s.(DistanceBound)
	return ok && db.IsDistanceBound()
}

// Evaluator is implemented by anything that can be sampled at a point.
type Evaluator interface {
	Evaluate(p r3.Vec) float64
}

// NumericGradient approximates the gradient of s at p with central differences
// of step h.
func NumericGradient(s Evaluator, p r3.Vec, h float64) r3.Vec {
	if h <= 0 {
		h = DefaultGradientStep
	}
	k := 1 / (2 * h)
	dx := r3.Vec{X: h}
	dy := r3.Vec{Y: h}
	dz := r3.Vec{Z: h}
	return r3.Vec{
		X: k * (s.Evaluate(r3.Add(p, dx)) - s.Evaluate(r3.Sub(p, dx))),
		Y: k * (s.Evaluate(r3.Add(p, dy)) - s.Evaluate(r3.Sub(p, dy))),
		Z: k * (s.Evaluate(r3.Add(p, dz)) - s.Evaluate(r3.Sub(p, dz))),
	}
}

// Normal returns the unit gradient of s at p. A zero or non-finite gradient
// yields the zero vector.
func Normal(s Surface, p r3.Vec) r3.Vec {
	g := s.Gradient(p)
	n := r3.Norm(g)
	if n < tolerance || math.IsInf(n, 0) || math.IsNaN(n) {
		return r3.Vec{}
	}
	return r3.Scale(1/n, g)
}

// Sign returns the sign of x, zero for zero.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
