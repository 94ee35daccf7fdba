package must3

import (
	"github.com/soypat/implicit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// box is the unit cube [-1,1]³ under the L∞ metric.
type box struct{}

// Box returns the implicit unit cube. Its function is the Chebyshev distance
// to the cube surface, zero on the faces of [-1,1]³.
func Box() *box {
	return &box{}
}

// Evaluate returns max(|x|,|y|,|z|) - 1.
func (s *box) Evaluate(p r3.Vec) float64 {
	return d3.Max(d3.AbsElem(p)) - 1
}

// Gradient returns the signed unit axis of the largest absolute coordinate of p.
// When several coordinates tie for the largest absolute value every tied axis
// is set, so the result is not unit length on cube edges and corners.
func (s *box) Gradient(p r3.Vec) r3.Vec {
	a := d3.AbsElem(p)
	m := d3.Max(a)
	var g r3.Vec
	if a.X == m {
		g.X = axisSign(p.X)
	}
	if a.Y == m {
		g.Y = axisSign(p.Y)
	}
	if a.Z == m {
		g.Z = axisSign(p.Z)
	}
	return g
}

// Bounds returns the bounding box of the unit cube.
func (s *box) Bounds() r3.Box {
	return r3.Box{Min: d3.Elem(-1), Max: d3.Elem(1)}
}

// IsDistanceBound returns true: the L∞ distance never exceeds the Euclidean one.
func (s *box) IsDistanceBound() bool { return true }

// axisSign is -1 for negative x and 1 otherwise.
func axisSign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
