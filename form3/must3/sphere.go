package must3

import (
	"github.com/soypat/implicit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

type sphere struct{}

// Sphere returns the unit sphere quadric x²+y²+z²-1.
func Sphere() *sphere {
	return &sphere{}
}

func (s *sphere) Evaluate(p r3.Vec) float64 {
	return r3.Norm2(p) - 1
}

// Gradient returns 2p.
func (s *sphere) Gradient(p r3.Vec) r3.Vec {
	return r3.Scale(2, p)
}

func (s *sphere) Bounds() r3.Box {
	return r3.Box{Min: d3.Elem(-1), Max: d3.Elem(1)}
}
