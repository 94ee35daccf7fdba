package implicit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// paraboloid is z - x² - 2y² with gradient (-2x, -4y, 1).
type paraboloid struct{}

func (paraboloid) Evaluate(p r3.Vec) float64 { return p.Z - p.X*p.X - 2*p.Y*p.Y }
func (paraboloid) Gradient(p r3.Vec) r3.Vec  { return r3.Vec{X: -2 * p.X, Y: -4 * p.Y, Z: 1} }

type flat struct{}

func (flat) Evaluate(r3.Vec) float64 { return 0 }
func (flat) Gradient(r3.Vec) r3.Vec  { return r3.Vec{} }

func TestNumericGradient(t *testing.T) {
	const tol = 1e-5
	var s paraboloid
	for _, p := range []r3.Vec{
		{},
		{X: 1, Y: -2, Z: 3},
		{X: -0.3, Y: 0.7, Z: 0.1},
	} {
		for _, h := range []float64{0, 1e-4} {
			got := NumericGradient(s, p, h)
			want := s.Gradient(p)
			if r3.Norm(r3.Sub(got, want)) > tol {
				t.Errorf("p=%v h=%g: got %v, want %v", p, h, got, want)
			}
		}
	}
}

func TestNormal(t *testing.T) {
	n := Normal(paraboloid{}, r3.Vec{X: 1})
	if math.Abs(r3.Norm(n)-1) > 1e-12 {
		t.Errorf("normal %v not unit length", n)
	}
	if n.X >= 0 || n.Z <= 0 {
		t.Errorf("normal %v points the wrong way", n)
	}
	if Normal(flat{}, r3.Vec{X: 1}) != (r3.Vec{}) {
		t.Error("zero gradient must give zero normal")
	}
}

func TestSign(t *testing.T) {
	for _, test := range []struct {
		x, want float64
	}{
		{-2, -1}, {0, 0}, {3, 1},
	} {
		if got := Sign(test.x); got != test.want {
			t.Errorf("Sign(%g) = %g, want %g", test.x, got, test.want)
		}
	}
}

type bounded struct{ flat }

func (bounded) Bounds() r3.Box        { return r3.Box{Max: r3.Vec{X: 1, Y: 1, Z: 1}} }
func (bounded) IsDistanceBound() bool { return true }

func TestIsDistanceBound(t *testing.T) {
	if !IsDistanceBound(bounded{}) {
		t.Error("distance bound surface not reported")
	}
	if IsDistanceBound(paraboloid{}) {
		t.Error("plain surface reported as distance bound")
	}
}
