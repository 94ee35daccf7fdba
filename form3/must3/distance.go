package must3

import (
	"math"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultRadius is the distance surface radius used when none is configured.
const DefaultRadius = 0.5

var _ implicit.SkeletonObserver = (*distanceSurface)(nil)

// distanceSurface is the offset surface at distance r from a skeleton.
type distanceSurface struct {
	sk *implicit.Skeleton
	r  float64
	// Per edge cached b-a and (b-a)/|b-a|², kept in sync through
	// the SkeletonObserver callbacks.
	edgeVec    []r3.Vec
	edgeInvLen []r3.Vec
}

// DistanceSurface returns the surface at distance radius from the edges of sk.
// The surface observes sk and stays valid when points or edges change
// until Detach is called.
// A zero length edge degrades to the distance to its single point since its
// projection is NaN and fails the span test.
func DistanceSurface(sk *implicit.Skeleton, radius float64) *distanceSurface {
	if sk == nil {
		panic("nil skeleton")
	}
	if radius < 0 || math.IsNaN(radius) {
		panic("radius < 0")
	}
	s := &distanceSurface{
		sk:         sk,
		r:          radius,
		edgeVec:    make([]r3.Vec, 0, sk.NumEdges()),
		edgeInvLen: make([]r3.Vec, 0, sk.NumEdges()),
	}
	for ei := 0; ei < sk.NumEdges(); ei++ {
		s.EdgeAppended(ei)
	}
	sk.Observe(s)
	return s
}

// Radius returns the offset distance from the skeleton.
func (s *distanceSurface) Radius() float64 { return s.r }

// Skeleton returns the observed skeleton.
func (s *distanceSurface) Skeleton() *implicit.Skeleton { return s.sk }

// Evaluate returns the distance from p to the closest skeleton edge minus the radius.
// An empty skeleton evaluates to +Inf.
func (s *distanceSurface) Evaluate(p r3.Vec) float64 {
	d, _ := s.minDistanceVector(p)
	return d - s.r
}

// Gradient returns the distance vector from the closest skeleton edge to p.
// It is not normalized.
func (s *distanceSurface) Gradient(p r3.Vec) r3.Vec {
	_, v := s.minDistanceVector(p)
	return v
}

// Bounds returns the skeleton bounds grown by the radius.
func (s *distanceSurface) Bounds() r3.Box {
	return r3.Box(d3.Box(s.sk.Bounds()).Grow(s.r))
}

// Detach stops tracking the skeleton. The surface must not be evaluated
// after the skeleton changes.
func (s *distanceSurface) Detach() { s.sk.Unobserve(s) }

// IsDistanceBound returns true, the surface value is an exact distance offset.
func (s *distanceSurface) IsDistanceBound() bool { return true }

// EdgeAppended implements implicit.SkeletonObserver.
func (s *distanceSurface) EdgeAppended(ei int) {
	s.edgeVec = append(s.edgeVec, r3.Vec{})
	s.edgeInvLen = append(s.edgeInvLen, r3.Vec{})
	s.updateEdge(ei)
}

// EdgeChanged implements implicit.SkeletonObserver.
func (s *distanceSurface) EdgeChanged(ei int) {
	s.updateEdge(ei)
}

// PointMoved implements implicit.SkeletonObserver.
func (s *distanceSurface) PointMoved(pi int) {
	for ei := 0; ei < s.sk.NumEdges(); ei++ {
		e := s.sk.Edge(ei)
		if e[0] == pi || e[1] == pi {
			s.updateEdge(ei)
		}
	}
}

func (s *distanceSurface) updateEdge(ei int) {
	a, b := s.sk.Segment(ei)
	e := r3.Sub(b, a)
	s.edgeVec[ei] = e
	s.edgeInvLen[ei] = r3.Scale(1/r3.Norm2(e), e)
}

// edgeDistanceVector returns the vector from the closest point of edge ei to p.
func (s *distanceSurface) edgeDistanceVector(ei int, p r3.Vec) r3.Vec {
	a, b := s.sk.Segment(ei)
	// Projection of p onto the line through the edge.
	t := r3.Dot(r3.Sub(p, a), s.edgeInvLen[ei])
	proj := r3.Add(a, r3.Scale(t, s.edgeVec[ei]))
	if d3.InSpan(proj, a, b) {
		return r3.Sub(p, proj)
	}
	va := r3.Sub(p, a)
	vb := r3.Sub(p, b)
	if r3.Norm(va) < r3.Norm(vb) {
		return va
	}
	return vb
}

// minDistanceVector returns the distance to the closest edge and its distance
// vector. On ties the lowest edge index wins.
func (s *distanceSurface) minDistanceVector(p r3.Vec) (float64, r3.Vec) {
	n := s.sk.NumEdges()
	if n == 0 {
		return math.Inf(1), r3.Vec{}
	}
	v := s.edgeDistanceVector(0, p)
	minDist := r3.Norm(v)
	for ei := 1; ei < n; ei++ {
		vi := s.edgeDistanceVector(ei, p)
		if d := r3.Norm(vi); d < minDist {
			v = vi
			minDist = d
		}
	}
	return minDist, v
}
