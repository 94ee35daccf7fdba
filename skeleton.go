package implicit

import (
	"errors"
	"fmt"

	"github.com/soypat/implicit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrIndexOutOfRange is returned when a skeleton point or edge index is invalid.
var ErrIndexOutOfRange = errors.New("skeleton index out of range")

// Edge joins two skeleton points by index.
type Edge [2]int

// SkeletonObserver is notified of skeleton mutations so it can keep
// per-edge data in sync.
type SkeletonObserver interface {
	// EdgeAppended is called after edge ei was added. Edges are appended
	// in order so ei equals the previous edge count.
	EdgeAppended(ei int)
	// EdgeChanged is called after the endpoints of edge ei were replaced.
	EdgeChanged(ei int)
	// PointMoved is called after point pi was moved.
	PointMoved(pi int)
}

// Skeleton is an ordered sequence of points joined by edges.
// Every edge endpoint is a valid index into the point sequence.
// A Skeleton is not safe for concurrent mutation.
type Skeleton struct {
	points    []r3.Vec
	edges     []Edge
	observers []SkeletonObserver
}

// NewSkeleton returns a skeleton with the given points and edges.
func NewSkeleton(points []r3.Vec, edges []Edge) (*Skeleton, error) {
	s := &Skeleton{
		points: append([]r3.Vec(nil), points...),
		edges:  make([]Edge, 0, len(edges)),
	}
	for i, e := range edges {
		if _, err := s.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return s, nil
}

// Observe registers o to be notified of future mutations.
// o must be comparable, usually a pointer, so that Unobserve can find it.
func (s *Skeleton) Observe(o SkeletonObserver) {
	s.observers = append(s.observers, o)
}

// Unobserve removes o from the observer list. Unknown observers are ignored.
func (s *Skeleton) Unobserve(o SkeletonObserver) {
	for i := range s.observers {
		if s.observers[i] == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// AddPoint appends p and returns its index.
func (s *Skeleton) AddPoint(p r3.Vec) int {
	s.points = append(s.points, p)
	return len(s.points) - 1
}

// SetPoint moves point pi to p.
func (s *Skeleton) SetPoint(pi int, p r3.Vec) error {
	if !s.validPoint(pi) {
		return fmt.Errorf("point %d of %d: %w", pi, len(s.points), ErrIndexOutOfRange)
	}
	s.points[pi] = p
	for _, o := range s.observers {
		o.PointMoved(pi)
	}
	return nil
}

// AddEdge appends an edge between points a and b and returns its index.
func (s *Skeleton) AddEdge(a, b int) (int, error) {
	if err := s.checkEdge(a, b); err != nil {
		return -1, err
	}
	s.edges = append(s.edges, Edge{a, b})
	ei := len(s.edges) - 1
	for _, o := range s.observers {
		o.EdgeAppended(ei)
	}
	return ei, nil
}

// SetEdge replaces the endpoints of edge ei.
func (s *Skeleton) SetEdge(ei, a, b int) error {
	if ei < 0 || ei >= len(s.edges) {
		return fmt.Errorf("edge %d of %d: %w", ei, len(s.edges), ErrIndexOutOfRange)
	}
	if err := s.checkEdge(a, b); err != nil {
		return err
	}
	s.edges[ei] = Edge{a, b}
	for _, o := range s.observers {
		o.EdgeChanged(ei)
	}
	return nil
}

// NumPoints returns the number of points.
func (s *Skeleton) NumPoints() int { return len(s.points) }

// NumEdges returns the number of edges.
func (s *Skeleton) NumEdges() int { return len(s.edges) }

// Point returns point pi. It panics if pi is out of range.
func (s *Skeleton) Point(pi int) r3.Vec { return s.points[pi] }

// Edge returns edge ei. It panics if ei is out of range.
func (s *Skeleton) Edge(ei int) Edge { return s.edges[ei] }

// Segment returns the start and end points of edge ei.
func (s *Skeleton) Segment(ei int) (start, end r3.Vec) {
	e := s.edges[ei]
	return s.points[e[0]], s.points[e[1]]
}

// Points returns a copy of the point sequence.
func (s *Skeleton) Points() []r3.Vec { return append([]r3.Vec(nil), s.points...) }

// Edges returns a copy of the edge set.
func (s *Skeleton) Edges() []Edge { return append([]Edge(nil), s.edges...) }

// Bounds returns the bounding box of the skeleton points. An empty
// skeleton has a zero box.
func (s *Skeleton) Bounds() r3.Box {
	if len(s.points) == 0 {
		return r3.Box{}
	}
	set := d3.Set(s.points)
	return r3.Box{Min: set.Min(), Max: set.Max()}
}

// DegenerateEdges returns the indices of edges whose length is not
// greater than tol. Such edges have no defined direction.
func (s *Skeleton) DegenerateEdges(tol float64) []int {
	var bad []int
	for ei := range s.edges {
		a, b := s.Segment(ei)
		if r3.Norm(r3.Sub(b, a)) <= tol {
			bad = append(bad, ei)
		}
	}
	return bad
}

func (s *Skeleton) validPoint(pi int) bool { return pi >= 0 && pi < len(s.points) }

func (s *Skeleton) checkEdge(a, b int) error {
	if !s.validPoint(a) || !s.validPoint(b) {
		return fmt.Errorf("edge (%d,%d) with %d points: %w", a, b, len(s.points), ErrIndexOutOfRange)
	}
	return nil
}
