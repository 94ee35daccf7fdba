package form3

import (
	"fmt"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form3/must3"
)

// degenerateTol is the edge length at or below which a skeleton edge is degenerate.
const degenerateTol = 0

// Box returns the implicit unit cube.
func Box() (s implicit.SDF3, err error) {
	defer recoverShape(&err)
	return must3.Box(), err
}

// Sphere returns the implicit unit sphere.
func Sphere() (s implicit.SDF3, err error) {
	defer recoverShape(&err)
	return must3.Sphere(), err
}

// DistanceSurface returns the surface at distance radius from the skeleton edges.
// Unlike must3.DistanceSurface it rejects skeletons with zero length edges.
// The surface tracks sk until passed to Detach.
func DistanceSurface(sk *implicit.Skeleton, radius float64) (s implicit.SDF3, err error) {
	defer recoverShape(&err)
	if sk != nil {
		if bad := sk.DegenerateEdges(degenerateTol); len(bad) > 0 {
			return nil, fmt.Errorf("edges %v: %w", bad, ErrDegenerateSkeleton)
		}
	}
	return must3.DistanceSurface(sk, radius), err
}

// Detach stops s from tracking its skeleton. Surfaces without a skeleton
// are left as is.
func Detach(s implicit.Surface) {
	if d, ok := s.(interface{ Detach() }); ok {
		d.Detach()
	}
}
