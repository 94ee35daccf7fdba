package render

import (
	"errors"

	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/implicit"
	"github.com/soypat/implicit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNotDistanceBound is returned by MarchingCubesOctree for surfaces that
// may overestimate the distance to their zero set.
var ErrNotDistanceBound = errors.New("surface is not a distance bound")

// sdfxSurface adapts an implicit.SDF3 to sdfx's SDF3 interface.
type sdfxSurface struct {
	s  implicit.SDF3
	bb sdf.Box3
}

func (a *sdfxSurface) Evaluate(p v3.Vec) float64 {
	return a.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (a *sdfxSurface) BoundingBox() sdf.Box3 { return a.bb }

// MarchingCubes meshes the zero set of s with uniform marching cubes over its
// bounds, using cells cells along the longest axis.
func MarchingCubes(s implicit.SDF3, cells int) (*SliceRenderer, error) {
	if cells < 2 {
		return nil, errors.New("marching cubes needs at least 2 cells")
	}
	return toTriangles(s, sdfxrender.NewMarchingCubesUniform(cells))
}

// MarchingCubesOctree meshes like MarchingCubes but subdivides the bounds as an
// octree and skips octants the zero set cannot cross. Skipping is only correct
// when Evaluate never overestimates the distance to the surface, so s must
// implement implicit.DistanceBound. The sphere quadric does not.
func MarchingCubesOctree(s implicit.SDF3, cells int) (*SliceRenderer, error) {
	if cells < 2 {
		return nil, errors.New("marching cubes needs at least 2 cells")
	}
	if s != nil && !implicit.IsDistanceBound(s) {
		return nil, ErrNotDistanceBound
	}
	return toTriangles(s, sdfxrender.NewMarchingCubesOctree(cells))
}

func toTriangles(s implicit.SDF3, r sdfxrender.Render3) (*SliceRenderer, error) {
	if s == nil {
		return nil, errors.New("nil surface")
	}
	bb := d3.Box(s.Bounds())
	if d3.Max(bb.Size()) <= 0 {
		return nil, errors.New("surface has empty bounds")
	}
	// sdfx grows the box by 1% before sampling.
	adapter := &sdfxSurface{
		s: s,
		bb: sdf.Box3{
			Min: v3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
			Max: v3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
		},
	}
	triangles := sdfxrender.ToTriangles(adapter, r)
	model := make([]Triangle3, 0, len(triangles))
	for _, tri := range triangles {
		t := Triangle3{V: [3]r3.Vec{fromV3(tri[0]), fromV3(tri[1]), fromV3(tri[2])}}
		if t.Degenerate(0) {
			continue
		}
		model = append(model, t)
	}
	return NewSliceRenderer(model), nil
}

func fromV3(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
