// Package fractal generates a branching structure of axis aligned cubes.
//
// Starting from a root cube every cube spawns children along directions
// obtained by repeatedly rotating its own direction 90° about the Z axis.
// The root has four children, every other cube three. Each level halves the
// cube size, so the fractal holds 1 + 2(3^d - 1) cubes at depth d.
package fractal

import (
	"github.com/soypat/glgl/math/ms3"
)

// Generate emits the fractal described by cfg. The vertex order is
// depth first, parents before children.
func Generate(cfg Config) (*Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := CubeCount(cfg.MaxDepth)
	m := &Mesh{
		Positions: make([]ms3.Vec, 0, n*VerticesPerCube),
		Normals:   make([]ms3.Vec, 0, n*VerticesPerCube),
		Cubes:     make([]Cube, 0, n),
	}
	g := generator{maxDepth: cfg.MaxDepth, mesh: m}
	g.recurse(0, 1, ms3.Vec{}, ms3.Vec{X: 1})
	return m, nil
}

// CubeCount returns the number of cubes of a fractal of the given depth.
func CubeCount(depth int) int {
	if depth < 0 {
		return 0
	}
	pow := 1
	for i := 0; i < depth; i++ {
		pow *= 3
	}
	return 1 + 2*(pow-1)
}

type generator struct {
	maxDepth int
	mesh     *Mesh
}

func (g *generator) recurse(level int, scale float32, origin, dir ms3.Vec) {
	scale *= 0.5
	g.mesh.AddCube(origin, scale)
	if level >= g.maxDepth {
		return
	}
	children := 3
	if level == 0 {
		children = 4
	}
	for i := 0; i < children; i++ {
		// The rotation accumulates: child i turns the previous child's direction i times.
		dir = rotateZ(dir, i)
		g.recurse(level+1, scale, ms3.Add(origin, ms3.Scale(2*scale, dir)), dir)
	}
}

// rotateZ rotates d by -90° about the Z axis n times, dropping the Z component.
func rotateZ(d ms3.Vec, n int) ms3.Vec {
	for i := 0; i < n; i++ {
		d = ms3.Vec{X: d.Y, Y: -d.X}
	}
	return d
}
