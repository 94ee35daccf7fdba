package fractal

import (
	"github.com/soypat/glgl/math/ms3"
)

const (
	// VerticesPerCube is the number of quad vertices emitted for one cube.
	VerticesPerCube = 24
	// floatsPerVertex is the interleaved stride: position then normal.
	floatsPerVertex = 6
)

// cubeCorners lists the quads of the cube [-1,1]³ in emission order:
// bottom, right, top, left, front, back.
var cubeCorners = [VerticesPerCube]ms3.Vec{
	{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1},
	{X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1},
	{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1},
}

// faceNormals holds one normal per quad. Bottom and top point into the cube;
// consumers that need outward normals should derive them from the winding.
var faceNormals = [6]ms3.Vec{
	{Y: 1},
	{X: 1},
	{Y: -1},
	{X: -1},
	{Z: 1},
	{Z: -1},
}

// Cube is one emitted cube: the unit cube scaled by Scale and moved to Origin.
type Cube struct {
	Origin ms3.Vec
	Scale  float32
}

// Mesh is a flat quad stream: every 4 consecutive vertices form a quad and
// every 24 a cube.
type Mesh struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	// Cubes lists the emitted cubes in emission order.
	Cubes []Cube
}

// UnitCube returns the mesh of the cube [-1,1]³.
func UnitCube() *Mesh {
	var m Mesh
	m.AddCube(ms3.Vec{}, 1)
	return &m
}

// AddCube appends the 24 vertices of the cube of half size scale centered at origin.
func (m *Mesh) AddCube(origin ms3.Vec, scale float32) {
	for _, c := range cubeCorners {
		m.Positions = append(m.Positions, ms3.Vec{
			X: scale*c.X + origin.X,
			Y: scale*c.Y + origin.Y,
			Z: scale*c.Z + origin.Z,
		})
	}
	for _, n := range faceNormals {
		m.Normals = append(m.Normals, n, n, n, n)
	}
	m.Cubes = append(m.Cubes, Cube{Origin: origin, Scale: scale})
}

// Len returns the number of vertices.
func (m *Mesh) Len() int { return len(m.Positions) }

// CubeCount returns the number of cubes in the mesh.
func (m *Mesh) CubeCount() int { return len(m.Cubes) }

// NumQuads returns the number of quads in the mesh.
func (m *Mesh) NumQuads() int { return len(m.Positions) / 4 }

// Quad returns the vertices of the i'th quad.
func (m *Mesh) Quad(i int) [4]ms3.Vec {
	var q [4]ms3.Vec
	copy(q[:], m.Positions[4*i:4*i+4])
	return q
}

// Interleaved returns the vertices as x,y,z,nx,ny,nz tuples.
func (m *Mesh) Interleaved() []float32 {
	buf := make([]float32, 0, floatsPerVertex*len(m.Positions))
	for i, p := range m.Positions {
		pa := array(p)
		na := array(m.Normals[i])
		buf = append(buf, pa[:]...)
		buf = append(buf, na[:]...)
	}
	return buf
}

// Separate returns positions and normals as two x,y,z buffers.
func (m *Mesh) Separate() (positions, normals []float32) {
	return flatten(m.Positions), flatten(m.Normals)
}

func flatten(vs []ms3.Vec) []float32 {
	buf := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		a := array(v)
		buf = append(buf, a[:]...)
	}
	return buf
}

func array(v ms3.Vec) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// VertexBuffers is the buffer form of a fractal for one Layout.
type VertexBuffers struct {
	Layout Layout
	// Interleaved is set for the Interleaved layout.
	Interleaved []float32
	// Positions and Normals are set for the Separate and Flat layouts.
	Positions []float32
	Normals   []float32
	// Instances is set for every layout except Flat: each cube is drawn
	// with the unit cube buffers, or the consumer's own cube for BuiltIn.
	Instances []Cube
	// Count is the number of vertices per draw call.
	Count int
}

// Buffers returns the vertex buffers of m for layout l.
func (m *Mesh) Buffers(l Layout) VertexBuffers {
	vb := VertexBuffers{Layout: l, Count: VerticesPerCube}
	switch l {
	case Interleaved:
		vb.Interleaved = UnitCube().Interleaved()
		vb.Instances = m.Cubes
	case Separate:
		vb.Positions, vb.Normals = UnitCube().Separate()
		vb.Instances = m.Cubes
	case BuiltIn:
		vb.Instances = m.Cubes
	default:
		vb.Positions, vb.Normals = m.Separate()
		vb.Count = m.Len()
	}
	return vb
}
