package render

import (
	"fmt"
	"io"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/implicit/fractal"
	"gonum.org/v1/gonum/spatial/r3"
)

// quadRenderer streams a quad vertex stream as triangle pairs.
type quadRenderer struct {
	quads []ms3.Vec
	next  int // next triangle, two per quad
}

// NewMeshRenderer returns a Renderer that splits every quad of m
// into two triangles sharing the quad's first vertex.
func NewMeshRenderer(m *fractal.Mesh) Renderer {
	return &quadRenderer{quads: m.Positions}
}

// NewBuffersRenderer returns a Renderer over the vertex buffers of a fractal
// in any layout. Instanced layouts draw the unit cube, taken from the buffers
// or built in, once per instance. Every layout of the same mesh yields the
// same triangles as NewMeshRenderer.
func NewBuffersRenderer(vb fractal.VertexBuffers) (Renderer, error) {
	var unit []ms3.Vec
	switch vb.Layout {
	case fractal.Interleaved:
		const stride = 6
		if len(vb.Interleaved)%stride != 0 {
			return nil, fmt.Errorf("interleaved buffer length %d not a multiple of %d", len(vb.Interleaved), stride)
		}
		for i := 0; i < len(vb.Interleaved); i += stride {
			unit = append(unit, ms3.Vec{X: vb.Interleaved[i], Y: vb.Interleaved[i+1], Z: vb.Interleaved[i+2]})
		}
	case fractal.Separate, fractal.Flat:
		if len(vb.Positions)%3 != 0 {
			return nil, fmt.Errorf("position buffer length %d not a multiple of 3", len(vb.Positions))
		}
		for i := 0; i < len(vb.Positions); i += 3 {
			unit = append(unit, ms3.Vec{X: vb.Positions[i], Y: vb.Positions[i+1], Z: vb.Positions[i+2]})
		}
	case fractal.BuiltIn:
		unit = fractal.UnitCube().Positions
	default:
		return nil, fmt.Errorf("unknown layout %v", vb.Layout)
	}
	if len(unit) != vb.Count || len(unit)%4 != 0 {
		return nil, fmt.Errorf("%v buffers hold %d vertices, draw count is %d", vb.Layout, len(unit), vb.Count)
	}
	if vb.Layout == fractal.Flat {
		return &quadRenderer{quads: unit}, nil
	}
	quads := make([]ms3.Vec, 0, len(unit)*len(vb.Instances))
	for _, c := range vb.Instances {
		for _, u := range unit {
			quads = append(quads, ms3.Vec{
				X: c.Scale*u.X + c.Origin.X,
				Y: c.Scale*u.Y + c.Origin.Y,
				Z: c.Scale*u.Z + c.Origin.Z,
			})
		}
	}
	return &quadRenderer{quads: quads}, nil
}

func (qr *quadRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	total := len(qr.quads) / 2
	for n < len(dst) && qr.next < total {
		q := qr.quads[4*(qr.next/2):]
		if qr.next%2 == 0 {
			dst[n] = Triangle3{V: [3]r3.Vec{vec(q[0]), vec(q[1]), vec(q[2])}}
		} else {
			dst[n] = Triangle3{V: [3]r3.Vec{vec(q[0]), vec(q[2]), vec(q[3])}}
		}
		n++
		qr.next++
	}
	if n == 0 && qr.next >= total {
		return 0, io.EOF
	}
	return n, nil
}

func vec(v ms3.Vec) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
