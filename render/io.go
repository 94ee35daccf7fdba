package render

import "io"

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like io.ReadAll.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// SliceRenderer streams an in-memory triangle slice.
type SliceRenderer struct {
	buf []Triangle3
}

// NewSliceRenderer returns a Renderer over model. The slice is not copied.
func NewSliceRenderer(model []Triangle3) *SliceRenderer {
	return &SliceRenderer{buf: model}
}

// ReadTriangles implements Renderer.
func (s *SliceRenderer) ReadTriangles(dst []Triangle3) (int, error) {
	if len(s.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(dst, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Len returns the number of triangles not yet read.
func (s *SliceRenderer) Len() int { return len(s.buf) }
