package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	stlHeaderSize   = 84 // 80 byte comment and uint32 triangle count
	stlTriangleSize = 50
	// trianglesInBuffer is the batch size when streaming from a Renderer.
	trianglesInBuffer = 1 << 10
)

// ErrNormalMismatch is returned by ReadSTL alongside the model when stored
// normals disagree with the vertex winding. The model may still be usable.
var ErrNormalMismatch = errors.New("stl: stored normal does not match vertex winding")

// WriteSTL writes model triangles to a writer in binary STL format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	bw := bufio.NewWriter(w)
	var header [stlHeaderSize]byte
	binary.LittleEndian.PutUint32(header[80:], uint32(len(model)))
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	var b [stlTriangleSize]byte
	for _, t := range model {
		putSTLTriangle(b[:], t)
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CreateSTL streams the triangles of r into a binary STL file at path.
// The triangle count in the header is written once r is exhausted.
// On failure no file is left at path.
func CreateSTL(path string, r Renderer) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	if _, err = file.Seek(stlHeaderSize, io.SeekStart); err != nil {
		return err
	}
	bw := bufio.NewWriterSize(file, stlTriangleSize*trianglesInBuffer)
	buf := make([]Triangle3, trianglesInBuffer)
	var (
		b     [stlTriangleSize]byte
		count uint32
	)
	for {
		nt, rerr := r.ReadTriangles(buf)
		for _, t := range buf[:nt] {
			putSTLTriangle(b[:], t)
			if _, err = bw.Write(b[:]); err != nil {
				return err
			}
			count++
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}
	if count == 0 {
		return errors.New("renderer produced no triangles")
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	var header [stlHeaderSize]byte
	binary.LittleEndian.PutUint32(header[80:], count)
	_, err = file.WriteAt(header[:], 0)
	return err
}

// ReadSTL reads a binary STL model. Triangles with non-finite values or
// coincident vertices are rejected. Normal mismatches are reported with
// ErrNormalMismatch once all triangles are read.
func ReadSTL(r io.Reader) ([]Triangle3, error) {
	var header [stlHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("stl: encountered EOF while reading header")
		}
		return nil, fmt.Errorf("stl: header read failed: %w", err)
	}
	count := binary.LittleEndian.Uint32(header[80:])
	if count == 0 {
		return nil, errors.New("stl: header indicates 0 triangles present")
	}
	var (
		b          [stlTriangleSize]byte
		t          stlTriangle
		mismatches int
	)
	model := make([]Triangle3, 0, count)
	for i := 0; i < int(count); i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("stl: %d/%d triangles read: %w", i, count, err)
		}
		t.get(b[:])
		if err := t.validate(); err != nil {
			if !errors.Is(err, ErrNormalMismatch) {
				return nil, fmt.Errorf("stl: triangle %d: %w", i, err)
			}
			mismatches++
		}
		model = append(model, t.toTriangle3())
	}
	if mismatches > 0 {
		return model, fmt.Errorf("%d triangles: %w", mismatches, ErrNormalMismatch)
	}
	return model, nil
}

// stlTriangle is the on-disk form of a triangle. The trailing
// attribute byte count is always written as zero.
type stlTriangle struct {
	Normal [3]float32
	V      [3][3]float32
}

func putSTLTriangle(b []byte, t Triangle3) {
	_ = b[stlTriangleSize-1]
	put3F32(b, t.Normal())
	for i, v := range t.V {
		put3F32(b[12+12*i:], v)
	}
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func put3F32(b []byte, v r3.Vec) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}

func (t *stlTriangle) get(b []byte) {
	_ = b[stlTriangleSize-1]
	get3F32(b, &t.Normal)
	for i := range t.V {
		get3F32(b[12+12*i:], &t.V[i])
	}
}

func get3F32(b []byte, f *[3]float32) {
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func (t stlTriangle) validate() error {
	const (
		degenerateTol = 1e-12
		normalTol     = 5e-2
	)
	if !finite3F32(t.Normal) {
		return errors.New("inf/NaN normal")
	}
	for _, v := range t.V {
		if !finite3F32(v) {
			return errors.New("inf/NaN vertex")
		}
	}
	tri := t.toTriangle3()
	if tri.Degenerate(degenerateTol) {
		return errors.New("triangle is degenerate")
	}
	// The zero normal is allowed by the format and means "compute it yourself".
	if t.Normal == ([3]float32{}) {
		return nil
	}
	n := tri.Normal()
	calc := [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
	if !equalWithin3F32(calc, t.Normal, normalTol) {
		return ErrNormalMismatch
	}
	return nil
}

func (t stlTriangle) toTriangle3() Triangle3 {
	return Triangle3{V: [3]r3.Vec{
		r3From3F32(t.V[0]),
		r3From3F32(t.V[1]),
		r3From3F32(t.V[2]),
	}}
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func finite3F32(f [3]float32) bool {
	for _, v := range f {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}
