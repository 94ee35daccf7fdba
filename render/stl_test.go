package render_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/implicit/fractal"
	"github.com/soypat/implicit/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func unitCubeModel(t testing.TB) []render.Triangle3 {
	model, err := render.RenderAll(render.NewMeshRenderer(fractal.UnitCube()))
	if err != nil {
		t.Fatal(err)
	}
	return model
}

func TestSTLCreateWriteRead(t *testing.T) {
	model := unitCubeModel(t)
	path := filepath.Join(t.TempDir(), "cube.stl")
	if err := render.CreateSTL(path, render.NewSliceRenderer(model)); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	if len(bfile) != 84+50*len(model) {
		t.Fatalf("STL size %d for %d triangles", len(bfile), len(model))
	}
	got, err := render.ReadSTL(bytes.NewReader(bfile))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(model))
	}
	// Unit cube coordinates are exact in float32.
	for i := range got {
		if got[i] != model[i] {
			t.Errorf("triangle %d: got %v, want %v", i, got[i], model[i])
		}
	}
}

func TestReadSTLNormalMismatch(t *testing.T) {
	model := unitCubeModel(t)
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	data := b.Bytes()
	// Flip the stored normal of the first triangle.
	flipped := r3.Scale(-1, model[0].Normal())
	for i, v := range []float64{flipped.X, flipped.Y, flipped.Z} {
		binary.LittleEndian.PutUint32(data[84+4*i:], math.Float32bits(float32(v)))
	}
	got, err := render.ReadSTL(bytes.NewReader(data))
	if !errors.Is(err, render.ErrNormalMismatch) {
		t.Fatalf("got error %v, want ErrNormalMismatch", err)
	}
	if len(got) != len(model) {
		t.Errorf("mismatch should still return the model, got %d triangles", len(got))
	}

	// A zero normal is accepted.
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(data[84+4*i:], 0)
	}
	if _, err := render.ReadSTL(bytes.NewReader(data)); err != nil {
		t.Errorf("zero normal rejected: %v", err)
	}
}

func TestReadSTLInvalid(t *testing.T) {
	model := unitCubeModel(t)
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	valid := b.Bytes()

	if _, err := render.ReadSTL(bytes.NewReader(valid[:40])); err == nil {
		t.Error("short header accepted")
	}
	if _, err := render.ReadSTL(bytes.NewReader(valid[:84+50*3+10])); err == nil {
		t.Error("truncated body accepted")
	}

	nan := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(nan[84+12:], math.Float32bits(float32(math.NaN())))
	if _, err := render.ReadSTL(bytes.NewReader(nan)); err == nil {
		t.Error("NaN vertex accepted")
	}

	degenerate := append([]byte(nil), valid...)
	copy(degenerate[84+24:84+36], degenerate[84+12:84+24])
	if _, err := render.ReadSTL(bytes.NewReader(degenerate)); err == nil {
		t.Error("degenerate triangle accepted")
	}

	var empty [84]byte
	if _, err := render.ReadSTL(bytes.NewReader(empty[:])); err == nil {
		t.Error("zero triangle count accepted")
	}
}

func TestSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := render.WriteSTL(&b, nil); err == nil {
		t.Error("WriteSTL accepted empty model")
	}
	path := filepath.Join(t.TempDir(), "empty.stl")
	if err := render.CreateSTL(path, render.NewSliceRenderer(nil)); err == nil {
		t.Error("CreateSTL accepted empty renderer")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("failed CreateSTL left %s behind: %v", path, err)
	}
}
