package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures a preview rendering.
type View struct {
	// Eye is the camera position, Center the point looked at and Up the up direction.
	// The model is fit into the cube [-1,1]³ before rendering.
	Eye, Center, Up r3.Vec
	// Width and Height of the output image in pixels.
	Width, Height int
	// Supersample renders at Supersample times the output size and downsamples.
	Supersample int
	// Fovy is the vertical field of view in degrees.
	Fovy       float64
	Near, Far  float64
	Color      fauxgl.Color // object color
	Background fauxgl.Color
}

// DefaultView looks at the origin from (3,3,3) with Z up.
func DefaultView() View {
	return View{
		Eye:         r3.Vec{X: 3, Y: 3, Z: 3},
		Up:          r3.Vec{Z: 1},
		Width:       640,
		Height:      480,
		Supersample: 2,
		Fovy:        30,
		Near:        1,
		Far:         10,
		Color:       fauxgl.HexColor("#468966"),
		Background:  fauxgl.HexColor("#FFF8E3"),
	}
}

// Preview renders model with phong shading.
func Preview(model []Triangle3, v View) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	if v.Width <= 0 || v.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := v.Supersample
	if scale < 1 {
		scale = 1
	}
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		ft := &fauxgl.Triangle{}
		ft.V1.Position = fv(t.V[0])
		ft.V2.Position = fv(t.V[1])
		ft.V3.Position = fv(t.V[2])
		ft.FixNormals()
		tris[i] = ft
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	mesh.BiUnitCube()

	var (
		eye    = fv(v.Eye)
		center = fv(v.Center)
		up     = fv(v.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		aspect = float64(v.Width) / float64(v.Height)
	)
	context := fauxgl.NewContext(v.Width*scale, v.Height*scale)
	context.ClearColorBufferWith(v.Background)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(v.Fovy, aspect, v.Near, v.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = v.Color
	context.Shader = shader
	context.DrawMesh(mesh)

	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(v.Width), uint(v.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePNG renders model and writes it as a PNG file at path.
func SavePNG(path string, model []Triangle3, v View) error {
	img, err := Preview(model, v)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

// RGB returns the opaque color with components in [0,1].
func RGB(r, g, b float32) fauxgl.Color {
	return fauxgl.Color{R: float64(r), G: float64(g), B: float64(b), A: 1}
}

func fv(v r3.Vec) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
