// Package config loads implicitkit scene files.
//
// A scene file is TOML and selects either an implicit surface, built through
// the primitive registry, or a cube fractal. Unknown keys are rejected.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form3"
	"github.com/soypat/implicit/form3/must3"
	"github.com/soypat/implicit/fractal"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene modes.
const (
	ModeSurface = "surface"
	ModeFractal = "fractal"
)

// Marching cubes sampling strategies.
const (
	SamplingUniform = "uniform"
	SamplingOctree  = "octree"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is a scene file.
type Config struct {
	Mode    string  `toml:"mode"`
	Surface Surface `toml:"surface"`
	Fractal Fractal `toml:"fractal"`
	Output  Output  `toml:"output"`
}

// Surface selects and parameterizes a registered primitive.
type Surface struct {
	// Type is a registry type name or short name, i.e. "distance_surface" or "D".
	Type   string       `toml:"type"`
	Radius float64      `toml:"radius"`
	Points [][3]float64 `toml:"points"`
	Edges  [][2]int     `toml:"edges"`
}

// Fractal parameterizes the cube fractal.
type Fractal struct {
	RecursionDepth int        `toml:"recursion_depth"`
	CubeColor      [3]float32 `toml:"cube_color"`
	RenderingMode  string     `toml:"rendering_mode"`
}

// Output controls meshing and the written files.
type Output struct {
	STL string `toml:"stl"`
	PNG string `toml:"png"`
	// Cells is the marching cubes resolution along the longest axis.
	Cells int `toml:"cells"`
	// Sampling is SamplingUniform or SamplingOctree.
	Sampling string `toml:"sampling"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
}

// Default returns a depth 3 fractal scene written to fractal.stl.
func Default() Config {
	fc := fractal.DefaultConfig()
	return Config{
		Mode: ModeFractal,
		Surface: Surface{
			Type:   "sphere",
			Radius: must3.DefaultRadius,
		},
		Fractal: Fractal{
			RecursionDepth: fc.MaxDepth,
			CubeColor:      fc.Color,
			RenderingMode:  fc.Layout.String(),
		},
		Output: Output{
			STL:      "fractal.stl",
			Cells:    64,
			Sampling: SamplingUniform,
			Width:    640,
			Height:   480,
		},
	}
}

// Load reads and validates the scene file at path.
func Load(path string) (Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	cfg, err := Parse(fp)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a scene over Default and validates it.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding scene: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the scene for consistency.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeSurface:
		if err := c.Surface.validate(); err != nil {
			return err
		}
		if c.Output.Sampling == SamplingOctree && !c.Surface.distanceBound() {
			return fmt.Errorf("%w: %s sampling needs a distance bound surface, %q is not",
				ErrInvalid, SamplingOctree, c.Surface.Type)
		}
	case ModeFractal:
		if _, err := c.FractalConfig(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	return c.Output.validate()
}

func (s Surface) validate() error {
	if _, ok := form3.Default.Lookup(s.Type); !ok {
		return fmt.Errorf("%w: surface type %q: %v", ErrInvalid, s.Type, form3.ErrUnknownPrimitive)
	}
	if s.Radius < 0 || math.IsNaN(s.Radius) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: surface radius %v", ErrInvalid, s.Radius)
	}
	for i, e := range s.Edges {
		for _, pi := range e {
			if pi < 0 || pi >= len(s.Points) {
				return fmt.Errorf("%w: edge %d references point %d of %d", ErrInvalid, i, pi, len(s.Points))
			}
		}
	}
	return nil
}

// distanceBound builds the surface type over an empty skeleton and reports
// whether it never overestimates distance.
func (s Surface) distanceBound() bool {
	shape, err := form3.New(s.Type, form3.Params{Radius: s.Radius, Skeleton: &implicit.Skeleton{}})
	return err == nil && implicit.IsDistanceBound(shape)
}

func (o Output) validate() error {
	if o.Cells < 2 {
		return fmt.Errorf("%w: output cells %d < 2", ErrInvalid, o.Cells)
	}
	if o.Sampling != SamplingUniform && o.Sampling != SamplingOctree {
		return fmt.Errorf("%w: sampling %q", ErrInvalid, o.Sampling)
	}
	if o.PNG != "" && (o.Width <= 0 || o.Height <= 0) {
		return fmt.Errorf("%w: preview size %dx%d", ErrInvalid, o.Width, o.Height)
	}
	return nil
}

// Skeleton builds the surface skeleton from the configured points and edges.
func (c Config) Skeleton() (*implicit.Skeleton, error) {
	points := make([]r3.Vec, len(c.Surface.Points))
	for i, p := range c.Surface.Points {
		points[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
	}
	edges := make([]implicit.Edge, len(c.Surface.Edges))
	for i, e := range c.Surface.Edges {
		edges[i] = implicit.Edge(e)
	}
	return implicit.NewSkeleton(points, edges)
}

// Params returns the registry parameters of the configured surface.
// A skeleton is only built when points are configured.
func (c Config) Params() (form3.Params, error) {
	p := form3.Params{Radius: c.Surface.Radius}
	if len(c.Surface.Points) == 0 {
		return p, nil
	}
	sk, err := c.Skeleton()
	if err != nil {
		return p, err
	}
	p.Skeleton = sk
	return p, nil
}

// NewSurface builds the configured surface from the Default registry.
func (c Config) NewSurface() (implicit.SDF3, error) {
	p, err := c.Params()
	if err != nil {
		return nil, err
	}
	return form3.New(c.Surface.Type, p)
}

// FractalConfig returns the validated fractal parameters.
func (c Config) FractalConfig() (fractal.Config, error) {
	layout, err := fractal.ParseLayout(c.Fractal.RenderingMode)
	if err != nil {
		return fractal.Config{}, err
	}
	fc := fractal.Config{
		MaxDepth: c.Fractal.RecursionDepth,
		Color:    fractal.Color(c.Fractal.CubeColor),
		Layout:   layout,
	}
	if err := fc.Validate(); err != nil {
		return fractal.Config{}, err
	}
	return fc, nil
}
