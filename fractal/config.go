package fractal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// MaxSupportedDepth bounds the recursion depth. Depth 12 already emits
// over two million vertices.
const MaxSupportedDepth = 12

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid fractal config")

// Layout selects how a Mesh is laid out in vertex buffers.
type Layout int

const (
	// Interleaved alternates position and normal per vertex.
	Interleaved Layout = iota
	// Separate stores positions and normals in two buffers.
	Separate
	// BuiltIn draws each cube of the recursion through the unit cube buffers.
	BuiltIn
	// Flat stores the whole fractal in two separate buffers.
	Flat
)

var layoutNames = [...]string{
	Interleaved: "interleaved",
	Separate:    "separate",
	BuiltIn:     "builtin",
	Flat:        "flat",
}

func (l Layout) String() string {
	if l < 0 || int(l) >= len(layoutNames) {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layoutNames[l]
}

// ParseLayout parses a layout name. Matching is case insensitive.
func ParseLayout(s string) (Layout, error) {
	for i, name := range layoutNames {
		if strings.EqualFold(s, name) {
			return Layout(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown layout %q", ErrInvalidConfig, s)
}

// Color is an RGB color with components in [0,1].
type Color [3]float32

// Config holds the fractal parameters.
type Config struct {
	// MaxDepth is the recursion depth. Depth 0 emits the root cube only.
	MaxDepth int
	// Color of the root cube.
	Color Color
	// Layout is the buffer layout consumers should use.
	Layout Layout
}

// DefaultConfig returns a depth 3 fractal.
func DefaultConfig() Config {
	return Config{
		MaxDepth: 3,
		Color:    Color{0.8, 0.3, 0.2},
		Layout:   Interleaved,
	}
}

// Validate checks the depth range, color components and layout.
func (c Config) Validate() error {
	if c.MaxDepth < 0 || c.MaxDepth > MaxSupportedDepth {
		return fmt.Errorf("%w: depth %d outside [0,%d]", ErrInvalidConfig, c.MaxDepth, MaxSupportedDepth)
	}
	for i, v := range c.Color {
		if math32.IsNaN(v) || math32.IsInf(v, 0) || v < 0 || v > 1 {
			return fmt.Errorf("%w: color component %d is %v", ErrInvalidConfig, i, v)
		}
	}
	if c.Layout < Interleaved || c.Layout > Flat {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Layout)
	}
	return nil
}
