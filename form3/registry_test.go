package form3_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDefaultRegistryNames(t *testing.T) {
	assert.Equal(t, []string{"box", "distance_surface", "sphere"}, form3.Default.Names())
	for name, short := range map[string]string{
		"box":              "B",
		"sphere":           "S",
		"distance_surface": "D",
	} {
		assert.Equal(t, short, form3.Default.ShortName(name), name)
		_, ok := form3.Default.Lookup(short)
		assert.True(t, ok, "short name %s not registered", short)
	}
	assert.Empty(t, form3.Default.ShortName("torus"))
}

func TestNewByName(t *testing.T) {
	for _, name := range []string{"box", "B", "sphere", "S"} {
		s, err := form3.New(name, form3.DefaultParams())
		require.NoError(t, err, name)
		assert.InDelta(t, -1, s.Evaluate(r3.Vec{}), 1e-12, name)
		assert.InDelta(t, 0, s.Evaluate(r3.Vec{X: 1}), 1e-12, name)
	}

	sk, err := implicit.NewSkeleton([]r3.Vec{{}, {X: 1}}, []implicit.Edge{{0, 1}})
	require.NoError(t, err)
	p := form3.DefaultParams()
	p.Skeleton = sk
	for _, name := range []string{"distance_surface", "D"} {
		s, err := form3.New(name, p)
		require.NoError(t, err, name)
		assert.InDelta(t, 1-p.Radius, s.Evaluate(r3.Vec{X: 0.5, Y: 1}), 1e-12, name)
	}
}

func TestNewErrors(t *testing.T) {
	_, err := form3.New("torus", form3.DefaultParams())
	assert.ErrorIs(t, err, form3.ErrUnknownPrimitive)

	_, err = form3.New("distance_surface", form3.DefaultParams())
	assert.Error(t, err, "distance surface without skeleton")

	pt := r3.Vec{X: 1}
	sk, err := implicit.NewSkeleton([]r3.Vec{{}, pt, pt}, []implicit.Edge{{0, 1}, {1, 2}})
	require.NoError(t, err)
	_, err = form3.New("D", form3.Params{Radius: 1, Skeleton: sk})
	assert.ErrorIs(t, err, form3.ErrDegenerateSkeleton)
}

func TestDistanceSurfaceShapeError(t *testing.T) {
	var sk implicit.Skeleton
	for _, radius := range []float64{-1, math.NaN()} {
		s, err := form3.DistanceSurface(&sk, radius)
		assert.Nil(t, s)
		var shapeErr *form3.ShapeError
		require.True(t, errors.As(err, &shapeErr), "radius %v: got %v", radius, err)
		assert.NotEmpty(t, shapeErr.Stack())
		assert.NotEmpty(t, shapeErr.Error())
	}
	_, err := form3.DistanceSurface(nil, 1)
	var shapeErr *form3.ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}

func TestDetach(t *testing.T) {
	sk, err := implicit.NewSkeleton([]r3.Vec{{}, {X: 1}}, []implicit.Edge{{0, 1}})
	require.NoError(t, err)
	s, err := form3.DistanceSurface(sk, 0)
	require.NoError(t, err)
	form3.Detach(s)
	assert.InDelta(t, 1, s.Evaluate(r3.Vec{X: 2}), 1e-12)
	// Edges added after detaching are not seen by the surface cache,
	// a new surface picks them up.
	_, err = sk.AddEdge(1, sk.AddPoint(r3.Vec{X: 2}))
	require.NoError(t, err)
	fresh, err := form3.DistanceSurface(sk, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, fresh.Evaluate(r3.Vec{X: 2}), 1e-12)

	box, err := form3.Box()
	require.NoError(t, err)
	form3.Detach(box)
}

func TestRegister(t *testing.T) {
	r := form3.NewRegistry()
	ctor := func(form3.Params) (implicit.SDF3, error) { return form3.Sphere() }

	require.NoError(t, r.Register("ball;O", ctor))
	require.NoError(t, r.Register(" orb ", ctor))
	assert.Equal(t, []string{"ball", "orb"}, r.Names())
	assert.Equal(t, "O", r.ShortName("ball"))
	assert.Equal(t, "", r.ShortName("orb"))

	assert.ErrorIs(t, r.Register("ball", ctor), form3.ErrDuplicatePrimitive)
	assert.ErrorIs(t, r.Register("globe;O", ctor), form3.ErrDuplicatePrimitive)
	assert.ErrorIs(t, r.Register("O", ctor), form3.ErrDuplicatePrimitive)
	assert.Error(t, r.Register(";X", ctor))
	assert.Error(t, r.Register("cube", nil))
	// Failed registrations must not leave partial entries.
	_, ok := r.Lookup("globe")
	assert.False(t, ok)
	assert.Len(t, r.Names(), 2)

	s, err := r.New("O", form3.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 3, s.Evaluate(r3.Vec{Z: 2}), 1e-12)

	_, err = r.New("box", form3.Params{})
	assert.ErrorIs(t, err, form3.ErrUnknownPrimitive)
}
