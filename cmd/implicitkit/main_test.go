package main

import (
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/implicit/config"
	"github.com/soypat/implicit/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunFractal(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Fractal.RecursionDepth = 1
	cfg.Output.STL = filepath.Join(dir, "fractal.stl")
	cfg.Output.PNG = filepath.Join(dir, "fractal.png")
	cfg.Output.Width, cfg.Output.Height = 64, 48
	require.NoError(t, run(cfg, discardLogger()))

	fp, err := os.Open(cfg.Output.STL)
	require.NoError(t, err)
	defer fp.Close()
	model, err := render.ReadSTL(fp)
	require.NoError(t, err)
	// 5 cubes, 6 quads each, 2 triangles per quad.
	assert.Len(t, model, 60)
	assert.FileExists(t, cfg.Output.PNG)
}

func TestRunFractalLayouts(t *testing.T) {
	dir := t.TempDir()
	for _, layout := range []string{"interleaved", "separate", "builtin", "flat"} {
		cfg := config.Default()
		cfg.Fractal.RecursionDepth = 2
		cfg.Fractal.RenderingMode = layout
		cfg.Output.STL = filepath.Join(dir, layout+".stl")
		require.NoError(t, run(cfg, discardLogger()), layout)
		data, err := os.ReadFile(cfg.Output.STL)
		require.NoError(t, err)
		// 17 cubes, 12 triangles each.
		assert.Equal(t, uint32(17*12), binary.LittleEndian.Uint32(data[80:84]), layout)
	}
}

func TestPreviewViewColor(t *testing.T) {
	cfg := config.Default()
	cfg.Fractal.CubeColor = [3]float32{0.25, 0.5, 1}
	view, err := previewView(cfg)
	require.NoError(t, err)
	assert.Equal(t, render.RGB(0.25, 0.5, 1), view.Color)
	assert.Equal(t, cfg.Output.Width, view.Width)

	cfg.Mode = config.ModeSurface
	view, err = previewView(cfg)
	require.NoError(t, err)
	assert.Equal(t, render.DefaultView().Color, view.Color)
}

func TestRunSurface(t *testing.T) {
	cfg, err := config.Load("../../config/testdata/skeleton.toml")
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.Output.STL = filepath.Join(dir, "skeleton.stl")
	cfg.Output.PNG = ""
	cfg.Output.Cells = 24
	require.NoError(t, run(cfg, discardLogger()))

	data, err := os.ReadFile(cfg.Output.STL)
	require.NoError(t, err)
	require.Greater(t, len(data), 84)
	count := binary.LittleEndian.Uint32(data[80:84])
	assert.NotZero(t, count)
	assert.Equal(t, 84+50*int(count), len(data))
}

func TestRunNoOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Output.STL = ""
	assert.Error(t, run(cfg, discardLogger()))
}
