// Command implicitkit meshes implicit surfaces and cube fractals described
// by a TOML scene file and writes them as STL and PNG previews.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/soypat/implicit/config"
	"github.com/soypat/implicit/form3"
	"github.com/soypat/implicit/fractal"
	"github.com/soypat/implicit/render"
)

func main() {
	var (
		flagConfig  = flag.String("config", "", "scene file (TOML). Default scene when empty")
		flagSTL     = flag.String("stl", "", "STL output path, overrides the scene")
		flagPNG     = flag.String("png", "", "PNG preview path, overrides the scene")
		flagList    = flag.Bool("list", false, "list registered primitives and exit")
		flagVerbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *flagList {
		for _, name := range form3.Default.Names() {
			fmt.Printf("%s;%s\n", name, form3.Default.ShortName(name))
		}
		return
	}
	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		cfg, err = config.Load(*flagConfig)
		if err != nil {
			logger.Error("loading scene", "err", err)
			os.Exit(1)
		}
	}
	if *flagSTL != "" {
		cfg.Output.STL = *flagSTL
	}
	if *flagPNG != "" {
		cfg.Output.PNG = *flagPNG
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if cfg.Output.STL == "" && cfg.Output.PNG == "" {
		return errors.New("no output requested")
	}
	model, err := buildModel(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("model built", "mode", cfg.Mode, "triangles", len(model))
	if cfg.Output.STL != "" {
		if err := render.CreateSTL(cfg.Output.STL, render.NewSliceRenderer(model)); err != nil {
			return fmt.Errorf("writing STL: %w", err)
		}
		logger.Info("wrote STL", "path", cfg.Output.STL)
	}
	if cfg.Output.PNG != "" {
		view, err := previewView(cfg)
		if err != nil {
			return err
		}
		if err := render.SavePNG(cfg.Output.PNG, model, view); err != nil {
			return fmt.Errorf("writing PNG: %w", err)
		}
		logger.Info("wrote PNG", "path", cfg.Output.PNG)
	}
	return nil
}

// previewView returns the preview camera for cfg. Fractals are drawn in their cube color.
func previewView(cfg config.Config) (render.View, error) {
	view := render.DefaultView()
	view.Width, view.Height = cfg.Output.Width, cfg.Output.Height
	if cfg.Mode == config.ModeFractal {
		fc, err := cfg.FractalConfig()
		if err != nil {
			return view, err
		}
		view.Color = render.RGB(fc.Color[0], fc.Color[1], fc.Color[2])
	}
	return view, nil
}

func buildModel(cfg config.Config, logger *slog.Logger) ([]render.Triangle3, error) {
	switch cfg.Mode {
	case config.ModeFractal:
		fc, err := cfg.FractalConfig()
		if err != nil {
			return nil, err
		}
		mesh, err := fractal.Generate(fc)
		if err != nil {
			return nil, err
		}
		vb := mesh.Buffers(fc.Layout)
		logger.Debug("fractal generated", "depth", fc.MaxDepth, "cubes", mesh.CubeCount(),
			"vertices", mesh.Len(), "layout", fc.Layout, "drawcount", vb.Count, "instances", len(vb.Instances))
		r, err := render.NewBuffersRenderer(vb)
		if err != nil {
			return nil, err
		}
		return render.RenderAll(r)
	case config.ModeSurface:
		s, err := cfg.NewSurface()
		if err != nil {
			return nil, err
		}
		logger.Debug("surface built", "type", cfg.Surface.Type, "bounds", s.Bounds(),
			"cells", cfg.Output.Cells, "sampling", cfg.Output.Sampling)
		mc := render.MarchingCubes
		if cfg.Output.Sampling == config.SamplingOctree {
			mc = render.MarchingCubesOctree
		}
		r, err := mc(s, cfg.Output.Cells)
		if err != nil {
			return nil, err
		}
		model, err := render.RenderAll(r)
		if err == nil && len(model) == 0 {
			err = fmt.Errorf("surface %s produced no triangles", cfg.Surface.Type)
		}
		return model, err
	}
	return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
}
