package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/imageio"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, renders the configured scene and saves the image
func run(args []string, stdout io.Writer) error {
	cfg, err := parseConfig(args, stdout)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Starting Sphere Raytracer...")

	selectedScene, err := createScene(cfg)
	if err != nil {
		return err
	}

	samplingConfig := selectedScene.GetSamplingConfig()
	fmt.Fprintf(stdout, "Using %s scene: %dx%d, %d samples per pixel, max depth %d, %d spheres\n",
		cfg.Scene, samplingConfig.Width, samplingConfig.Height,
		samplingConfig.SamplesPerPixel, samplingConfig.MaxDepth, selectedScene.GetPrimitiveCount())

	progressive := renderer.NewProgressiveRaytracer(selectedScene, cfg.ProgressiveConfig(samplingConfig.SamplesPerPixel), renderer.NewDefaultLogger())

	startTime := time.Now()
	img, stats, err := progressive.Render(context.Background())
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Fprintf(stdout, "Render completed in %v\n", time.Since(startTime))
	fmt.Fprintf(stdout, "Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	fmt.Fprintf(stdout, "Mean luminance: %.4f (encoded %.4f), mean pixel variance: %.5f\n",
		stats.MeanLuminance, renderer.CalculateAverageLuminance(img), stats.MeanPixelVariance)

	filename := cfg.OutputPath(time.Now())
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imageio.Save(filename, img); err != nil {
		return fmt.Errorf("failed to save render: %w", err)
	}

	fmt.Fprintf(stdout, "Render saved as %s\n", filename)
	return nil
}

// parseConfig layers command line flags over an optional JSON config file over
// the defaults. Only flags that were set on the command line override the file.
func parseConfig(args []string, stdout io.Writer) (config.Config, error) {
	defaults := config.Default()

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stdout)

	sceneName := fs.String("scene", defaults.Scene, "Scene type: 'demo', 'random' or 'spheregrid'")
	seed := fs.Int64("seed", defaults.Seed, "Random seed for the scene layout and sampling")
	width := fs.Int("width", 0, "Image width in pixels (0 = scene default)")
	samples := fs.Int("samples", 0, "Samples per pixel (0 = scene default)")
	depth := fs.Int("depth", 0, "Maximum ray bounce depth (0 = scene default)")
	workers := fs.Int("workers", defaults.Workers, "Number of parallel workers (0 = auto-detect CPU count)")
	passes := fs.Int("passes", defaults.Passes, "Number of progressive passes")
	configPath := fs.String("config", "", "Path to a JSON render configuration")
	output := fs.String("output", "", "Output file (.png, .ppm, .bmp, .tif, optionally .zst or .sz); default output/<scene>/render_<timestamp>.png")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	if *help {
		printHelp(fs, stdout)
		return config.Config{}, flag.ErrHelp
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "seed":
			cfg.Seed = *seed
		case "width":
			cfg.Width = *width
		case "samples":
			cfg.SamplesPerPixel = *samples
		case "depth":
			cfg.MaxDepth = *depth
		case "workers":
			cfg.Workers = *workers
		case "passes":
			cfg.Passes = *passes
		case "output":
			cfg.Output = *output
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func printHelp(fs *flag.FlagSet, stdout io.Writer) {
	fmt.Fprintln(stdout, "Sphere Raytracer")
	fmt.Fprintln(stdout, "Usage: raytracer [options]")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Available scenes:")
	for _, group := range scene.ListAllScenes().Groups {
		for _, info := range group.Scenes {
			fmt.Fprintf(stdout, "  %-10s - %s\n", info.ID, info.Description)
		}
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Output will be saved to output/<scene>/render_<timestamp>.png unless -output is given")
}

// createScene builds the configured scene
func createScene(cfg config.Config) (*scene.Scene, error) {
	s, err := scene.Create(cfg.Scene, cfg.SceneOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	return s, nil
}
