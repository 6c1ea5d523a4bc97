package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/imageio"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

const (
	// DefaultScene is rendered when no scene is named.
	DefaultScene = "demo"
	// DefaultSeed drives the random scene layout and the per-tile samplers.
	DefaultSeed int64 = 42
	// DefaultTileSize is the edge length of a render tile in pixels.
	DefaultTileSize = 64
	// DefaultPasses renders every sample in one pass.
	DefaultPasses = 1
	// DefaultOutputDir holds renders when no output path is given.
	DefaultOutputDir = "output"
)

// Config captures every tunable of a render. Zero values for Width,
// SamplesPerPixel and MaxDepth keep the scene's own defaults, as do camera
// fields left out of the file.
type Config struct {
	Scene           string `json:"scene"`
	Seed            int64  `json:"seed"`
	Width           int    `json:"width,omitempty"`
	SamplesPerPixel int    `json:"samplesPerPixel,omitempty"`
	MaxDepth        int    `json:"maxDepth,omitempty"`
	TileSize        int    `json:"tileSize"`
	Workers         int    `json:"workers"` // 0 uses every CPU
	Passes          int    `json:"passes"`
	Output          string `json:"output,omitempty"`
	Camera          Camera `json:"camera"`
}

// Camera holds optional camera overrides. A nil field keeps the scene's value;
// any set field wins, including zero (aperture 0 is a pinhole camera).
type Camera struct {
	LookFrom      *[3]float64 `json:"lookFrom,omitempty"`
	LookAt        *[3]float64 `json:"lookAt,omitempty"`
	AspectRatio   *float64    `json:"aspectRatio,omitempty"`
	VFov          *float64    `json:"vfov,omitempty"`
	Aperture      *float64    `json:"aperture,omitempty"`
	FocusDistance *float64    `json:"focusDistance,omitempty"` // 0 focuses on the look-at point
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Scene:    DefaultScene,
		Seed:     DefaultSeed,
		TileSize: DefaultTileSize,
		Passes:   DefaultPasses,
	}
}

// Load reads a JSON file on top of the defaults. Fields missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every invalid field in a single error
func (c Config) Validate() error {
	var problems []string

	if !slices.Contains(scene.SceneNames(), c.Scene) {
		problems = append(problems, fmt.Sprintf("scene must be one of %s, got %q", strings.Join(scene.SceneNames(), ", "), c.Scene))
	}
	if c.Width < 0 {
		problems = append(problems, fmt.Sprintf("width must be non-negative, got %d", c.Width))
	}
	if c.SamplesPerPixel < 0 {
		problems = append(problems, fmt.Sprintf("samplesPerPixel must be non-negative, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth < 0 {
		problems = append(problems, fmt.Sprintf("maxDepth must be non-negative, got %d", c.MaxDepth))
	}
	if c.TileSize <= 0 {
		problems = append(problems, fmt.Sprintf("tileSize must be positive, got %d", c.TileSize))
	}
	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers must be non-negative, got %d", c.Workers))
	}
	if c.Passes <= 0 {
		problems = append(problems, fmt.Sprintf("passes must be positive, got %d", c.Passes))
	}
	if c.Output != "" {
		if _, _, err := imageio.ParsePath(c.Output); err != nil {
			problems = append(problems, err.Error())
		}
	}

	cam := c.Camera
	if cam.AspectRatio != nil && *cam.AspectRatio <= 0 {
		problems = append(problems, fmt.Sprintf("camera.aspectRatio must be positive, got %g", *cam.AspectRatio))
	}
	if cam.VFov != nil && (*cam.VFov <= 0 || *cam.VFov >= 180) {
		problems = append(problems, fmt.Sprintf("camera.vfov must be in (0, 180), got %g", *cam.VFov))
	}
	if cam.Aperture != nil && *cam.Aperture < 0 {
		problems = append(problems, fmt.Sprintf("camera.aperture must be non-negative, got %g", *cam.Aperture))
	}
	if cam.FocusDistance != nil && *cam.FocusDistance < 0 {
		problems = append(problems, fmt.Sprintf("camera.focusDistance must be non-negative, got %g", *cam.FocusDistance))
	}
	if cam.LookFrom != nil && cam.LookAt != nil && *cam.LookFrom == *cam.LookAt {
		problems = append(problems, "camera.lookFrom and camera.lookAt must differ")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// CameraOverrides converts the camera section into a renderer override
func (c Config) CameraOverrides() renderer.CameraOverride {
	return renderer.CameraOverride{
		Center:        vec3(c.Camera.LookFrom),
		LookAt:        vec3(c.Camera.LookAt),
		AspectRatio:   c.Camera.AspectRatio,
		VFov:          c.Camera.VFov,
		Aperture:      c.Camera.Aperture,
		FocusDistance: c.Camera.FocusDistance,
	}
}

// SceneOptions returns the options used to build the configured scene
func (c Config) SceneOptions() scene.Options {
	return scene.Options{
		Width:           c.Width,
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		Seed:            c.Seed,
		Camera:          c.CameraOverrides(),
	}
}

// ProgressiveConfig returns the render driver settings for a scene that
// takes samplesPerPixel samples per pixel
func (c Config) ProgressiveConfig(samplesPerPixel int) renderer.ProgressiveConfig {
	return renderer.ProgressiveConfig{
		TileSize:           c.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: samplesPerPixel,
		MaxPasses:          c.Passes,
		NumWorkers:         c.Workers,
		Seed:               c.Seed,
	}
}

// OutputPath returns the configured output path, or a timestamped PNG under
// output/<scene>/ when none was given
func (c Config) OutputPath(now time.Time) string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(DefaultOutputDir, c.Scene, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func vec3(v *[3]float64) *core.Vec3 {
	if v == nil {
		return nil
	}
	p := core.NewVec3(v[0], v[1], v[2])
	return &p
}
