package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// shadowAcneEpsilon keeps scattered rays from re-hitting the surface they just left
const shadowAcneEpsilon = 0.001

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	GetWorld() *geometry.HittableList
	GetSamplingConfig() SamplingConfig
}

// Raytracer traces individual camera samples through a scene
type Raytracer struct {
	scene   Scene
	world   *geometry.HittableList
	camera  *Camera
	config  SamplingConfig
	sampler core.Sampler
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(scene Scene) *Raytracer {
	return &Raytracer{
		scene:   scene,
		world:   scene.GetWorld(),
		camera:  scene.GetCamera(),
		config:  scene.GetSamplingConfig(),
		sampler: core.NewSeededSampler(42), // Deterministic for testing
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// SetSampler replaces the random source used by RenderPass
func (rt *Raytracer) SetSampler(sampler core.Sampler) {
	rt.sampler = sampler
}

// backgroundGradient returns a gradient color based on ray direction
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Vec3 {
	topColor, bottomColor := rt.scene.GetBackgroundColors()

	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}

// RayColor follows a ray for up to MaxDepth bounces. The bounce chain is
// unrolled into a loop carrying the product of attenuations, which equals
// the recursive attenuation * color(scattered) formulation.
func (rt *Raytracer) RayColor(r core.Ray, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for depth := rt.config.MaxDepth; depth > 0; depth-- {
		hit := rt.world.Hit(r, shadowAcneEpsilon, math.Inf(1))
		if !hit.IsHit() {
			return throughput.MultiplyVec(rt.backgroundGradient(r))
		}

		scatter, ok := hit.Material.Scatter(r, hit, sampler)
		if !ok {
			return throughput.MultiplyVec(material.UnsetColor)
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		r = scatter.Scattered
	}

	// Out of bounces: the remaining energy is dropped
	return core.Vec3{}
}

// SamplePixel traces one jittered sample through pixel (i, j), where j = 0 is the top row
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	jitter := sampler.Get2D()
	s := (float64(i) + jitter.X) / float64(rt.config.Width)
	t := (float64(rt.config.Height-1-j) + jitter.Y) / float64(rt.config.Height)

	ray := rt.camera.GetRay(s, t, sampler)
	return rt.RayColor(ray, sampler)
}

// vec3ToColor gamma-encodes a linear color (gamma 2) into 8-bit channels.
// Channels are clamped to [0, 0.999] before scaling by 256 so 1.0 maps to 255.
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.Sqrt().Clamp(0.0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}

// RenderPass renders the whole image on the calling goroutine and returns it
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.config.Width, rt.config.Height))
	stats := newRenderStats(rt.config.Width*rt.config.Height, rt.config.SamplesPerPixel)

	for j := 0; j < rt.config.Height; j++ {
		for i := 0; i < rt.config.Width; i++ {
			var ps PixelStats
			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				ps.AddSample(rt.SamplePixel(i, j, rt.sampler))
			}

			img.SetRGBA(i, j, vec3ToColor(ps.GetColor()))
			stats.addPixel(&ps)
		}
	}

	stats.finalize()
	return img, stats
}
