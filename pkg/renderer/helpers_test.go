package renderer

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// testScene is a minimal Scene for exercising the renderer in isolation
type testScene struct {
	camera      *Camera
	world       *geometry.HittableList
	topColor    core.Vec3
	bottomColor core.Vec3
	config      SamplingConfig
}

func (s *testScene) GetCamera() *Camera                          { return s.camera }
func (s *testScene) GetBackgroundColors() (core.Vec3, core.Vec3) { return s.topColor, s.bottomColor }
func (s *testScene) GetWorld() *geometry.HittableList            { return s.world }
func (s *testScene) GetSamplingConfig() SamplingConfig           { return s.config }

// newTestScene looks down -Z from the origin with a square 90 degree view
func newTestScene(width, height, samples int, shapes ...geometry.Shape) *testScene {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: float64(width) / float64(height),
	})

	return &testScene{
		camera:      camera,
		world:       geometry.NewHittableList(shapes...),
		topColor:    core.NewVec3(0.5, 0.7, 1.0),
		bottomColor: core.NewVec3(1.0, 1.0, 1.0),
		config: SamplingConfig{
			Width:           width,
			Height:          height,
			SamplesPerPixel: samples,
			MaxDepth:        50,
		},
	}
}
