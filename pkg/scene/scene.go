package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	World          *geometry.HittableList // Objects in the scene
	TopColor       core.Vec3              // Sky color straight up
	BottomColor    core.Vec3              // Sky color straight down
	SamplingConfig renderer.SamplingConfig
	CameraConfig   renderer.CameraConfig
}

// GetCamera returns the scene's camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetBackgroundColors returns the sky gradient endpoints
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetWorld returns the intersectable surfaces
func (s *Scene) GetWorld() *geometry.HittableList {
	return s.World
}

// GetSamplingConfig returns the sampling configuration
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// GetPrimitiveCount returns the total number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// newScene builds an empty scene under the standard blue sky. cameraOverrides
// are applied in order on top of cameraConfig; the image height follows the aspect ratio.
func newScene(cameraConfig renderer.CameraConfig, width int, sampling renderer.SamplingConfig, cameraOverrides []renderer.CameraOverride) *Scene {
	for _, override := range cameraOverrides {
		cameraConfig = override.Apply(cameraConfig)
	}

	s := &Scene{
		Camera:         renderer.NewCamera(cameraConfig),
		World:          geometry.NewHittableList(),
		TopColor:       core.NewVec3(0.5, 0.7, 1.0), // Blue sky
		BottomColor:    core.NewVec3(1.0, 1.0, 1.0), // White horizon
		SamplingConfig: sampling,
		CameraConfig:   cameraConfig,
	}
	s.SetWidth(width)

	return s
}

// SetWidth resizes the output image, deriving the height from the camera's aspect ratio
func (s *Scene) SetWidth(width int) {
	if width <= 0 {
		return
	}
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = max(1, int(float64(width)/s.CameraConfig.AspectRatio))
}
