package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Small spheres span [-randomGridExtent, randomGridExtent) on both axes.
// Moving spheres travel over [0, movingShutterClose].
const (
	randomGridExtent   = 11
	smallSphereRadius  = 0.2
	movingShutterClose = 10.0
)

// NewRandomScene creates a field of small random spheres around three large
// feature spheres. The layout depends only on seed.
func NewRandomScene(seed int64, cameraOverrides ...renderer.CameraOverride) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
		Time0:         0.0,
		Time1:         1.0,
	}

	s := newScene(defaultCameraConfig, 600, renderer.SamplingConfig{
		SamplesPerPixel: 50,
		MaxDepth:        50,
	}, cameraOverrides)

	sampler := core.NewSeededSampler(seed)

	s.World.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	keepClear := core.NewVec3(4, smallSphereRadius, 0)
	for a := -randomGridExtent; a < randomGridExtent; a++ {
		for b := -randomGridExtent; b < randomGridExtent; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				smallSphereRadius,
				float64(b)+0.9*sampler.Get1D(),
			)

			if center.Subtract(keepClear).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.6:
				albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
				s.World.Add(geometry.NewSphere(center, smallSphereRadius, material.NewLambertian(albedo)))
			case chooseMat < 0.8:
				albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
				center1 := center.Add(core.NewVec3(0, core.RandomRange(sampler, 0, 0.5), 0))
				s.World.Add(geometry.NewMovingSphere(center, center1, 0, movingShutterClose, smallSphereRadius, material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				albedo := core.RandomVec3Range(sampler, 0.5, 1.0)
				roughness := core.RandomRange(sampler, 0, 0.5)
				s.World.Add(geometry.NewSphere(center, smallSphereRadius, material.NewMetal(albedo, roughness)))
			default:
				s.World.Add(geometry.NewSphere(center, smallSphereRadius, material.NewDielectric(1.5)))
			}
		}
	}

	s.World.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}
