package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func basicCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 2.0,
	}
}

func TestCameraGetCameraForward(t *testing.T) {
	camera := NewCamera(basicCameraConfig())

	forward := camera.GetCameraForward()
	expected := core.NewVec3(0, 0, -1)

	if !vecClose(forward, expected, 1e-9) {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCameraRayThroughViewport(t *testing.T) {
	camera := NewCamera(basicCameraConfig())
	sampler := core.NewSeededSampler(1)

	// vfov 90 gives a viewport 2 high at focus distance 1, 4 wide at aspect 2
	tests := []struct {
		name      string
		s, t      float64
		direction core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1)},
		{"top center", 0.5, 1, core.NewVec3(0, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, sampler)
			if !vecClose(ray.Origin, core.NewVec3(0, 0, 0), 1e-12) {
				t.Errorf("Pinhole camera ray should start at the camera center, got %v", ray.Origin)
			}
			if !vecClose(ray.Direction, tt.direction, 1e-9) {
				t.Errorf("Expected direction %v, got %v", tt.direction, ray.Direction)
			}
		})
	}
}

func TestCameraFocusDistanceDefaultsToLookAt(t *testing.T) {
	config := basicCameraConfig()
	config.LookAt = core.NewVec3(0, 0, -5)
	camera := NewCamera(config)

	// The center ray reaches the focus plane exactly at the look-at point
	ray := camera.GetRay(0.5, 0.5, core.NewSeededSampler(1))
	if !vecClose(ray.At(1), config.LookAt, 1e-9) {
		t.Errorf("Expected center ray to reach %v at t=1, got %v", config.LookAt, ray.At(1))
	}
}

func TestCameraApertureOffsetsOrigin(t *testing.T) {
	config := basicCameraConfig()
	config.Aperture = 0.5
	config.FocusDistance = 3
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(7)

	focusPoint := core.NewVec3(0, 0, -3)
	moved := false
	for i := 0; i < 200; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)

		if ray.Origin.Z != 0 {
			t.Fatalf("Lens offset must stay in the lens plane, got origin %v", ray.Origin)
		}
		if ray.Origin.Length() > config.Aperture/2+1e-12 {
			t.Fatalf("Lens offset %v exceeds lens radius %f", ray.Origin, config.Aperture/2)
		}
		if ray.Origin.Length() > 0 {
			moved = true
		}

		// Every lens sample converges on the same point of the focus plane
		if !vecClose(ray.At(1), focusPoint, 1e-9) {
			t.Fatalf("Expected ray to pass through focus point %v, got %v", focusPoint, ray.At(1))
		}
	}

	if !moved {
		t.Error("Expected at least one lens sample away from the center")
	}
}

func TestCameraShutterTime(t *testing.T) {
	t.Run("stationary shutter", func(t *testing.T) {
		config := basicCameraConfig()
		config.Time0 = 2
		config.Time1 = 2
		camera := NewCamera(config)

		ray := camera.GetRay(0.5, 0.5, core.NewSeededSampler(1))
		if ray.Time != 2 {
			t.Errorf("Expected ray time 2, got %f", ray.Time)
		}
	})

	t.Run("open shutter", func(t *testing.T) {
		config := basicCameraConfig()
		config.Time0 = 0
		config.Time1 = 1
		camera := NewCamera(config)
		sampler := core.NewSeededSampler(3)

		distinct := make(map[float64]bool)
		for i := 0; i < 100; i++ {
			ray := camera.GetRay(0.5, 0.5, sampler)
			if ray.Time < 0 || ray.Time >= 1 {
				t.Fatalf("Ray time %f outside shutter window [0, 1)", ray.Time)
			}
			distinct[ray.Time] = true
		}
		if len(distinct) < 50 {
			t.Errorf("Expected ray times spread over the shutter window, got %d distinct values", len(distinct))
		}
	})
}

func TestCameraOverrideApply(t *testing.T) {
	base := basicCameraConfig()
	base.Center = core.NewVec3(3, 3, 2)
	base.Aperture = 0.1

	center := core.NewVec3(1, 2, 3)
	vfov := 20.0
	merged := CameraOverride{Center: &center, VFov: &vfov}.Apply(base)

	if merged.Center != center {
		t.Errorf("Expected overridden center, got %v", merged.Center)
	}
	if merged.VFov != 20 {
		t.Errorf("Expected overridden vfov 20, got %f", merged.VFov)
	}
	if merged.LookAt != base.LookAt || merged.Up != base.Up {
		t.Errorf("Unset override vectors should keep base values, got %+v", merged)
	}
	if merged.Aperture != 0.1 || merged.AspectRatio != 2.0 {
		t.Errorf("Unset override scalars should keep base values, got %+v", merged)
	}
}

func TestCameraOverrideApplyZeroValues(t *testing.T) {
	base := basicCameraConfig()
	base.Center = core.NewVec3(0, 0, 5)
	base.LookAt = core.NewVec3(0, 0, -1)
	base.Aperture = 0.1
	base.Time1 = 1

	origin := core.Vec3{}
	zero := 0.0
	merged := CameraOverride{LookAt: &origin, Aperture: &zero, Time1: &zero}.Apply(base)

	if merged.LookAt != origin {
		t.Errorf("Expected look-at at the origin, got %v", merged.LookAt)
	}
	if merged.Aperture != 0 {
		t.Errorf("Expected pinhole aperture, got %f", merged.Aperture)
	}
	if merged.Time1 != 0 {
		t.Errorf("Expected closed shutter window, got time1=%f", merged.Time1)
	}
	if merged.Center != base.Center {
		t.Errorf("Expected center to stay %v, got %v", base.Center, merged.Center)
	}

	// A pinhole camera puts every ray origin at the center
	camera := NewCamera(merged)
	sampler := core.NewSeededSampler(3)
	for i := 0; i < 20; i++ {
		if ray := camera.GetRay(sampler.Get1D(), sampler.Get1D(), sampler); ray.Origin != merged.Center {
			t.Fatalf("Expected ray origin %v with zero aperture, got %v", merged.Center, ray.Origin)
		}
	}
}
