package renderer

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// CameraConfig describes a thin-lens camera with an optional shutter window
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look-from)
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // Up direction, must not be parallel to LookAt-Center
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter; 0 disables depth of field
	FocusDistance float64   // Distance to the plane of focus; 0 uses |LookAt-Center|
	Time0         float64   // Shutter open
	Time1         float64   // Shutter close; equal to Time0 disables motion blur
}

// CameraOverride replaces selected fields of a camera configuration. Nil
// fields keep the base value, so zero is a valid override (a pinhole
// aperture, a look-at at the origin).
type CameraOverride struct {
	Center        *core.Vec3
	LookAt        *core.Vec3
	Up            *core.Vec3
	VFov          *float64
	AspectRatio   *float64
	Aperture      *float64
	FocusDistance *float64
	Time0         *float64
	Time1         *float64
}

// Apply returns base with every set field of the override applied on top
func (o CameraOverride) Apply(base CameraConfig) CameraConfig {
	result := base

	setVec3(&result.Center, o.Center)
	setVec3(&result.LookAt, o.LookAt)
	setVec3(&result.Up, o.Up)
	setFloat(&result.VFov, o.VFov)
	setFloat(&result.AspectRatio, o.AspectRatio)
	setFloat(&result.Aperture, o.Aperture)
	setFloat(&result.FocusDistance, o.FocusDistance)
	setFloat(&result.Time0, o.Time0)
	setFloat(&result.Time1, o.Time1)

	return result
}

func setVec3(dst *core.Vec3, v *core.Vec3) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// Camera generates rays for rendering. It is immutable once built and safe to
// share between workers.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
	time0, time1    float64
}

// NewCamera derives the camera basis from its configuration
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	// w points backwards out of the lens, u to the right, v up
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.Center
	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		time0:           config.Time0,
		time1:           config.Time1,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1 and
// t = 1 is the top of the image
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	time := c.time0
	if c.time1 != c.time0 {
		time = core.RandomRange(sampler, c.time0, c.time1)
	}

	return core.NewRayAtTime(origin, direction, time)
}

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}
