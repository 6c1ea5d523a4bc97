package material

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection.
//
// The sentinel returned by NoHit has T = +Inf, and every real
// hit has a finite T. Comparing T against a running closest distance is
// therefore enough to pick the nearest hit without a separate flag.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, always opposing the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// NoHit returns the sentinel record used before any surface is hit
func NoHit() HitRecord {
	return HitRecord{T: math.Inf(1)}
}

// IsHit reports whether the record describes a real intersection
func (h HitRecord) IsHit() bool {
	return h.T < math.Inf(1)
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
