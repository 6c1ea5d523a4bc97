package material

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Kind identifies which scattering model a surface uses
type Kind int

const (
	// Unset is the zero value. A surface built without a material renders as UnsetColor.
	Unset Kind = iota
	Lambertian
	Metal
	Dielectric
)

// UnsetColor flags surfaces that were constructed without a material
var UnsetColor = core.NewVec3(1, 0, 0)

func (k Kind) String() string {
	switch k {
	case Unset:
		return "unset"
	case Lambertian:
		return "lambertian"
	case Metal:
		return "metal"
	case Dielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Material is a small value describing how a surface scatters light.
// Only the fields relevant to Kind are used.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Attenuation for lambertian and metal
	Roughness       float64   // Metal fuzz: 0 is a perfect mirror
	RefractiveIndex float64   // Dielectric index of refraction
}

// NewLambertian creates a diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: Lambertian, Albedo: albedo}
}

// NewMetal creates a metal material; roughness is clamped to [0, 1]
func NewMetal(albedo core.Vec3, roughness float64) Material {
	return Material{Kind: Metal, Albedo: albedo, Roughness: max(0, min(1, roughness))}
}

// NewDielectric creates a clear glass-like material
func NewDielectric(refractiveIndex float64) Material {
	return Material{Kind: Dielectric, Albedo: core.NewVec3(1, 1, 1), RefractiveIndex: refractiveIndex}
}

// Scatter computes the next ray and its attenuation for a hit on this material.
// It returns false only for Unset materials; callers paint UnsetColor in that case.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case Lambertian:
		return scatterLambertian(m, rayIn, hit, sampler), true
	case Metal:
		return scatterMetal(m, rayIn, hit, sampler), true
	case Dielectric:
		return scatterDielectric(m, rayIn, hit, sampler), true
	default:
		return ScatterResult{}, false
	}
}
