package material

import "github.com/df07/go-sphere-raytracer/pkg/core"

// scatterMetal reflects about the normal and perturbs the result by a random
// unit vector scaled by roughness. Fuzzed rays that end up below the surface
// are traced as-is.
func scatterMetal(m Material, rayIn core.Ray, hit HitRecord, sampler core.Sampler) ScatterResult {
	reflected := core.Reflect(rayIn.Direction.Normalize(), hit.Normal)
	if m.Roughness > 0 {
		reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Roughness))
	}

	return ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, reflected, rayIn.Time),
		Attenuation: m.Albedo,
	}
}
