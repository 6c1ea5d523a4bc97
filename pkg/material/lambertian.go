package material

import "github.com/df07/go-sphere-raytracer/pkg/core"

// scatterLambertian bounces toward normal + a random unit vector, which gives
// a cosine-weighted distribution about the normal
func scatterLambertian(m Material, rayIn core.Ray, hit HitRecord, sampler core.Sampler) ScatterResult {
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	// The random vector can cancel the normal almost exactly
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, scatterDirection, rayIn.Time),
		Attenuation: m.Albedo,
	}
}
