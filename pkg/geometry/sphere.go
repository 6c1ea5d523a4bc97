package geometry

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Sphere represents a sphere whose center may move linearly between two shutter times
type Sphere struct {
	Center0  core.Vec3 // Center at Time0
	Center1  core.Vec3 // Center at Time1
	Radius   float64
	Material material.Material
	Time0    float64
	Time1    float64
	moving   bool
}

// NewSphere creates a stationary sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center0:  center,
		Center1:  center,
		Radius:   radius,
		Material: mat,
	}
}

// NewMovingSphere creates a sphere that travels from center0 at time0 to center1 at time1.
// time0 and time1 must differ.
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center0:  center0,
		Center1:  center1,
		Radius:   radius,
		Material: mat,
		Time0:    time0,
		Time1:    time1,
		moving:   true,
	}
}

// Center returns the sphere center at the given time
func (s *Sphere) Center(time float64) core.Vec3 {
	if !s.moving {
		return s.Center0
	}
	if time == s.Time1 {
		return s.Center1
	}
	fraction := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(fraction))
}

// Hit tests if a ray intersects with the sphere.
// Only the nearer root is considered and it must lie strictly inside (tMin, tMax).
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	center := s.Center(ray.Time)
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.LengthSquared()
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return material.HitRecord{}, false
	}

	root := (-b - math.Sqrt(discriminant)) / (2.0 * a)
	if root <= tMin || root >= tMax {
		return material.HitRecord{}, false
	}

	hitRecord := material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Calculate outward normal (from center to hit point)
	outwardNormal := hitRecord.Point.Subtract(center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
