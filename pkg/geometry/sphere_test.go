package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

var gray = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, gray)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	tests := []struct {
		name           string
		radius         float64
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "negative radius turns the shell inside out",
			radius:         -1.0,
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "unnormalized direction",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 3, 0),
			rayDirection:   core.NewVec3(0, -4, 0),
			expectedT:      0.5,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(core.NewVec3(0, 0, 0), tt.radius, gray)
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			tolerance := 1e-9
			if math.Abs(hit.Normal.X-tt.expectedNormal.X) > tolerance ||
				math.Abs(hit.Normal.Y-tt.expectedNormal.Y) > tolerance ||
				math.Abs(hit.Normal.Z-tt.expectedNormal.Z) > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			if hit.Material != gray {
				t.Errorf("Expected the sphere material on the hit record, got %+v", hit.Material)
			}
		})
	}
}

func TestSphere_Hit_NormalOpposesRay(t *testing.T) {
	sampler := core.NewSeededSampler(5)
	spheres := []*Sphere{
		NewSphere(core.NewVec3(0, 0, -3), 1.0, gray),
		NewSphere(core.NewVec3(0, 0, -3), -1.0, gray),
	}

	for _, sphere := range spheres {
		hits := 0
		for i := 0; i < 2000; i++ {
			// Aim at random points near the sphere from random origins
			origin := core.RandomVec3Range(sampler, -4, 4)
			origin.Z = 4
			target := sphere.Center0.Add(core.RandomVec3Range(sampler, -1.2, 1.2))
			ray := core.NewRay(origin, target.Subtract(origin))

			hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				continue
			}
			hits++

			if math.Abs(hit.Normal.Length()-1) > 1e-9 {
				t.Fatalf("Normal %v is not unit length", hit.Normal)
			}
			if d := hit.Normal.Dot(ray.Direction); d >= 0 {
				t.Fatalf("Stored normal should oppose the ray, got dot(normal, dir)=%f", d)
			}
			outward := hit.Point.Subtract(sphere.Center0).Divide(sphere.Radius)
			d := outward.Dot(ray.Direction)
			if hit.FrontFace && d >= 0 {
				t.Fatalf("Front face hit with dot(outward, dir)=%f", d)
			}
			if !hit.FrontFace && d <= 0 {
				t.Fatalf("Back face hit with dot(outward, dir)=%f", d)
			}
		}
		if hits == 0 {
			t.Fatalf("Expected some hits for radius %f", sphere.Radius)
		}
	}
}

func TestSphere_Hit_MatchesDiscriminant(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0.3, -0.2, -2), 0.8, gray)
	sampler := core.NewSeededSampler(17)
	tMin, tMax := 0.001, 5.0

	for i := 0; i < 5000; i++ {
		origin := core.RandomVec3Range(sampler, -3, 3)
		direction := core.RandomUnitVector(sampler).Multiply(core.RandomRange(sampler, 0.5, 2))
		ray := core.NewRay(origin, direction)

		oc := origin.Subtract(sphere.Center0)
		a := direction.LengthSquared()
		b := 2 * oc.Dot(direction)
		c := oc.LengthSquared() - sphere.Radius*sphere.Radius
		disc := b*b - 4*a*c
		expected := false
		if disc >= 0 {
			root := (-b - math.Sqrt(disc)) / (2 * a)
			expected = tMin < root && root < tMax
		}

		_, isHit := sphere.Hit(ray, tMin, tMax)
		if isHit != expected {
			t.Fatalf("Ray %v: expected hit=%t, got %t", ray, expected, isHit)
		}
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, gray)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	tolerance := 1e-9
	if math.Abs(hit.Point.X-expectedPoint.X) > tolerance ||
		math.Abs(hit.Point.Y-expectedPoint.Y) > tolerance ||
		math.Abs(hit.Point.Z-expectedPoint.Z) > tolerance {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, gray)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	tests := []struct {
		name   string
		tMin   float64
		tMax   float64
		expect bool
	}{
		{"inside window", 0.001, 1000.0, true},
		{"tMax before hit", 0.001, 0.5, false},
		{"tMax exactly at hit", 0.001, 1.0, false},
		{"tMin exactly at hit", 1.0, 1000.0, false},
		{"tMin past near root", 1.5, 1000.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.tMin, tt.tMax)
			if isHit != tt.expect {
				t.Errorf("Expected hit=%t, got %t (t=%f)", tt.expect, isHit, hit.T)
			}
		})
	}
}

func TestSphere_Hit_OriginInsideSeesNoSurface(t *testing.T) {
	// The near root lies behind the origin and the far root is never considered
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, gray)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	if hit, isHit := sphere.Hit(ray, 0.001, 1000.0); isHit {
		t.Errorf("Expected miss from inside the sphere, got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_VeryDistant(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -1e7), 1e5, gray)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected a hit on a distant sphere")
	}
	if math.IsInf(hit.T, 0) || math.Abs(hit.T-9.9e6) > 1e-3 {
		t.Errorf("Expected finite t=9.9e6, got %f", hit.T)
	}
}

func TestMovingSphere_CenterBoundaries(t *testing.T) {
	center0 := core.NewVec3(0.1, 0.2, 0.3)
	center1 := core.NewVec3(0.7, -1.9, 3.3)
	sphere := NewMovingSphere(center0, center1, 0.0, 10.0, 0.2, gray)

	if c := sphere.Center(0.0); c != center0 {
		t.Errorf("Expected center0 %v at time0, got %v", center0, c)
	}
	if c := sphere.Center(10.0); c != center1 {
		t.Errorf("Expected center1 %v at time1, got %v", center1, c)
	}

	mid := sphere.Center(5.0)
	expected := center0.Add(center1).Multiply(0.5)
	if mid.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected midpoint %v, got %v", expected, mid)
	}

	stationary := NewSphere(center0, 1, gray)
	if stationary.Center(123) != center0 {
		t.Error("Stationary sphere should ignore time")
	}
}

func TestMovingSphere_HitUsesRayTime(t *testing.T) {
	sphere := NewMovingSphere(core.NewVec3(0, 0, -5), core.NewVec3(0, 10, -5), 0, 1, 1, gray)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := sphere.Hit(ray, 0.001, math.Inf(1)); !isHit {
		t.Error("Expected hit at time 0")
	}

	late := core.NewRayAtTime(ray.Origin, ray.Direction, 1.0)
	if _, isHit := sphere.Hit(late, 0.001, math.Inf(1)); isHit {
		t.Error("Expected the sphere to have moved out of the way at time 1")
	}
}
