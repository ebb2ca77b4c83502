package geometry

import (
	"math"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/material"
)

// Sphere represents a sphere whose center may move linearly between two times
type Sphere struct {
	Center0  core.Vec3 // Center at Time0
	Center1  core.Vec3 // Center at Time1
	Time0    float64
	Time1    float64
	Radius   float64
	Material material.Material
}

// NewSphere creates a new static sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center0:  center,
		Center1:  center,
		Radius:   radius,
		Material: mat,
	}
}

// NewMovingSphere creates a sphere moving from center0 at time0 to center1 at time1
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: mat,
	}
}

// Center returns the sphere's center at the given time
func (s *Sphere) Center(time float64) core.Vec3 {
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	t := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(t))
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	center := s.Center(ray.Time)
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.UV = sphereUV(outwardNormal)

	return hitRecord, true
}

// BoundingBox covers the sphere at both ends of the time window
func (s *Sphere) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	c0 := s.Center(time0)
	c1 := s.Center(time1)
	box0 := core.NewAABB(c0.Subtract(radius), c0.Add(radius))
	box1 := core.NewAABB(c1.Subtract(radius), c1.Add(radius))
	return core.Surrounding(box0, box1), true
}

// sphereUV maps a point on the unit sphere to [0,1]².
// u runs around the y axis from x=-1, v runs from y=-1 to y=+1.
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(math.Max(-1, math.Min(1, -p.Y)))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}
