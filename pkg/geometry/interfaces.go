package geometry

import (
	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays. Primitives, lists and
// BVH nodes all satisfy it, so each can be built from the others.
type Shape interface {
	// Hit returns the nearest intersection with t in [tMin, tMax]
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)

	// BoundingBox returns a box enclosing the shape over the time window
	// [time0, time1], or false if the shape has no finite bounds
	BoundingBox(time0, time1 float64) (core.AABB, bool)
}
