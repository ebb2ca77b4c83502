package geometry

import (
	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/material"
)

// HittableList is an unordered collection of shapes tested by linear scan
type HittableList struct {
	Objects []Shape
}

// NewHittableList creates a list over the given shapes
func NewHittableList(objects ...Shape) *HittableList {
	return &HittableList{Objects: objects}
}

// Add appends a shape to the list
func (l *HittableList) Add(object Shape) {
	l.Objects = append(l.Objects, object)
}

// Hit returns the closest hit among all members
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox is the union of all member boxes. An empty list, or any member
// without bounds, has no box.
func (l *HittableList) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	if len(l.Objects) == 0 {
		return core.AABB{}, false
	}

	var outputBox core.AABB
	for i, object := range l.Objects {
		box, ok := object.BoundingBox(time0, time1)
		if !ok {
			return core.AABB{}, false
		}
		if i == 0 {
			outputBox = box
		} else {
			outputBox = core.Surrounding(outputBox, box)
		}
	}

	return outputBox, true
}
