package geometry

import (
	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/material"
)

// rectPadding thickens a rectangle's box along its flat axis
const rectPadding = 0.001

// axisRect is a rectangle lying in a plane perpendicular to one coordinate axis.
// The in-plane axes are (uAxis, vAxis); extents are [U0,U1] x [V0,V1].
type axisRect struct {
	axis         int     // Perpendicular axis: 0=X, 1=Y, 2=Z
	uAxis, vAxis int     // In-plane axes
	K            float64 // Coordinate of the plane on the perpendicular axis
	U0, U1       float64
	V0, V1       float64
	Material     material.Material
}

func newAxisRect(axis, uAxis, vAxis int, center core.Vec3, width, height float64, mat material.Material) axisRect {
	cu, cv := center.Axis(uAxis), center.Axis(vAxis)
	return axisRect{
		axis:     axis,
		uAxis:    uAxis,
		vAxis:    vAxis,
		K:        center.Axis(axis),
		U0:       cu - width/2,
		U1:       cu + width/2,
		V0:       cv - height/2,
		V1:       cv + height/2,
		Material: mat,
	}
}

// Hit solves for the plane crossing and checks it against the extents
func (r *axisRect) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	direction := ray.Direction.Axis(r.axis)
	if direction == 0 {
		return nil, false // Parallel to the plane
	}

	t := (r.K - ray.Origin.Axis(r.axis)) / direction
	if t < tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	u := point.Axis(r.uAxis)
	v := point.Axis(r.vAxis)
	if u < r.U0 || u > r.U1 || v < r.V0 || v > r.V1 {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    point,
		UV:       core.NewVec2((u-r.U0)/(r.U1-r.U0), (v-r.V0)/(r.V1-r.V0)),
		Material: r.Material,
	}
	hitRecord.SetFaceNormal(ray, r.outwardNormal())

	return hitRecord, true
}

// BoundingBox pads the flat axis so the box has non-zero thickness
func (r *axisRect) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	var lo, hi [3]float64
	lo[r.axis], hi[r.axis] = r.K-rectPadding, r.K+rectPadding
	lo[r.uAxis], hi[r.uAxis] = r.U0, r.U1
	lo[r.vAxis], hi[r.vAxis] = r.V0, r.V1
	return core.NewAABB(
		core.NewVec3(lo[0], lo[1], lo[2]),
		core.NewVec3(hi[0], hi[1], hi[2]),
	), true
}

func (r *axisRect) outwardNormal() core.Vec3 {
	var n [3]float64
	n[r.axis] = 1
	return core.NewVec3(n[0], n[1], n[2])
}

// XYRect is a rectangle in the plane z = K
type XYRect struct{ axisRect }

// NewXYRect creates a width (x) by height (y) rectangle centered on center, at z = center.Z
func NewXYRect(center core.Vec3, width, height float64, mat material.Material) *XYRect {
	return &XYRect{newAxisRect(2, 0, 1, center, width, height, mat)}
}

// YZRect is a rectangle in the plane x = K
type YZRect struct{ axisRect }

// NewYZRect creates a width (y) by height (z) rectangle centered on center, at x = center.X
func NewYZRect(center core.Vec3, width, height float64, mat material.Material) *YZRect {
	return &YZRect{newAxisRect(0, 1, 2, center, width, height, mat)}
}

// XZRect is a rectangle in the plane y = K
type XZRect struct{ axisRect }

// NewXZRect creates a width (x) by height (z) rectangle centered on center, at y = center.Y
func NewXZRect(center core.Vec3, width, height float64, mat material.Material) *XZRect {
	return &XZRect{newAxisRect(1, 0, 2, center, width, height, mat)}
}
