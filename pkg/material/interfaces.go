package material

import (
	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// Material interface for objects that can scatter and emit light
type Material interface {
	// Scatter proposes a scattered ray for an incoming ray at a hit.
	// Returning false means the ray was absorbed; that is a normal outcome.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// Emitted returns the light emitted at a surface point, zero for non-emitters
	Emitted(uv core.Vec2, point core.Vec3) core.Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray, carrying the incoming ray's time
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Shading normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the outward-facing side
	UV        core.Vec2 // Surface parameterization for texturing
	Material  Material  // Material of the hit object
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

// nonEmissive is embedded by materials that never emit light
type nonEmissive struct{}

// Emitted returns black
func (nonEmissive) Emitted(uv core.Vec2, point core.Vec3) core.Vec3 {
	return core.Vec3{}
}
