package material

import (
	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// DiffuseLight represents a light-emitting material that never scatters
type DiffuseLight struct {
	Emission core.Vec3 // Emitted light color/intensity
}

// NewDiffuseLight creates a new emitter
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter always absorbs: lights only emit
func (d *DiffuseLight) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted returns the fixed emission regardless of surface position
func (d *DiffuseLight) Emitted(uv core.Vec2, point core.Vec3) core.Vec3 {
	return d.Emission
}
