package integrator

import (
	"math"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/geometry"
)

// DefaultTMin offsets secondary rays off the surface they leave
const DefaultTMin = 0.001

// PathTracingIntegrator implements unidirectional path tracing with a fixed
// bounce limit and no Russian roulette. Paths cut off at the limit contribute
// nothing further, so deep interreflections lose energy near the bound.
type PathTracingIntegrator struct {
	TMin float64
	TMax float64
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{
		TMin: DefaultTMin,
		TMax: math.Inf(1),
	}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, background Background, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, pt.TMin, pt.TMax)
	if !isHit {
		return background.Color(ray)
	}

	colorEmitted := hit.Material.Emitted(hit.UV, hit.Point)

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		// Light source or full absorption
		return colorEmitted
	}

	incoming := pt.RayColor(scatter.Scattered, world, background, depth-1, sampler)
	return colorEmitted.Add(scatter.Attenuation.MultiplyVec(incoming))
}
