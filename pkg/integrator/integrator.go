package integrator

import (
	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the linear radiance arriving along ray. The result is
	// unclamped; averaging and gamma correction happen when pixels are written.
	RayColor(ray core.Ray, world geometry.Shape, background Background, depth int, sampler core.Sampler) core.Vec3
}
