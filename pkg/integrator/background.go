package integrator

import (
	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// Background supplies radiance for rays that escape the scene
type Background interface {
	Color(ray core.Ray) core.Vec3
}

// SolidBackground returns the same color in every direction
type SolidBackground struct {
	Value core.Vec3
}

// NewSolidBackground creates a constant background
func NewSolidBackground(color core.Vec3) *SolidBackground {
	return &SolidBackground{Value: color}
}

// Color returns the constant color
func (s *SolidBackground) Color(ray core.Ray) core.Vec3 {
	return s.Value
}

// GradientBackground blends from Bottom to Top by the vertical component of
// the ray direction.
type GradientBackground struct {
	Bottom core.Vec3
	Top    core.Vec3
}

// NewGradientBackground creates a vertical gradient background
func NewGradientBackground(bottom, top core.Vec3) *GradientBackground {
	return &GradientBackground{Bottom: bottom, Top: top}
}

// NewSkyBackground is the white-to-light-blue sky used by the daylight scenes
func NewSkyBackground() *GradientBackground {
	return NewGradientBackground(core.NewVec3(1.0, 1.0, 1.0), core.NewVec3(0.5, 0.7, 1.0))
}

// Color interpolates on the unit direction's Y component
func (g *GradientBackground) Color(ray core.Ray) core.Vec3 {
	unitDirection, err := ray.Direction.Unit()
	if err != nil {
		return g.Bottom
	}
	t := 0.5 * (unitDirection.Y + 1.0)
	return g.Bottom.Lerp(g.Top, t)
}
