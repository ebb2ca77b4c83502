package material

import (
	"math"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// Texture provides spatially-varying colors for materials
type Texture interface {
	// Evaluate returns color at given UV coordinates and 3D point
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// CheckerTexture alternates between two textures on a 3D sine lattice in world space
type CheckerTexture struct {
	Even Texture
	Odd  Texture
}

// NewCheckerTexture creates a checker over two arbitrary textures
func NewCheckerTexture(even, odd Texture) *CheckerTexture {
	return &CheckerTexture{Even: even, Odd: odd}
}

// NewCheckerColors creates a checker over two solid colors
func NewCheckerColors(even, odd core.Vec3) *CheckerTexture {
	return NewCheckerTexture(NewSolidColor(even), NewSolidColor(odd))
}

// Evaluate ignores uv and keys on the sign of sin(10x)·sin(10y)·sin(10z)
func (c *CheckerTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	sines := math.Sin(10*point.X) * math.Sin(10*point.Y) * math.Sin(10*point.Z)
	if sines < 0 {
		return c.Odd.Evaluate(uv, point)
	}
	return c.Even.Evaluate(uv, point)
}

// NoiseTexture is a marble pattern: a sine phase perturbed by Perlin turbulence
type NoiseTexture struct {
	Noise *Perlin
	Scale float64   // Frequency of the sine bands along z
	Color core.Vec3 // Base color modulated by the pattern
	Depth int       // Turbulence octaves
}

// NewNoiseTexture creates a white marble texture with the default turbulence depth
func NewNoiseTexture(noise *Perlin, scale float64) *NoiseTexture {
	return &NoiseTexture{
		Noise: noise,
		Scale: scale,
		Color: core.NewVec3(1, 1, 1),
		Depth: DefaultTurbulenceDepth,
	}
}

// Evaluate returns color · 0.5·(1 + sin(scale·z + 10·turbulence(p)))
func (n *NoiseTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	phase := n.Scale*point.Z + 10*n.Noise.Turbulence(point, n.Depth)
	return n.Color.Multiply(0.5 * (1 + math.Sin(phase)))
}
