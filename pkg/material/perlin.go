package material

import (
	"math"
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

const (
	perlinPointCount = 256

	// DefaultTurbulenceDepth is the octave count used when none is configured
	DefaultTurbulenceDepth = 7
)

// Perlin is a gradient-noise lattice. The gradient table is kept in single
// precision; lookups and interpolation run in float32 and widen on return.
// A Perlin is immutable after construction and safe to share between workers.
type Perlin struct {
	gradients [perlinPointCount][3]float32
	permX     [perlinPointCount]int
	permY     [perlinPointCount]int
	permZ     [perlinPointCount]int
}

// NewPerlin builds the gradient and permutation tables from random
func NewPerlin(random *rand.Rand) *Perlin {
	p := &Perlin{}
	for i := range p.gradients {
		p.gradients[i] = randomUnitGradient(random)
	}
	p.permX = makePermutation(random)
	p.permY = makePermutation(random)
	p.permZ = makePermutation(random)
	return p
}

// Noise returns the lattice noise at point, roughly in [-1, 1]
func (p *Perlin) Noise(point core.Vec3) float64 {
	x, y, z := float32(point.X), float32(point.Y), float32(point.Z)
	fx, fy, fz := math32.Floor(x), math32.Floor(y), math32.Floor(z)
	u, v, w := x-fx, y-fy, z-fz
	i, j, k := int(fx), int(fy), int(fz)

	var c [2][2][2][3]float32
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				c[di][dj][dk] = p.gradients[p.permX[(i+di)&0xFF]^
					p.permY[(j+dj)&0xFF]^
					p.permZ[(k+dk)&0xFF]]
			}
		}
	}

	return float64(trilinearInterpolation(&c, u, v, w))
}

// Turbulence sums depth octaves of noise, halving the weight and doubling the
// frequency each octave, and returns the magnitude of the sum
func (p *Perlin) Turbulence(point core.Vec3, depth int) float64 {
	accum := 0.0
	weight := 1.0
	temp := point

	for i := 0; i < depth; i++ {
		accum += weight * p.Noise(temp)
		weight *= 0.5
		temp = temp.Multiply(2)
	}

	return math.Abs(accum)
}

// trilinearInterpolation blends the eight corner gradients with Hermite smoothing
func trilinearInterpolation(c *[2][2][2][3]float32, u, v, w float32) float32 {
	uu := u * u * (3 - 2*u)
	vv := v * v * (3 - 2*v)
	ww := w * w * (3 - 2*w)

	var accum float32
	for i := 0; i < 2; i++ {
		fi := float32(i)
		for j := 0; j < 2; j++ {
			fj := float32(j)
			for k := 0; k < 2; k++ {
				fk := float32(k)
				g := c[i][j][k]
				dot := g[0]*(u-fi) + g[1]*(v-fj) + g[2]*(w-fk)
				accum += (fi*uu + (1-fi)*(1-uu)) *
					(fj*vv + (1-fj)*(1-vv)) *
					(fk*ww + (1-fk)*(1-ww)) *
					dot
			}
		}
	}
	return accum
}

// randomUnitGradient draws a direction from the [-1,1]³ cube, rejecting
// vectors too short to normalize
func randomUnitGradient(random *rand.Rand) [3]float32 {
	for {
		x := float32(2*random.Float64() - 1)
		y := float32(2*random.Float64() - 1)
		z := float32(2*random.Float64() - 1)
		length := math32.Sqrt(x*x + y*y + z*z)
		if length > 1e-6 {
			return [3]float32{x / length, y / length, z / length}
		}
	}
}

// makePermutation returns a Fisher-Yates shuffle of 0..255
func makePermutation(random *rand.Rand) [perlinPointCount]int {
	var perm [perlinPointCount]int
	for i := range perm {
		perm[i] = i
	}
	for i := perlinPointCount - 1; i > 0; i-- {
		target := random.Intn(i + 1)
		perm[i], perm[target] = perm[target], perm[i]
	}
	return perm
}
