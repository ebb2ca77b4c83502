package material

import (
	"math"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// ImageTexture maps a raster image over (u, v) with nearest-neighbor lookup
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major, top row first: Pixels[y*Width + x]
}

// NewImageTexture creates an image texture from linear colors
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate wraps uv into [0,1)² and returns the covering pixel. v = 0 is the
// bottom row of the image. An empty image evaluates to cyan so a missing
// texture is easy to spot.
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return core.NewVec3(0, 1, 1)
	}

	u := uv.X - math.Floor(uv.X)
	v := uv.Y - math.Floor(uv.Y)

	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int((1-v)*float64(t.Height)), t.Height-1)

	return t.Pixels[y*t.Width+x]
}
