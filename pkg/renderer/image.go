package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// ToImage averages each pixel's samples and converts the rows, top first, to
// an 8-bit image
func ToImage(pixels [][]PixelStats) *image.RGBA {
	height := len(pixels)
	width := 0
	if height > 0 {
		width = len(pixels[0])
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y, row := range pixels {
		for x := range row {
			img.SetRGBA(x, y, vec3ToColor(row[x].GetColor()))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
