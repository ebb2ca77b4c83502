// Package loaders reads external assets into scene resources.
package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"math"
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/material"
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Encoded values in [0,1], top row first
}

// LoadImage loads a PNG, JPEG or BMP image
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	data, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// DecodeImage decodes any registered image format from r
func DecodeImage(r io.Reader) (*ImageData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns 16-bit channels
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{Width: width, Height: height, Pixels: pixels}, nil
}

// Texture returns an image texture in linear color. Each channel is raised to
// gamma, undoing the encoding that rendered output applies.
func (d *ImageData) Texture(gamma float64) *material.ImageTexture {
	linear := make([]core.Vec3, len(d.Pixels))
	for i, p := range d.Pixels {
		linear[i] = core.NewVec3(math.Pow(p.X, gamma), math.Pow(p.Y, gamma), math.Pow(p.Z, gamma))
	}
	return material.NewImageTexture(d.Width, d.Height, linear)
}

// LoadTexture loads an image file as a linear texture for gamma 2 output
func LoadTexture(filename string) (*material.ImageTexture, error) {
	data, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return data.Texture(2), nil
}
