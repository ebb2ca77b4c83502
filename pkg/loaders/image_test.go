package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// quadrants is a 2x2 image: white red / green blue
func quadrants() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{G: 255, A: 255})
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	return img
}

func assertQuadrants(t *testing.T, data *ImageData) {
	t.Helper()
	require.Equal(t, 2, data.Width)
	require.Equal(t, 2, data.Height)
	require.Len(t, data.Pixels, 4)

	assert.Equal(t, core.NewVec3(1, 1, 1), data.Pixels[0], "top-left")
	assert.Equal(t, core.NewVec3(1, 0, 0), data.Pixels[1], "top-right")
	assert.Equal(t, core.NewVec3(0, 1, 0), data.Pixels[2], "bottom-left")
	assert.Equal(t, core.NewVec3(0, 0, 1), data.Pixels[3], "bottom-right")
}

func TestLoadImagePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadrants.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, quadrants()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	data, err := LoadImage(path)
	require.NoError(t, err)
	assertQuadrants(t, data)
}

func TestDecodeImageBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, quadrants()))

	data, err := DecodeImage(&buf)
	require.NoError(t, err)
	assertQuadrants(t, data)
}

func TestLoadImageErrors(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, err = LoadImage(path)
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestTextureLinearizes(t *testing.T) {
	data := &ImageData{
		Width:  2,
		Height: 1,
		Pixels: []core.Vec3{core.NewVec3(0.5, 1, 0), core.NewVec3(0.25, 0.25, 0.25)},
	}

	texture := data.Texture(2)
	assert.Equal(t, core.NewVec3(0.25, 1, 0), texture.Pixels[0])
	assert.Equal(t, core.NewVec3(0.0625, 0.0625, 0.0625), texture.Pixels[1])

	// Encoded input is left untouched
	assert.Equal(t, core.NewVec3(0.5, 1, 0), data.Pixels[0])
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadrants.bmp")
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, quadrants()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	texture, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(0, 0, 1), texture.Evaluate(core.NewVec2(0.75, 0.25), core.Vec3{}))
}
