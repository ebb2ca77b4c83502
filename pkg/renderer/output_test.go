package renderer

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

func checkerImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(2, 0, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(0, 1, color.RGBA{10, 20, 30, 255})
	img.SetRGBA(1, 1, color.RGBA{40, 50, 60, 255})
	img.SetRGBA(2, 1, color.RGBA{70, 80, 90, 255})
	return img
}

func TestEncodePPM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePPM(&buf, checkerImage()))

	expected := append([]byte("P6\n3 2\n255\n"),
		255, 0, 0, 0, 255, 0, 0, 0, 255,
		10, 20, 30, 40, 50, 60, 70, 80, 90,
	)
	assert.Equal(t, expected, buf.Bytes())
}

func TestEncodeRoundTripsLosslessFormats(t *testing.T) {
	img := checkerImage()

	for _, tt := range []struct {
		format Format
		decode func(*bytes.Buffer) (image.Image, error)
	}{
		{FormatPNG, func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) }},
		{FormatBMP, func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) }},
	} {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img, tt.format))

			decoded, err := tt.decode(&buf)
			require.NoError(t, err)
			require.Equal(t, img.Bounds(), decoded.Bounds())
			for y := 0; y < 2; y++ {
				for x := 0; x < 3; x++ {
					r0, g0, b0, _ := img.At(x, y).RGBA()
					r1, g1, b1, _ := decoded.At(x, y).RGBA()
					assert.Equal(t, []uint32{r0, g0, b0}, []uint32{r1, g1, b1}, "pixel (%d,%d)", x, y)
				}
			}
		})
	}

	assert.Error(t, Encode(&bytes.Buffer{}, img, Format("gif")))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{".bmp", FormatBMP, false},
		{"ppm", FormatPPM, false},
		{"jpeg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	format, err := FormatFromPath("output/random/render.ppm")
	require.NoError(t, err)
	assert.Equal(t, FormatPPM, format)

	_, err = FormatFromPath("output/render")
	assert.Error(t, err)
}

func TestSaveImageCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "render.ppm")
	require.NoError(t, SaveImage(path, checkerImage(), FormatPPM))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("P6\n3 2\n255\n")))
	assert.Len(t, data, len("P6\n3 2\n255\n")+18)
}

func TestToImageKeepsRowOrder(t *testing.T) {
	pixels := [][]PixelStats{
		{{}, {}},
		{{}, {}},
	}
	pixels[0][1].AddSample(core.NewVec3(1, 1, 1))
	pixels[1][0].AddSample(core.NewVec3(1, 1, 1))
	pixels[1][0].AddSample(core.NewVec3(3, 3, 3))

	img := ToImage(pixels)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), img.RGBAAt(1, 0).R)
	assert.Equal(t, uint8(255), img.RGBAAt(0, 1).R, "average of 1 and 3 clamps to white")

	assert.Equal(t, image.Rect(0, 0, 0, 0), ToImage(nil).Bounds())
}
