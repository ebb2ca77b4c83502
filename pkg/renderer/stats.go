package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera rays traced
	SamplesPerPixel int           // Samples taken per pixel
	Scanlines       int           // Scanlines completed
	Workers         int           // Goroutines used
	Elapsed         time.Duration // Wall time of the render
	Cancelled       bool          // Render stopped before every scanline finished
}

// Merge folds the per-scanline statistics into the totals
func (rs *RenderStats) Merge(other RenderStats) {
	rs.TotalPixels += other.TotalPixels
	rs.TotalSamples += other.TotalSamples
	rs.Scanlines += other.Scanlines
}

// SamplesPerSecond returns camera rays traced per second of wall time
func (rs RenderStats) SamplesPerSecond() float64 {
	if rs.Elapsed <= 0 {
		return 0
	}
	return float64(rs.TotalSamples) / rs.Elapsed.Seconds()
}

func (rs RenderStats) String() string {
	return fmt.Sprintf("%d pixels, %d samples/pixel, %d workers in %v (%.0f samples/s)",
		rs.TotalPixels, rs.SamplesPerPixel, rs.Workers, rs.Elapsed.Round(time.Millisecond), rs.SamplesPerSecond())
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// CalculateAverageLuminance returns the mean luminance of an image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			color := core.NewVec3(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
			total += color.Luminance()
		}
	}
	return total / float64(pixels)
}
