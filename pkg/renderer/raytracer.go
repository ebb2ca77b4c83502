package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/geometry"
	"github.com/df07/go-motion-pathtracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width            int   // Image width in pixels
	Height           int   // Image height in pixels
	SamplesPerPixel  int   // Number of rays per pixel
	MaxDepth         int   // Maximum ray bounce depth
	Seed             int64 // Base seed for per-scanline samplers
	Workers          int   // Worker goroutines, 0 for one per logical CPU
	ProgressInterval int   // Log every N remaining scanlines, 0 to disable
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:            400,
		Height:           225,
		SamplesPerPixel:  100,
		MaxDepth:         50,
		Seed:             42,
		ProgressInterval: 16,
	}
}

// Validate reports the first unusable field
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("image size %dx%d must be positive", c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("samples per pixel %d must be positive", c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("max depth %d must be positive", c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("workers %d must not be negative", c.Workers)
	case c.ProgressInterval < 0:
		return fmt.Errorf("progress interval %d must not be negative", c.ProgressInterval)
	}
	return nil
}

// Raytracer handles the rendering process
type Raytracer struct {
	camera     *Camera
	world      geometry.Shape
	background integrator.Background
	integrator integrator.Integrator
	config     SamplingConfig
	logger     core.Logger
}

// NewRaytracer creates a new raytracer that path traces world through camera
func NewRaytracer(camera *Camera, world geometry.Shape, background integrator.Background, config SamplingConfig, logger core.Logger) *Raytracer {
	return &Raytracer{
		camera:     camera,
		world:      world,
		background: background,
		integrator: integrator.NewPathTracingIntegrator(),
		config:     config,
		logger:     core.LoggerOrNop(logger),
	}
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integratorInst integrator.Integrator) {
	rt.integrator = integratorInst
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SamplingConfig returns the current sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// World returns the shape rays are traced against
func (rt *Raytracer) World() geometry.Shape {
	return rt.world
}

// PixelRay returns a camera ray through pixel (x, y) of the image, y = 0 at
// the top. The sampler supplies the in-pixel jitter, then lens and time.
func (rt *Raytracer) PixelRay(x, y int, sampler core.Sampler) core.Ray {
	j := rt.config.Height - 1 - y // film rows count up from the bottom
	jitter := sampler.Get2D()
	s := (float64(x) + jitter.X) / filmSpan(rt.config.Width)
	t := (float64(j) + jitter.Y) / filmSpan(rt.config.Height)
	return rt.camera.GetRay(s, t, sampler)
}

// RenderScanline samples every pixel of image row y (0 at the top) into pixels
func (rt *Raytracer) RenderScanline(y int, pixels []PixelStats, sampler core.Sampler) RenderStats {
	for i := range pixels {
		for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
			ray := rt.PixelRay(i, y, sampler)
			pixels[i].AddSample(rt.integrator.RayColor(ray, rt.world, rt.background, rt.config.MaxDepth, sampler))
		}
	}

	return RenderStats{
		TotalPixels:  len(pixels),
		TotalSamples: len(pixels) * rt.config.SamplesPerPixel,
		Scanlines:    1,
	}
}

// filmSpan maps pixel indices onto [0, 1] so the last pixel lands on the edge
func filmSpan(pixels int) float64 {
	if pixels <= 1 {
		return 1
	}
	return float64(pixels - 1)
}

// ScanlineSeed derives a row's sampler seed, so the image does not depend on
// which worker renders which row.
func ScanlineSeed(seed int64, row int) int64 {
	return seed*1_000_003 + int64(row)
}

// Render traces the whole frame in parallel and returns the gamma-corrected
// image. If ctx is cancelled, rendering stops between scanlines and the
// partial image is returned along with the context error.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	width, height := rt.config.Width, rt.config.Height

	pixels := make([][]PixelStats, height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, width)
	}

	pool := NewWorkerPool(rt, height, rt.config.Workers)
	pool.Start(ctx)
	for y := 0; y < height; y++ {
		pool.SubmitTask(ScanlineTask{
			Row:    y,
			Seed:   ScanlineSeed(rt.config.Seed, y),
			Pixels: pixels[y],
		})
	}

	stats := RenderStats{
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Workers:         pool.GetNumWorkers(),
	}
	rt.logger.Printf("Rendering %dx%d, %d samples/pixel, max depth %d, %d workers\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, stats.Workers)

	remaining := height
	var renderErr error
	for received := 0; received < height; received++ {
		result, _ := pool.GetResult()
		if result.Error != nil {
			renderErr = result.Error
			continue
		}

		stats.Merge(result.Stats)
		remaining--
		if rt.config.ProgressInterval > 0 && remaining%rt.config.ProgressInterval == 0 {
			rt.logger.Printf("Scanlines remaining: %d\n", remaining)
		}
	}
	pool.Stop()

	stats.Elapsed = time.Since(startTime)
	stats.Cancelled = renderErr != nil

	return ToImage(pixels), stats, renderErr
}
