// Package config loads render settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/loaders"
	"github.com/df07/go-motion-pathtracer/pkg/renderer"
	"github.com/df07/go-motion-pathtracer/pkg/scene"
)

// Shutter is the exposure window over which ray times are drawn
type Shutter struct {
	Open  float64 `yaml:"open"`
	Close float64 `yaml:"close"`
}

// RenderConfig holds everything needed to render one image. Zero values for
// the image and sampling fields keep the scene's own defaults.
type RenderConfig struct {
	Scene            string   `yaml:"scene"`
	Width            int      `yaml:"width,omitempty"`
	AspectRatio      float64  `yaml:"aspect_ratio,omitempty"`
	SamplesPerPixel  int      `yaml:"samples_per_pixel,omitempty"`
	MaxDepth         int      `yaml:"max_depth,omitempty"`
	Seed             int64    `yaml:"seed"`
	Workers          int      `yaml:"workers"` // 0 for one per logical CPU
	Output           string   `yaml:"output"`
	Format           string   `yaml:"format,omitempty"` // inferred from Output when empty
	Shutter          *Shutter `yaml:"shutter,omitempty"`
	Texture          string   `yaml:"texture,omitempty"` // image wrapped around the earth globe
	ProgressInterval int      `yaml:"progress_interval"`
}

// Default returns the configuration used when no file is given
func Default() RenderConfig {
	return RenderConfig{
		Scene:            "random",
		Seed:             42,
		Output:           "output/render.png",
		ProgressInterval: 16,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (RenderConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("opening config: %w", err)
	}
	defer file.Close()

	config, err := Decode(file)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Decode parses YAML from r over the defaults and validates the result
func Decode(r io.Reader) (RenderConfig, error) {
	config := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return RenderConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return config, nil
}

// Write encodes the configuration as YAML
func (c RenderConfig) Write(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return err
	}
	return encoder.Close()
}

// Validate reports the first invalid setting
func (c RenderConfig) Validate() error {
	switch {
	case c.Scene == "":
		return errors.New("scene must be set")
	case c.Width < 0:
		return fmt.Errorf("width %d must not be negative", c.Width)
	case c.AspectRatio < 0:
		return fmt.Errorf("aspect_ratio %g must not be negative", c.AspectRatio)
	case c.SamplesPerPixel < 0:
		return fmt.Errorf("samples_per_pixel %d must not be negative", c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("max_depth %d must not be negative", c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("workers %d must not be negative", c.Workers)
	case c.ProgressInterval < 0:
		return fmt.Errorf("progress_interval %d must not be negative", c.ProgressInterval)
	case c.Output == "":
		return errors.New("output must be set")
	case c.Texture != "" && c.Scene != scene.EarthScene:
		return fmt.Errorf("texture is only used by the %s scene, not %q", scene.EarthScene, c.Scene)
	case c.Shutter != nil && c.Shutter.Close < c.Shutter.Open:
		return fmt.Errorf("shutter closes (%g) before it opens (%g)", c.Shutter.Close, c.Shutter.Open)
	}

	if _, err := c.OutputFormat(); err != nil {
		return err
	}
	return nil
}

// OutputFormat returns the explicit format, or the one implied by Output
func (c RenderConfig) OutputFormat() (renderer.Format, error) {
	if c.Format != "" {
		return renderer.ParseFormat(c.Format)
	}
	return renderer.FormatFromPath(c.Output)
}

// Apply merges the configuration over a scene's defaults and returns the
// camera and sampling settings to render with
func (c RenderConfig) Apply(s *scene.Scene) (renderer.CameraConfig, renderer.SamplingConfig) {
	camera := s.CameraConfig
	sampling := s.SamplingConfig

	if c.AspectRatio > 0 {
		camera.AspectRatio = c.AspectRatio
	}
	if c.Shutter != nil {
		camera.Time0, camera.Time1 = c.Shutter.Open, c.Shutter.Close
	}

	if c.Width > 0 {
		sampling.Width = c.Width
	}
	if c.Width > 0 || c.AspectRatio > 0 {
		sampling.Height = max(1, int(float64(sampling.Width)/camera.AspectRatio))
	}
	if c.SamplesPerPixel > 0 {
		sampling.SamplesPerPixel = c.SamplesPerPixel
	}
	if c.MaxDepth > 0 {
		sampling.MaxDepth = c.MaxDepth
	}

	sampling.Seed = c.Seed
	sampling.Workers = c.Workers
	sampling.ProgressInterval = c.ProgressInterval

	return camera, sampling
}

// Prepare creates the configured scene and a raytracer ready to render it.
// The BVH is built after the overrides are merged so its bounds cover the
// configured shutter window.
func (c RenderConfig) Prepare(logger core.Logger) (*scene.Scene, *renderer.Raytracer, error) {
	s, err := c.newScene()
	if err != nil {
		return nil, nil, err
	}

	cameraConfig, sampling := c.Apply(s)
	s.CameraConfig = cameraConfig
	if err := s.Build(c.Seed); err != nil {
		return nil, nil, err
	}

	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}

	return s, renderer.NewRaytracer(camera, s.World(), s.Background, sampling, logger), nil
}

func (c RenderConfig) newScene() (*scene.Scene, error) {
	if c.Texture == "" {
		return scene.New(c.Scene, c.Seed)
	}

	texture, err := loaders.LoadTexture(c.Texture)
	if err != nil {
		return nil, fmt.Errorf("loading texture: %w", err)
	}
	s := scene.NewEarthScene(texture)
	s.Name = scene.EarthScene
	return s, nil
}
