package scene

import (
	"math/rand"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/geometry"
	"github.com/df07/go-motion-pathtracer/pkg/integrator"
	"github.com/df07/go-motion-pathtracer/pkg/material"
	"github.com/df07/go-motion-pathtracer/pkg/renderer"
)

// outdoorCamera is the wide shot shared by the texture scenes
func outdoorCamera() renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom:    core.NewVec3(13, 2, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        20.0,
		AspectRatio: 16.0 / 9.0,
		Time0:       0.0,
		Time1:       1.0,
	}
}

func outdoorSampling() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// NewTwoSpheresScene creates two large checkered spheres touching at the origin
func NewTwoSpheresScene(random *rand.Rand) *Scene {
	checker := material.NewTexturedLambertian(
		material.NewCheckerColors(core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9)),
	)

	return &Scene{
		CameraConfig:   outdoorCamera(),
		SamplingConfig: outdoorSampling(),
		Background:     integrator.NewSkyBackground(),
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, -10, 0), 10, checker),
			geometry.NewSphere(core.NewVec3(0, 10, 0), 10, checker),
		},
	}
}

// NewTwoPerlinSpheresScene creates a marble ground and sphere sharing one noise lattice
func NewTwoPerlinSpheresScene(random *rand.Rand) *Scene {
	marble := material.NewTexturedLambertian(material.NewNoiseTexture(material.NewPerlin(random), 4))

	return &Scene{
		CameraConfig:   outdoorCamera(),
		SamplingConfig: outdoorSampling(),
		Background:     integrator.NewSkyBackground(),
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
			geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
		},
	}
}

// NewSimpleLightScene lights the marble spheres with a rectangle and a small
// spherical lamp against a black sky
func NewSimpleLightScene(random *rand.Rand) *Scene {
	marble := material.NewTexturedLambertian(material.NewNoiseTexture(material.NewPerlin(random), 4))
	light := material.NewDiffuseLight(core.NewVec3(4, 4, 4))

	camera := outdoorCamera()
	camera.LookFrom = core.NewVec3(26, 3, 6)
	camera.LookAt = core.NewVec3(0, 2, 0)

	sampling := outdoorSampling()
	sampling.SamplesPerPixel = 400

	return &Scene{
		CameraConfig:   camera,
		SamplingConfig: sampling,
		Background:     integrator.NewSolidBackground(core.Vec3{}),
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
			geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
			geometry.NewXYRect(core.NewVec3(4, 2, -2), 2, 2, light),
			geometry.NewSphere(core.NewVec3(0, 7, 0), 2, light),
		},
	}
}

// EarthScene is the name of the scene whose globe can take an image texture
const EarthScene = "earth"

// NewEarthScene creates a single globe wrapped in globe, an equirectangular
// texture with u around the equator and v from the south pole up
func NewEarthScene(globe material.Texture) *Scene {
	return &Scene{
		CameraConfig:   outdoorCamera(),
		SamplingConfig: outdoorSampling(),
		Background:     integrator.NewSkyBackground(),
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, 0, 0), 2, material.NewTexturedLambertian(globe)),
		},
	}
}

// NewGraticuleTexture draws a latitude/longitude grid over blue oceans with
// white polar caps. It stands in for a map image when none is given.
func NewGraticuleTexture() *material.ImageTexture {
	const width, height, spacing = 72, 36, 6
	ocean := core.NewVec3(0.05, 0.15, 0.45)
	line := core.NewVec3(0.6, 0.6, 0.6)
	ice := core.NewVec3(0.9, 0.9, 0.9)

	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			color := ocean
			switch {
			case y < spacing/2 || y >= height-spacing/2:
				color = ice
			case x%spacing == 0 || y%spacing == 0:
				color = line
			}
			pixels[y*width+x] = color
		}
	}
	return material.NewImageTexture(width, height, pixels)
}
