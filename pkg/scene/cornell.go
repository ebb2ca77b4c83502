package scene

import (
	"math/rand"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/geometry"
	"github.com/df07/go-motion-pathtracer/pkg/integrator"
	"github.com/df07/go-motion-pathtracer/pkg/material"
	"github.com/df07/go-motion-pathtracer/pkg/renderer"
)

// cornellSize is the edge length of the standard Cornell box
const cornellSize = 555.0

// NewCornellScene creates a classic Cornell box from axis-aligned rectangles
// with a ceiling light, a glass sphere and a brushed metal sphere
func NewCornellScene(random *rand.Rand) *Scene {
	s := &Scene{
		CameraConfig: renderer.CameraConfig{
			LookFrom:    core.NewVec3(278, 278, -800), // Outside the open front face
			LookAt:      core.NewVec3(278, 278, 0),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        40.0,
			AspectRatio: 1.0,
		},
		SamplingConfig: renderer.SamplingConfig{
			Width:           400,
			Height:          400,
			SamplesPerPixel: 200,
			MaxDepth:        50,
		},
		Background: integrator.NewSolidBackground(core.Vec3{}),
	}

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	light := material.NewDiffuseLight(core.NewVec3(15, 15, 15))

	half := cornellSize / 2
	s.Shapes = []geometry.Shape{
		// Side walls
		geometry.NewYZRect(core.NewVec3(cornellSize, half, half), cornellSize, cornellSize, green),
		geometry.NewYZRect(core.NewVec3(0, half, half), cornellSize, cornellSize, red),

		// Light just below the ceiling
		geometry.NewXZRect(core.NewVec3(278, 554, 279.5), 130, 105, light),

		// Floor, ceiling and back wall
		geometry.NewXZRect(core.NewVec3(half, 0, half), cornellSize, cornellSize, white),
		geometry.NewXZRect(core.NewVec3(half, cornellSize, half), cornellSize, cornellSize, white),
		geometry.NewXYRect(core.NewVec3(half, half, cornellSize), cornellSize, cornellSize, white),

		geometry.NewSphere(core.NewVec3(190, 90, 190), 90, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(370, 120, 370), 120, material.NewMetal(core.NewVec3(0.8, 0.85, 0.88), 0.1)),
	}

	return s
}
