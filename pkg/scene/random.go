package scene

import (
	"math/rand"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/geometry"
	"github.com/df07/go-motion-pathtracer/pkg/integrator"
	"github.com/df07/go-motion-pathtracer/pkg/material"
	"github.com/df07/go-motion-pathtracer/pkg/renderer"
)

func randomVec3(random *rand.Rand, lo, hi float64) core.Vec3 {
	span := hi - lo
	return core.NewVec3(lo+span*random.Float64(), lo+span*random.Float64(), lo+span*random.Float64())
}

// NewRandomScene creates the grid of small spheres around three large ones.
// Diffuse spheres bounce upward during the shutter window.
func NewRandomScene(random *rand.Rand) *Scene {
	s := &Scene{
		CameraConfig: renderer.CameraConfig{
			LookFrom:      core.NewVec3(13, 2, 3),
			LookAt:        core.NewVec3(0, 0, 0),
			Up:            core.NewVec3(0, 1, 0),
			VFov:          20.0,
			AspectRatio:   3.0 / 2.0,
			Aperture:      0.1,
			FocusDistance: 10.0,
			Time0:         0.0,
			Time1:         1.0,
		},
		SamplingConfig: renderer.SamplingConfig{
			Width:           600,
			Height:          400,
			SamplesPerPixel: 50,
			MaxDepth:        50,
		},
		Background: integrator.NewSkyBackground(),
	}

	checker := material.NewCheckerColors(core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9))
	s.Shapes = append(s.Shapes, geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	glass := material.NewDielectric(1.5)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMaterial := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMaterial < 0.8:
				albedo := randomVec3(random, 0, 1).MultiplyVec(randomVec3(random, 0, 1))
				center1 := center.Add(core.NewVec3(0, 0.5*random.Float64(), 0))
				s.Shapes = append(s.Shapes, geometry.NewMovingSphere(center, center1, 0, 1, 0.2, material.NewLambertian(albedo)))
			case chooseMaterial < 0.95:
				albedo := randomVec3(random, 0.5, 1)
				fuzz := 0.5 * random.Float64()
				s.Shapes = append(s.Shapes, geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				s.Shapes = append(s.Shapes, geometry.NewSphere(center, 0.2, glass))
			}
		}
	}

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}
