package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-motion-pathtracer/pkg/geometry"
	"github.com/df07/go-motion-pathtracer/pkg/integrator"
	"github.com/df07/go-motion-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig // Scene defaults, overridden by render config
	Shapes         []geometry.Shape        // Objects in the scene
	Background     integrator.Background
	BVH            *geometry.BVHNode // Acceleration structure, set by Build
}

// Build constructs the BVH over the scene's shapes for the camera's shutter
// window. The seed drives the per-node split axis, so equal seeds give equal
// trees. A shape without bounds fails the build.
func (s *Scene) Build(seed int64) error {
	random := rand.New(rand.NewSource(seed))
	bvh, err := geometry.NewBVH(s.Shapes, s.CameraConfig.Time0, s.CameraConfig.Time1, random)
	if err != nil {
		return fmt.Errorf("scene %q: building bvh: %w", s.Name, err)
	}
	s.BVH = bvh
	return nil
}

// World returns the top-level shape rays are traced against: the BVH once
// built, otherwise a flat list of the shapes.
func (s *Scene) World() geometry.Shape {
	if s.BVH != nil {
		return s.BVH
	}
	return geometry.NewHittableList(s.Shapes...)
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += countPrimitivesInShape(shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, descending into
// lists and BVH nodes
func countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.HittableList:
		count := 0
		for _, member := range obj.Objects {
			count += countPrimitivesInShape(member)
		}
		return count
	case *geometry.BVHNode:
		if obj.Left == obj.Right {
			return countPrimitivesInShape(obj.Left)
		}
		return countPrimitivesInShape(obj.Left) + countPrimitivesInShape(obj.Right)
	default:
		return 1
	}
}
