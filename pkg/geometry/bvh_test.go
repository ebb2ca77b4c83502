package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/material"
)

// unboundedShape reports no bounding box
type unboundedShape struct{}

func (u *unboundedShape) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return nil, false
}

func (u *unboundedShape) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.AABB{}, false
}

// randomShapes builds a mixed set of spheres, moving spheres and rectangles
func randomShapes(random *rand.Rand, count int) []Shape {
	shapes := make([]Shape, 0, count)
	randomPoint := func(scale float64) core.Vec3 {
		return core.NewVec3(
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
		)
	}

	for i := 0; i < count; i++ {
		mat := &DummyMaterial{Name: string(rune('a' + i%26))}
		center := randomPoint(10)
		switch i % 5 {
		case 0, 1:
			shapes = append(shapes, NewSphere(center, 0.2+random.Float64(), mat))
		case 2:
			shapes = append(shapes, NewMovingSphere(center, center.Add(randomPoint(1)), 0, 1, 0.3+random.Float64()*0.5, mat))
		case 3:
			shapes = append(shapes, NewXYRect(center, 0.5+random.Float64()*2, 0.5+random.Float64()*2, mat))
		default:
			if random.Intn(2) == 0 {
				shapes = append(shapes, NewYZRect(center, 0.5+random.Float64()*2, 0.5+random.Float64()*2, mat))
			} else {
				shapes = append(shapes, NewXZRect(center, 0.5+random.Float64()*2, 0.5+random.Float64()*2, mat))
			}
		}
	}
	return shapes
}

func randomRay(random *rand.Rand) core.Ray {
	origin := core.NewVec3((random.Float64()*2-1)*15, (random.Float64()*2-1)*15, (random.Float64()*2-1)*15)
	target := core.NewVec3((random.Float64()*2-1)*5, (random.Float64()*2-1)*5, (random.Float64()*2-1)*5)
	return core.NewRayAtTime(origin, target.Subtract(origin), random.Float64())
}

func TestBVH_MatchesLinearList(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	shapes := randomShapes(random, 120)
	list := NewHittableList(shapes...)

	permuted := make([]Shape, len(shapes))
	for i, j := range random.Perm(len(shapes)) {
		permuted[i] = shapes[j]
	}

	bvh, err := NewBVH(permuted, 0, 1, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	hits := 0
	for i := 0; i < 2000; i++ {
		ray := randomRay(random)
		tMax := math.Inf(1)
		if i%4 == 0 {
			tMax = 5 + random.Float64()*20
		}

		want, wantHit := list.Hit(ray, 0.001, tMax)
		got, gotHit := bvh.Hit(ray, 0.001, tMax)

		require.Equal(t, wantHit, gotHit, "ray %d: hit mismatch", i)
		if !wantHit {
			continue
		}
		hits++
		assert.InDelta(t, want.T, got.T, 1e-9, "ray %d: t", i)
		assert.InDelta(t, 0, want.Point.Subtract(got.Point).Length(), 1e-9, "ray %d: point", i)
		assert.InDelta(t, 0, want.Normal.Subtract(got.Normal).Length(), 1e-9, "ray %d: normal", i)
		assert.Same(t, want.Material, got.Material, "ray %d: material", i)
	}

	assert.Greater(t, hits, 100, "expected the random rays to hit something")
}

func TestBVH_HitPointsLieInsideBoundingBox(t *testing.T) {
	random := rand.New(rand.NewSource(5))
	shapes := randomShapes(random, 60)

	for _, shape := range shapes {
		box, ok := shape.BoundingBox(0, 1)
		require.True(t, ok)
		padded := box.Expand(1e-6)

		for i := 0; i < 50; i++ {
			ray := randomRay(random)
			if hit, isHit := shape.Hit(ray, 0.001, math.Inf(1)); isHit {
				assert.True(t, padded.Contains(hit.Point), "%T hit %v outside %v", shape, hit.Point, box)
			}
		}
	}

	bvh, err := NewBVH(shapes, 0, 1, random)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		ray := randomRay(random)
		if hit, isHit := bvh.Hit(ray, 0.001, math.Inf(1)); isHit {
			assert.True(t, bvh.Box.Expand(1e-6).Contains(hit.Point))
		}
	}
}

func TestBVH_SingleShapeAliasesChildren(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, &DummyMaterial{})
	bvh, err := NewBVH([]Shape{sphere}, 0, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Same(t, sphere, bvh.Left)
	assert.Same(t, sphere, bvh.Right)

	hit, isHit := bvh.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, isHit)
	assert.InDelta(t, 4.0, hit.T, 1e-9)

	stats := bvh.Stats()
	assert.Equal(t, 1, stats.Nodes)
	assert.Equal(t, 1, stats.Leaves)
}

func TestBVH_TwoShapesOrderedByBoxMinimum(t *testing.T) {
	// Separated on every axis, so whichever axis is drawn the order is the same
	low := NewSphere(core.NewVec3(-5, -5, -5), 1, &DummyMaterial{})
	high := NewSphere(core.NewVec3(5, 5, 5), 1, &DummyMaterial{})

	for seed := int64(0); seed < 10; seed++ {
		bvh, err := NewBVH([]Shape{high, low}, 0, 1, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		assert.Same(t, low, bvh.Left)
		assert.Same(t, high, bvh.Right)
	}
}

func TestBVH_SameSeedSameTree(t *testing.T) {
	shapes := randomShapes(rand.New(rand.NewSource(8)), 50)

	a, err := NewBVH(shapes, 0, 1, rand.New(rand.NewSource(77)))
	require.NoError(t, err)
	b, err := NewBVH(shapes, 0, 1, rand.New(rand.NewSource(77)))
	require.NoError(t, err)

	assert.Equal(t, a.Stats(), b.Stats())
	assert.Equal(t, a.Box, b.Box)
}

func TestBVH_DoesNotReorderInput(t *testing.T) {
	shapes := randomShapes(rand.New(rand.NewSource(4)), 20)
	original := append([]Shape(nil), shapes...)

	_, err := NewBVH(shapes, 0, 1, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	for i := range shapes {
		assert.Same(t, original[i], shapes[i])
	}
}

func TestBVH_IsBalanced(t *testing.T) {
	shapes := randomShapes(rand.New(rand.NewSource(6)), 256)
	bvh, err := NewBVH(shapes, 0, 1, rand.New(rand.NewSource(6)))
	require.NoError(t, err)

	stats := bvh.Stats()
	assert.Equal(t, 256, stats.Leaves)
	assert.LessOrEqual(t, stats.MaxDepth, 8)
}

func TestBVH_BoxMissPrunesChildren(t *testing.T) {
	spy := &countingShape{box: core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))}
	bvh, err := NewBVH([]Shape{spy, spy}, 0, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, isHit := bvh.Hit(core.NewRay(core.NewVec3(10, 10, 10), core.NewVec3(1, 0, 0)), 0.001, math.Inf(1))
	assert.False(t, isHit)
	assert.Zero(t, spy.calls)
}

func TestBVH_Errors(t *testing.T) {
	_, err := NewBVH(nil, 0, 1, rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, core.ErrEmptyScene))

	shapes := []Shape{
		NewSphere(core.NewVec3(0, 0, 0), 1, &DummyMaterial{}),
		&unboundedShape{},
	}
	_, err = NewBVH(shapes, 0, 1, rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, core.ErrNoBoundingBox))

	// A nested empty list cannot report bounds either
	shapes = []Shape{NewSphere(core.NewVec3(0, 0, 0), 1, &DummyMaterial{}), NewHittableList()}
	_, err = NewBVH(shapes, 0, 1, rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, core.ErrNoBoundingBox))
}

// countingShape records how often it is intersected
type countingShape struct {
	box   core.AABB
	calls int
}

func (c *countingShape) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	c.calls++
	return nil, false
}

func (c *countingShape) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return c.box, true
}
