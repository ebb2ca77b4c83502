package geometry

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/material"
)

// BVHNode is a node in a binary Bounding Volume Hierarchy. Children are any
// Shape: other nodes, or primitives at the leaves. A node built over a single
// shape has Left == Right.
type BVHNode struct {
	Left  Shape
	Right Shape
	Box   core.AABB // Union of both children over the construction time window
}

// boxedShape caches a shape's bounds for sorting during construction
type boxedShape struct {
	shape Shape
	box   core.AABB
}

// NewBVH builds a BVH over shapes, bounding motion over [time0, time1].
//
// Each node splits on an axis drawn from random, sorts its range by box
// minimum on that axis and splits at the median. Axis choice is per node, not
// per level. Passing the same seeded generator reproduces the same tree.
//
// Shapes without bounds cannot be accelerated; construction fails with an
// error wrapping core.ErrNoBoundingBox. The input slice is not modified.
func NewBVH(shapes []Shape, time0, time1 float64, random *rand.Rand) (*BVHNode, error) {
	if len(shapes) == 0 {
		return nil, core.ErrEmptyScene
	}

	items := make([]boxedShape, len(shapes))
	for i, shape := range shapes {
		box, ok := shape.BoundingBox(time0, time1)
		if !ok {
			return nil, fmt.Errorf("shape %d (%T): %w", i, shape, core.ErrNoBoundingBox)
		}
		items[i] = boxedShape{shape: shape, box: box}
	}

	return buildBVH(items, time0, time1, random)
}

// NewBVHFromList builds a BVH over the members of a list
func NewBVHFromList(list *HittableList, time0, time1 float64, random *rand.Rand) (*BVHNode, error) {
	return NewBVH(list.Objects, time0, time1, random)
}

// buildBVH recursively partitions items, which it may reorder
func buildBVH(items []boxedShape, time0, time1 float64, random *rand.Rand) (*BVHNode, error) {
	axis := random.Intn(3)
	less := func(a, b boxedShape) bool {
		return a.box.Min.Axis(axis) < b.box.Min.Axis(axis)
	}

	node := &BVHNode{}

	switch len(items) {
	case 1:
		node.Left = items[0].shape
		node.Right = items[0].shape
	case 2:
		if less(items[0], items[1]) {
			node.Left, node.Right = items[0].shape, items[1].shape
		} else {
			node.Left, node.Right = items[1].shape, items[0].shape
		}
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return less(items[i], items[j])
		})

		mid := len(items) / 2
		left, err := buildBVH(items[:mid], time0, time1, random)
		if err != nil {
			return nil, err
		}
		right, err := buildBVH(items[mid:], time0, time1, random)
		if err != nil {
			return nil, err
		}
		node.Left, node.Right = left, right
	}

	boxLeft, okLeft := node.Left.BoundingBox(time0, time1)
	boxRight, okRight := node.Right.BoundingBox(time0, time1)
	if !okLeft || !okRight {
		return nil, fmt.Errorf("bvh node children: %w", core.ErrNoBoundingBox)
	}
	node.Box = core.Surrounding(boxLeft, boxRight)

	return node, nil
}

// Hit tests the node's box first and skips both subtrees on a miss. The right
// subtree is searched only up to the left hit, so it can only report
// something closer; ties keep the left hit.
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !n.Box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax)
	if hitLeft {
		tMax = leftHit.T
	}

	rightHit, hitRight := n.Right.Hit(ray, tMin, tMax)
	if hitRight && (!hitLeft || rightHit.T < leftHit.T) {
		return rightHit, true
	}

	return leftHit, hitLeft
}

// BoundingBox returns the cached box; the window is fixed at construction
func (n *BVHNode) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return n.Box, true
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	Nodes    int // Interior nodes
	Leaves   int // Primitive references at the bottom of the tree
	MaxDepth int
}

// Stats walks the tree and collects structure statistics
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{}
	n.collectStats(0, &stats)
	return stats
}

// collectStats recursively collects statistics about the BVH
func (n *BVHNode) collectStats(depth int, stats *BVHStats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	children := []Shape{n.Left}
	if n.Right != n.Left {
		children = append(children, n.Right)
	}

	for _, child := range children {
		if node, ok := child.(*BVHNode); ok {
			node.collectStats(depth+1, stats)
		} else {
			stats.Leaves++
		}
	}
}
