package core

import (
	"math"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		tMin     float64
		tMax     float64
		expected bool
	}{
		{"Straight through", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 0, math.Inf(1), true},
		{"Miss to the side", NewRay(NewVec3(3, 0, 5), NewVec3(0, 0, -1)), 0, math.Inf(1), false},
		{"Pointing away", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), 0, math.Inf(1), false},
		{"Interval ends before box", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 0, 3, false},
		{"Origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 2, 3)), 0, math.Inf(1), true},
		{"Axis-aligned diagonal miss", NewRay(NewVec3(2, 2, 5), NewVec3(0, 0, -1)), 0, math.Inf(1), false},
		{"Negative zero direction", NewRay(NewVec3(0.5, 0, 5), NewVec3(math.Copysign(0, -1), 0, -1)), 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, tt.tMin, tt.tMax); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAABB_HitFlatBox(t *testing.T) {
	// Rectangles pad their degenerate axis; the padded box must still be hit
	box := NewAABB(NewVec3(-1, -1, -0.001), NewVec3(1, 1, 0.001))
	ray := NewRay(NewVec3(0.2, 0.3, 4), NewVec3(0, 0, -1))
	if !box.Hit(ray, 0.001, math.Inf(1)) {
		t.Error("Expected ray to hit padded flat box")
	}
}

func TestSurrounding(t *testing.T) {
	boxes := []AABB{
		NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1)),
		NewAABB(NewVec3(-2, 0.5, 3), NewVec3(-1, 4, 5)),
		NewAABB(NewVec3(0.25, 0.25, 0.25), NewVec3(0.5, 0.5, 0.5)),
		NewAABB(NewVec3(-5, -5, -5), NewVec3(-5, -5, -5)),
	}

	for i, a := range boxes {
		for j, b := range boxes {
			ab := Surrounding(a, b)
			ba := Surrounding(b, a)
			if ab != ba {
				t.Errorf("Surrounding(%d,%d) not commutative: %v vs %v", i, j, ab, ba)
			}
			if !ab.ContainsBox(a) || !ab.ContainsBox(b) {
				t.Errorf("Surrounding(%d,%d) = %v does not contain both inputs", i, j, ab)
			}
			if !ab.IsValid() {
				t.Errorf("Surrounding(%d,%d) = %v is invalid", i, j, ab)
			}
		}
	}

	left := Surrounding(Surrounding(boxes[0], boxes[1]), boxes[2])
	right := Surrounding(boxes[0], Surrounding(boxes[1], boxes[2]))
	if left != right {
		t.Errorf("Surrounding not associative: %v vs %v", left, right)
	}
}
