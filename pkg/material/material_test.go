package material

import (
	"math"
	"testing"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

func TestLambertian_ScatterAboveSurface(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.6, 0.7)
	lambertian := NewLambertian(albedo)
	sampler := core.NewSeededSampler(42)

	rayIn := core.NewRayAtTime(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), 0.25)
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	for i := 0; i < 500; i++ {
		scatter, ok := lambertian.Scatter(rayIn, hit, sampler)
		if !ok {
			t.Fatal("Lambertian should always scatter")
		}
		if scatter.Scattered.Direction.Dot(hit.Normal) < -1e-12 {
			t.Fatalf("Scattered direction %v points below the surface", scatter.Scattered.Direction)
		}
		if scatter.Attenuation != albedo {
			t.Fatalf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}
		if scatter.Scattered.Time != 0.25 {
			t.Fatalf("Expected scattered ray to keep time 0.25, got %f", scatter.Scattered.Time)
		}
	}
}

func TestLambertian_DegenerateDirectionFallsBackToNormal(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(1, 1, 1))
	normal := core.NewVec3(0, 0, -1)

	// Get2D (0, *) samples z = 1, the exact opposite of the normal
	sampler := core.FixedSampler{Value: 0}
	hit := HitRecord{Normal: normal, FrontFace: true}

	scatter, ok := lambertian.Scatter(core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)), hit, sampler)
	if !ok {
		t.Fatal("Lambertian should always scatter")
	}
	if scatter.Scattered.Direction != normal {
		t.Errorf("Expected fallback to normal %v, got %v", normal, scatter.Scattered.Direction)
	}
}

func TestLambertian_TextureLookupUsesHit(t *testing.T) {
	checker := NewCheckerColors(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	lambertian := NewTexturedLambertian(checker)
	point := core.NewVec3(0.1, 0.1, 0.1) // all sines positive
	hit := HitRecord{Point: point, Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	scatter, _ := lambertian.Scatter(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), hit, core.NewSeededSampler(1))
	if scatter.Attenuation != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected even checker color, got %v", scatter.Attenuation)
	}
}

func TestNewMetal_FuzznessClamp(t *testing.T) {
	tests := []struct {
		name             string
		inputFuzzness    float64
		expectedFuzzness float64
	}{
		{"Valid fuzzness 0.0", 0.0, 0.0},
		{"Valid fuzzness 0.5", 0.5, 0.5},
		{"Valid fuzzness 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzzness)
			if metal.Fuzzness != tt.expectedFuzzness {
				t.Errorf("Expected fuzzness %f, got %f", tt.expectedFuzzness, metal.Fuzzness)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)

	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, core.NewSeededSampler(42))
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	actual := scatter.Scattered.Direction.Normalize()
	if actual.Subtract(expected).Length() > 1e-10 {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, actual)
	}
	if scatter.Attenuation != albedo {
		t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
	}
}

// pointSampler returns the same 3D sample every call
type pointSampler struct {
	core.FixedSampler
	point core.Vec3
}

func (p pointSampler) Get3D() core.Vec3 { return p.point }

func TestMetal_GrazingFuzzIsAbsorbed(t *testing.T) {
	metal := NewMetal(core.NewVec3(1, 1, 1), 1.0)

	// A grazing reflection plus a fuzz sample of (0, 0, -1) ends up below the surface
	rayIn := core.NewRay(core.NewVec3(-1, 0, 0.01), core.NewVec3(1, 0, -0.01))
	hit := HitRecord{Normal: core.NewVec3(0, 0, 1), FrontFace: true}

	// r = ∛1 = 1, cosθ = 2·0 - 1 = -1
	sampler := pointSampler{point: core.NewVec3(1, 0, 0)}

	_, ok := metal.Scatter(rayIn, hit, sampler)
	if ok {
		t.Error("Expected fuzzed reflection below the surface to be absorbed")
	}
}

func TestDielectric_AlwaysScattersWithNeutralAttenuation(t *testing.T) {
	glass := NewDielectric(1.5)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0))
	hit := HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	sampler := core.NewSeededSampler(42)
	for i := 0; i < 200; i++ {
		result, ok := glass.Scatter(rayIn, hit, sampler)
		if !ok {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Attenuation != core.NewVec3(1, 1, 1) {
			t.Fatalf("Expected neutral attenuation, got %v", result.Attenuation)
		}
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Shallow ray leaving glass: ratio 1.5 * sinθ > 1
	rayIn := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, -0.1, 0))
	hit := HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: false}

	// A draw of 1 never wins the Schlick test, so only TIR can reflect
	result, _ := glass.Scatter(rayIn, hit, core.FixedSampler{Value: 0.999999})
	if result.Scattered.Direction.Y <= 0 {
		t.Errorf("Expected total internal reflection upward, got %v", result.Scattered.Direction)
	}
}

func TestDielectric_UnitIndexNeverBends(t *testing.T) {
	matched := NewDielectric(1.0)
	sampler := core.NewSeededSampler(11)

	for i := 0; i < 500; i++ {
		normal := core.SampleOnUnitSphere(sampler.Get2D())
		direction := core.SampleOnUnitSphere(sampler.Get2D())
		if direction.Dot(normal) > 0 {
			direction = direction.Negate()
		}
		if math.Abs(direction.Dot(normal)) < 1e-6 {
			continue
		}

		for _, frontFace := range []bool{true, false} {
			hit := HitRecord{Normal: normal, FrontFace: frontFace}
			result, ok := matched.Scatter(core.NewRay(core.Vec3{}, direction), hit, sampler)
			if !ok {
				t.Fatal("Dielectric should always scatter")
			}
			if result.Scattered.Direction.Subtract(direction).Length() > 1e-9 {
				t.Fatalf("Expected unchanged direction %v, got %v", direction, result.Scattered.Direction)
			}
		}
	}
}

func TestReflectance(t *testing.T) {
	// Normal incidence air->glass is about 4%
	r := Reflectance(1.0, 1.0/1.5)
	if math.Abs(r-0.04) > 1e-9 {
		t.Errorf("Expected 0.04 at normal incidence, got %f", r)
	}
	// Grazing incidence reflects everything
	if r := Reflectance(0.0, 1.0/1.5); math.Abs(r-1) > 1e-9 {
		t.Errorf("Expected 1 at grazing incidence, got %f", r)
	}
	if r := Reflectance(0.3, 1.0); r != 0 {
		t.Errorf("Expected no reflectance across matched indices, got %f", r)
	}
}

func TestDiffuseLight(t *testing.T) {
	emission := core.NewVec3(4, 4, 4)
	light := NewDiffuseLight(emission)
	sampler := core.NewSeededSampler(5)

	for i := 0; i < 50; i++ {
		point := sampler.Get3D().Multiply(100)
		uv := sampler.Get2D()
		hit := HitRecord{Point: point, Normal: core.NewVec3(0, 1, 0), UV: uv, FrontFace: i%2 == 0}

		if _, ok := light.Scatter(core.NewRay(core.Vec3{}, core.NewVec3(0, -1, 0)), hit, sampler); ok {
			t.Fatal("Diffuse light should never scatter")
		}
		if got := light.Emitted(uv, point); got != emission {
			t.Fatalf("Expected emission %v, got %v", emission, got)
		}
	}
}

func TestNonEmittersEmitNothing(t *testing.T) {
	materials := []Material{
		NewLambertian(core.NewVec3(1, 1, 1)),
		NewMetal(core.NewVec3(1, 1, 1), 0.2),
		NewDielectric(1.5),
	}
	for _, m := range materials {
		if got := m.Emitted(core.NewVec2(0.5, 0.5), core.NewVec3(1, 2, 3)); got != (core.Vec3{}) {
			t.Errorf("%T: expected no emission, got %v", m, got)
		}
	}
}
