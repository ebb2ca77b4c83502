package server

import (
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/integrator"
	"github.com/df07/go-motion-pathtracer/pkg/material"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	UV           [2]float64             `json:"uv"`
	Distance     float64                `json:"distance"`
	Time         float64                `json:"time"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo describes a material, evaluating textures at the hit
func extractMaterialInfo(hit *material.HitRecord) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := hit.Material.(type) {
	case *material.Lambertian:
		albedo := m.Albedo.Evaluate(hit.UV, hit.Point)
		properties["albedo"] = vecArray(albedo)
		properties["color"] = hexColor(albedo)
		properties["texture"] = textureType(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff"
		return "dielectric", properties

	case *material.DiffuseLight:
		properties["emission"] = vecArray(m.Emission)
		properties["color"] = hexColor(m.Emission)
		return "diffuse_light", properties

	default:
		properties["type"] = fmt.Sprintf("%T", m)
		return "unknown", properties
	}
}

func textureType(texture material.Texture) string {
	switch texture.(type) {
	case *material.SolidColor:
		return "solid"
	case *material.CheckerTexture:
		return "checker"
	case *material.NoiseTexture:
		return "noise"
	default:
		return fmt.Sprintf("%T", texture)
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor formats a linear color as gamma-corrected #rrggbb
func hexColor(c core.Vec3) string {
	c = c.GammaCorrect(2).Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// handleInspect traces the ray through the center of one pixel, at
// mid-shutter through the lens center, and reports the nearest hit
func (s *Server) handleInspect(c echo.Context) error {
	values := c.QueryParams()
	cfg, err := parseRenderRequest(values)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}

	_, rt, err := cfg.Prepare(nil)
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}

	sampling := rt.SamplingConfig()
	x, err := parsePixelParam(values, "x", sampling.Width)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	y, err := parsePixelParam(values, "y", sampling.Height)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}

	ray := rt.PixelRay(x, y, core.FixedSampler{Value: 0.5})
	response := InspectResponse{Time: ray.Time}

	hit, ok := rt.World().Hit(ray, integrator.DefaultTMin, math.Inf(1))
	if ok {
		response.Hit = true
		response.Point = vecArray(hit.Point)
		response.Normal = vecArray(hit.Normal)
		response.UV = [2]float64{hit.UV.X, hit.UV.Y}
		response.Distance = hit.T * ray.Direction.Length()
		response.FrontFace = hit.FrontFace
		response.MaterialType, response.Properties = extractMaterialInfo(hit)
	}

	return c.JSON(http.StatusOK, response)
}

// parsePixelParam reads a required pixel coordinate in [0, size)
func parsePixelParam(values url.Values, key string, size int) (int, error) {
	if !values.Has(key) {
		return 0, fmt.Errorf("%s is required", key)
	}
	return parseIntParam(values, key, 0, 0, size-1)
}
