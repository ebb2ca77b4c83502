package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// CameraConfig describes a thin-lens camera with a shutter window
type CameraConfig struct {
	LookFrom      core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // World up direction
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the plane in focus, 0 for |LookAt - LookFrom|
	Time0         float64   // Shutter open
	Time1         float64   // Shutter close
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
	time0, time1    float64
}

// NewCamera builds a camera from its configuration. LookFrom and LookAt must
// differ and Up must not be parallel to the view direction.
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.VFov <= 0 || config.VFov >= 180 {
		return nil, fmt.Errorf("vertical fov %g must be in (0, 180) degrees", config.VFov)
	}
	if config.AspectRatio <= 0 {
		return nil, fmt.Errorf("aspect ratio %g must be positive", config.AspectRatio)
	}
	if config.Time1 < config.Time0 {
		return nil, fmt.Errorf("shutter closes (%g) before it opens (%g)", config.Time1, config.Time0)
	}

	view := config.LookFrom.Subtract(config.LookAt)
	w, err := view.Unit()
	if err != nil {
		return nil, fmt.Errorf("camera look-from equals look-at: %w", err)
	}
	u, err := config.Up.Cross(w).Unit()
	if err != nil {
		return nil, fmt.Errorf("camera up is parallel to the view direction: %w", err)
	}
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = view.Length()
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := config.LookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          config.LookFrom,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		time0:           config.Time0,
		time1:           config.Time1,
	}, nil
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// The origin is jittered across the lens and the time drawn uniformly from
// the shutter window.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	offset := core.Vec3{}
	if c.lensRadius > 0 {
		rd := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin).
		Subtract(offset)

	time := c.time0
	if c.time1 > c.time0 {
		time += (c.time1 - c.time0) * sampler.Get1D()
	}

	return core.NewRayAtTime(c.origin.Add(offset), direction, time)
}
