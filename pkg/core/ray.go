package core

// Ray represents a ray with an origin, a direction and the time it was sampled at
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Time      float64 // Sample time within the shutter window, used for motion blur
}

// NewRay creates a new ray at time zero
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewRayAtTime creates a new ray sampled at the given time
func NewRayAtTime(origin, direction Vec3, time float64) Ray {
	return Ray{Origin: origin, Direction: direction, Time: time}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
