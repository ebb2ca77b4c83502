package core

import "errors"

var (
	// ErrZeroVector is returned when normalizing a vector of zero length
	ErrZeroVector = errors.New("zero-length vector has no unit vector")

	// ErrNoBoundingBox is returned when a surface cannot report a bounding box
	ErrNoBoundingBox = errors.New("no bounding box")

	// ErrEmptyScene is returned when an accelerator is built over no surfaces
	ErrEmptyScene = errors.New("scene has no objects")
)
