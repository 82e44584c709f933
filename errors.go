package tilemask

import "errors"

// Common errors returned by tilemask operations.
var (
	// ErrInvalidDimensions is returned when a raster width or height is
	// not positive.
	ErrInvalidDimensions = errors.New("tilemask: invalid dimensions")

	// ErrScratchTooLarge is returned when a shape operation would need a
	// scratch raster beyond the allocation guard. It indicates an
	// unreasonable input geometry or expansion radius, not a data error.
	ErrScratchTooLarge = errors.New("tilemask: scratch raster too large")

	// ErrInvalidSnapshot is returned when restoring a snapshot whose
	// raster is missing or malformed.
	ErrInvalidSnapshot = errors.New("tilemask: invalid snapshot")
)
