package wildfire

import "errors"

var (
	// ErrInvalidDimension is returned when a grid is requested with a
	// non-positive width or height.
	ErrInvalidDimension = errors.New("wildfire: grid dimensions must be positive")
	// ErrOutOfBounds is returned when an ignition coordinate lies outside the
	// grid.
	ErrOutOfBounds = errors.New("wildfire: coordinate outside grid")
	// ErrInvalidMaxBurn is returned when a run is configured with MaxBurn < 1.
	ErrInvalidMaxBurn = errors.New("wildfire: max burn must be at least 1")
)
