package raster

import "errors"

// ErrEmpty is returned when encoding a surface with no pixels.
var ErrEmpty = errors.New("raster: surface has zero size")
