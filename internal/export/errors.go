package export

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrFormat indicates an output path whose extension is not png or gif.
	ErrFormat = errors.New("export: unsupported format")

	// ErrFrames indicates a frame count outside [1, MaxFrames].
	ErrFrames = errors.New("export: frame count out of range")
)

func lowerExt(path string) string { return strings.ToLower(filepath.Ext(path)) }
