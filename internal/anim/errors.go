package anim

import "errors"

var (
	// ErrNoSurface indicates a driver was started without a renderer to drive.
	ErrNoSurface = errors.New("anim: no renderer attached")

	// ErrRunning indicates Start was called on a driver that is already running.
	ErrRunning = errors.New("anim: driver already running")

	// ErrInvalidFPS indicates a frame rate outside the supported range.
	ErrInvalidFPS = errors.New("anim: frame rate out of range")
)
