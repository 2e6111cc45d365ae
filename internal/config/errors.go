package config

import "errors"

var (
	// ErrInvalid indicates a configuration value outside its allowed range.
	ErrInvalid = errors.New("config: invalid value")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("config: unknown preset")

	// ErrEnv indicates a FOLIO_* environment variable that could not be parsed.
	ErrEnv = errors.New("config: bad environment variable")
)
