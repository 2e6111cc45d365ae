package config

import (
	"fmt"
	"sort"
)

// Presets are tuned variants of the default configuration. Only the fields
// that differ from DefaultConfig are listed.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"calm": func(c *Config) {
		c.FPS = 30
		c.Globe.Intensity = 0.5
		c.Globe.ArcSpawnProbability = 0.012
		c.Globe.MaxArcs = 4
		c.Rain.Density = 0.4
		c.Scramble.LetterDelayMs = 40
		c.Scramble.SettleSpeedMs = 50
	},
	"storm": func(c *Config) {
		c.Globe.Points = 900
		c.Globe.Intensity = 1.8
		c.Globe.ArcSpawnProbability = 0.08
		c.Rain.Density = 1
		c.Scramble.MaxSteps = 12
	},
	"static": func(c *Config) {
		c.ReducedMotion = true
		c.FPS = 1
	},
}

// GetPreset returns a fresh configuration for the named preset.
func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
