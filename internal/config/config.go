package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/globe"
	"github.com/san-kum/folio/internal/rain"
	"github.com/san-kum/folio/internal/scramble"
)

const (
	DefaultFPS    = anim.DefaultFPS
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultTheme  = "retro"

	// largest export or preview surface on either side
	MaxSide = 4096
)

type Config struct {
	FPS           int            `yaml:"fps"`
	Seed          int64          `yaml:"seed"`
	Width         int            `yaml:"width"`
	Height        int            `yaml:"height"`
	Theme         string         `yaml:"theme"`
	ReducedMotion bool           `yaml:"reduced_motion"`
	MotionFile    string         `yaml:"motion_file,omitempty"`
	Globe         GlobeConfig    `yaml:"globe"`
	Rain          RainConfig     `yaml:"rain"`
	Scramble      ScrambleConfig `yaml:"scramble"`
}

type GlobeConfig struct {
	Points              int     `yaml:"points"`
	Intensity           float64 `yaml:"intensity"`
	ArcSpawnProbability float64 `yaml:"arc_spawn_probability"`
	MaxArcs             int     `yaml:"max_arcs"`
	Tilt                float64 `yaml:"tilt"`
}

type RainConfig struct {
	Density float64 `yaml:"density"`
	Charset string  `yaml:"charset"`
}

type ScrambleConfig struct {
	Text          string `yaml:"text"`
	Charset       string `yaml:"charset"`
	LetterDelayMs int    `yaml:"letter_delay_ms"`
	SettleSpeedMs int    `yaml:"settle_speed_ms"`
	MaxSteps      int    `yaml:"max_steps"`
}

func DefaultConfig() *Config {
	g, r, s := globe.DefaultConfig(), rain.DefaultConfig(), scramble.DefaultConfig()
	return &Config{
		FPS:    DefaultFPS,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Theme:  DefaultTheme,
		Globe: GlobeConfig{
			Points:              g.Points,
			Intensity:           g.Intensity,
			ArcSpawnProbability: g.ArcSpawnProbability,
			MaxArcs:             g.MaxArcs,
			Tilt:                g.Tilt,
		},
		Rain: RainConfig{Density: r.Density, Charset: r.Charset},
		Scramble: ScrambleConfig{
			Text:          "HELLO, WORLD",
			Charset:       s.Charset,
			LetterDelayMs: int(s.LetterDelay / time.Millisecond),
			SettleSpeedMs: int(s.SettleSpeed / time.Millisecond),
			MaxSteps:      s.MaxSteps,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no renderer can run with. Zero intensity and
// zero density are allowed; they just draw nothing new.
func (c *Config) Validate() error {
	switch {
	case c.FPS < 1 || c.FPS > anim.MaxFPS:
		return fmt.Errorf("%w: fps %d not in [1, %d]", ErrInvalid, c.FPS, anim.MaxFPS)
	case c.Width < 1 || c.Width > MaxSide || c.Height < 1 || c.Height > MaxSide:
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Globe.Points < 1:
		return fmt.Errorf("%w: globe points %d", ErrInvalid, c.Globe.Points)
	case c.Globe.Intensity < 0:
		return fmt.Errorf("%w: globe intensity %g", ErrInvalid, c.Globe.Intensity)
	case c.Globe.ArcSpawnProbability < 0 || c.Globe.ArcSpawnProbability > 1:
		return fmt.Errorf("%w: arc spawn probability %g", ErrInvalid, c.Globe.ArcSpawnProbability)
	case c.Globe.MaxArcs < 0:
		return fmt.Errorf("%w: max arcs %d", ErrInvalid, c.Globe.MaxArcs)
	case c.Rain.Density < 0 || c.Rain.Density > 1:
		return fmt.Errorf("%w: rain density %g", ErrInvalid, c.Rain.Density)
	case c.Rain.Charset == "" || c.Scramble.Charset == "":
		return fmt.Errorf("%w: empty charset", ErrInvalid)
	case c.Scramble.LetterDelayMs < 0 || c.Scramble.SettleSpeedMs < 0 || c.Scramble.MaxSteps < 0:
		return fmt.Errorf("%w: negative scramble timing", ErrInvalid)
	}
	return nil
}

func (c *Config) GlobeConfig() globe.Config {
	return globe.Config{
		Points:              c.Globe.Points,
		Intensity:           c.Globe.Intensity,
		ArcSpawnProbability: c.Globe.ArcSpawnProbability,
		MaxArcs:             c.Globe.MaxArcs,
		Tilt:                c.Globe.Tilt,
	}
}

func (c *Config) RainConfig() rain.Config {
	return rain.Config{Density: c.Rain.Density, Charset: c.Rain.Charset}
}

func (c *Config) ScrambleConfig() scramble.Config {
	return scramble.Config{
		Charset:     c.Scramble.Charset,
		LetterDelay: time.Duration(c.Scramble.LetterDelayMs) * time.Millisecond,
		SettleSpeed: time.Duration(c.Scramble.SettleSpeedMs) * time.Millisecond,
		MaxSteps:    c.Scramble.MaxSteps,
	}
}
