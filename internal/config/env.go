package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/san-kum/folio/internal/motion"
)

const (
	EnvFPS           = "FOLIO_FPS"
	EnvSeed          = "FOLIO_SEED"
	EnvTheme         = "FOLIO_THEME"
	EnvReducedMotion = "FOLIO_REDUCED_MOTION"
	EnvMotionFile    = "FOLIO_MOTION_FILE"
)

// ApplyEnv overrides c from FOLIO_* variables. The given dotenv files
// (".env" when none) are loaded first; missing files are skipped and
// variables already set in the process win.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv(EnvFPS); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrEnv, EnvFPS, v)
		}
		c.FPS = n
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrEnv, EnvSeed, v)
		}
		c.Seed = n
	}
	if v, ok := os.LookupEnv(EnvTheme); ok && v != "" {
		c.Theme = v
	}
	if v, ok := os.LookupEnv(EnvReducedMotion); ok {
		c.ReducedMotion = motion.Parse(v)
	}
	if v, ok := os.LookupEnv(EnvMotionFile); ok {
		c.MotionFile = v
	}
	return nil
}
