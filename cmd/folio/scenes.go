package main

import (
	"fmt"
	"time"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/config"
	"github.com/san-kum/folio/internal/globe"
	"github.com/san-kum/folio/internal/motion"
	"github.com/san-kum/folio/internal/rain"
	"github.com/san-kum/folio/internal/scramble"
	"github.com/san-kum/folio/internal/viz"
)

// scenes lists what the menu offers. text overrides the configured
// scramble text when not empty.
func scenes(cfg *config.Config, text string) []viz.Scene {
	if text == "" {
		text = cfg.Scramble.Text
	}
	return []viz.Scene{
		{
			Name: "globe",
			Info: "fibonacci sphere with beam arcs",
			Build: func(c *viz.Canvas, sig motion.Signal) (anim.Renderer, func() string) {
				g := globe.New(cfg.GlobeConfig(), c, sig, globe.WithSeed(cfg.Seed))
				return g, func() string {
					st := g.Stats()
					return fmt.Sprintf("points %d  arcs %d/%d  spawned %d", st.Points, st.ActiveArcs, cfg.Globe.MaxArcs, st.Spawned)
				}
			},
		},
		{
			Name: "rain",
			Info: "hud digital rain",
			Build: func(c *viz.Canvas, sig motion.Signal) (anim.Renderer, func() string) {
				r := rain.New(cfg.RainConfig(), c, sig, rain.WithSeed(cfg.Seed))
				return r, func() string {
					st := r.Stats()
					return fmt.Sprintf("columns %d  glyph %.0f  resets %d", st.Columns, st.GlyphSize, st.Resets)
				}
			},
		},
		{
			Name: "scramble",
			Info: "character scramble reveal",
			Build: func(c *viz.Canvas, sig motion.Signal) (anim.Renderer, func() string) {
				s := scramble.New(cfg.ScrambleConfig(), text, sig, scramble.WithSeed(cfg.Seed), scramble.WithSurface(c))
				return s, func() string {
					return fmt.Sprintf("run %d  %v", s.Runs(), s.Elapsed().Round(10*time.Millisecond))
				}
			},
		},
	}
}

func findScene(all []viz.Scene, name string) (viz.Scene, bool) {
	for _, sc := range all {
		if sc.Name == name {
			return sc, true
		}
	}
	return viz.Scene{}, false
}

func newRasterRenderer(kind string, cfg *config.Config, s anim.Surface, sig motion.Signal) (anim.Renderer, error) {
	switch kind {
	case "globe":
		return globe.New(cfg.GlobeConfig(), s, sig, globe.WithSeed(cfg.Seed)), nil
	case "rain":
		return rain.New(cfg.RainConfig(), s, sig, rain.WithSeed(cfg.Seed)), nil
	case "scramble":
		return scramble.New(cfg.ScrambleConfig(), cfg.Scramble.Text, sig, scramble.WithSeed(cfg.Seed), scramble.WithSurface(s)), nil
	}
	return nil, fmt.Errorf("unknown renderer: %s (available: globe, rain, scramble)", kind)
}

// newBenchRenderer also returns the per-frame stat plotted next to frame
// cost and its caption.
func newBenchRenderer(kind string, cfg *config.Config, rec *anim.Recorder) (anim.Renderer, func() float64, string, error) {
	sig := motion.Static(cfg.ReducedMotion)
	switch kind {
	case "globe":
		g := globe.New(cfg.GlobeConfig(), rec, sig, globe.WithSeed(cfg.Seed))
		return g, func() float64 { return float64(g.Stats().ActiveArcs) }, "active arcs", nil
	case "rain":
		r := rain.New(cfg.RainConfig(), rec, sig, rain.WithSeed(cfg.Seed))
		return r, func() float64 { return float64(r.Stats().Resets) }, "column resets", nil
	case "scramble":
		s := scramble.New(cfg.ScrambleConfig(), cfg.Scramble.Text, sig, scramble.WithSeed(cfg.Seed), scramble.WithSurface(rec))
		return s, func() float64 {
			if s.Done() {
				s.Restart()
			}
			return float64(s.Elapsed().Milliseconds())
		}, "elapsed (ms)", nil
	}
	return nil, nil, "", fmt.Errorf("unknown renderer: %s (available: globe, rain, scramble)", kind)
}
