// Package rain renders column-based falling glyphs under a static HUD frame.
package rain

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/motion"
)

const (
	DefaultDensity = 0.75
	DefaultCharset = "アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワン0123456789:=+*<>|"

	MinGlyphSize = 10.0
	MaxGlyphSize = 14.0

	// fall speed in pixels per 60fps frame at density 1
	MinSpeed  = 0.8
	MaxSpeed  = 2.0
	MinLength = 6
	MaxLength = 24
	MinFade   = 0.6
	MaxFade   = 1.0

	trailFade    = 0.18
	scanRate     = 0.22
	marginGlyphs = 2
)

var (
	colorGlyph = anim.RGBA{R: 0.25, G: 1.0, B: 0.55, A: 1}
	colorHead  = anim.RGBA{R: 0.85, G: 1.0, B: 0.9, A: 1}
	colorScan  = anim.RGBA{R: 0.4, G: 1.0, B: 0.7, A: 0.08}
	colorHUD   = anim.RGBA{R: 0.45, G: 1.0, B: 0.75, A: 0.55}
	colorClear = anim.RGBA{}
	colorShade = anim.RGBA{A: 0.55}
)

type Config struct {
	Density float64
	Charset string
}

func DefaultConfig() Config {
	return Config{Density: DefaultDensity, Charset: DefaultCharset}
}

// Column is one falling stream. Y is the head position in glyph rows; the
// streak extends Length rows above it. Speed is in rows per 60fps frame.
type Column struct {
	Y         float64
	Speed     float64
	Length    int
	FadeRate  float64
	GlyphSize float64
}

// Tail returns the row of the last glyph in the streak.
func (c Column) Tail() float64 { return c.Y - float64(c.Length) }

// GlyphSize derives the glyph size from the surface, clamped to a readable
// range.
func GlyphSize(w, h float64) float64 {
	return anim.Clamp(math.Floor(math.Min(w, h)/10), MinGlyphSize, MaxGlyphSize)
}

// ColumnCount is the number of columns that fit across w.
func ColumnCount(w, glyph float64) int {
	if glyph <= 0 || w <= 0 {
		return 0
	}
	return int(math.Floor(w / glyph))
}

// ColumnSpeed maps a uniform sample u in [0,1) to a fall speed in rows per
// frame. Speed is proportional to density, so density 0 holds every column.
func ColumnSpeed(u, density, glyph float64) float64 {
	if glyph <= 0 {
		return 0
	}
	return (MinSpeed + u*(MaxSpeed-MinSpeed)) * math.Max(0, density) / glyph
}

// GlyphAlpha is the opacity of the k-th glyph behind the head.
func GlyphAlpha(k, length int, fade, density float64) float64 {
	if length <= 0 {
		return 0
	}
	return anim.Clamp01((1 - float64(k)/float64(length)) * fade * math.Max(0, density))
}

type Stats struct {
	Columns   int
	GlyphSize float64
	Resets    int
}

type Rain struct {
	cfg     Config
	surface anim.Surface
	rng     *rand.Rand
	charset []rune

	columns []Column
	glyph   float64
	rows    float64
	w, h    float64
	scan    float64
	resets  int

	reduced     atomic.Bool
	unsubscribe func()
}

type Option func(*Rain)

func WithSeed(seed int64) Option {
	return func(r *Rain) { r.rng = anim.NewRand(seed) }
}

func New(cfg Config, s anim.Surface, sig motion.Signal, opts ...Option) *Rain {
	if cfg.Charset == "" {
		cfg.Charset = DefaultCharset
	}
	r := &Rain{
		cfg:     cfg,
		surface: s,
		rng:     anim.NewRand(0),
		charset: []rune(cfg.Charset),
	}
	for _, opt := range opts {
		opt(r)
	}

	if sig == nil {
		sig = motion.Static(false)
	}
	r.reduced.Store(sig.Reduced())
	r.unsubscribe = sig.Subscribe(func(v bool) { r.reduced.Store(v) })

	if s != nil {
		w, h := s.Size()
		r.setup(w, h)
	}
	return r
}

func (r *Rain) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Resize reinitializes every column, since the column count may change,
// and repaints once.
func (r *Rain) Resize(w, h float64) {
	anim.ResizeSurface(r.surface, w, h)
	r.setup(w, h)
	if anim.Ready(r.surface) {
		r.surface.Clear()
		r.paint()
	}
}

func (r *Rain) setup(w, h float64) {
	r.w, r.h = w, h
	r.glyph = GlyphSize(w, h)
	r.rows = h / r.glyph
	r.columns = make([]Column, ColumnCount(w, r.glyph))
	for i := range r.columns {
		r.columns[i] = r.newColumn(-r.rng.Float64() * r.rows)
	}
}

func (r *Rain) newColumn(y float64) Column {
	return Column{
		Y:         y,
		Speed:     ColumnSpeed(r.rng.Float64(), r.cfg.Density, r.glyph),
		Length:    MinLength + r.rng.Intn(MaxLength-MinLength),
		FadeRate:  MinFade + r.rng.Float64()*(MaxFade-MinFade),
		GlyphSize: r.glyph,
	}
}

func (r *Rain) Frame(dt time.Duration) {
	if !anim.Ready(r.surface) || r.reduced.Load() || len(r.charset) == 0 {
		return
	}
	dt = anim.CapDelta(dt)

	r.surface.Fade(trailFade)
	r.scan = math.Mod(r.scan+dt.Seconds()*scanRate, 1)
	r.paint()
	r.advance(dt)
}

func (r *Rain) advance(dt time.Duration) {
	step := 60 * dt.Seconds()
	limit := r.rows + marginGlyphs
	for i := range r.columns {
		c := &r.columns[i]
		c.Y += c.Speed * step
		if c.Tail() > limit {
			*c = r.newColumn(-r.rng.Float64() * r.rows * 0.5)
			r.resets++
		}
	}
}

func (r *Rain) paint() {
	s := r.surface
	y := r.scan * r.h
	s.Line(0, y, r.w, y, 1, colorScan)

	if len(r.charset) > 0 {
		for i, c := range r.columns {
			x := (float64(i) + 0.5) * r.glyph
			for k := 0; k < c.Length; k++ {
				gy := (c.Y - float64(k)) * r.glyph
				if gy < -r.glyph || gy > r.h+r.glyph {
					continue
				}
				col := colorGlyph
				if k == 0 {
					col = colorHead
				}
				g := r.charset[r.rng.Intn(len(r.charset))]
				s.Glyph(x, gy, r.glyph, g, col.WithAlpha(GlyphAlpha(k, c.Length, c.FadeRate, r.cfg.Density)))
			}
		}
	}
	r.paintChrome()
}

// paintChrome draws the corner brackets, top ticks and vignette. None of it
// depends on rain state.
func (r *Rain) paintChrome() {
	s := r.surface
	w, h := r.w, r.h
	inset := 6.0
	arm := math.Min(w, h) * 0.08

	corners := [4][2]float64{{inset, inset}, {w - inset, inset}, {inset, h - inset}, {w - inset, h - inset}}
	for _, c := range corners {
		dx, dy := arm, arm
		if c[0] > w/2 {
			dx = -arm
		}
		if c[1] > h/2 {
			dy = -arm
		}
		s.Line(c[0], c[1], c[0]+dx, c[1], 1.5, colorHUD)
		s.Line(c[0], c[1], c[0], c[1]+dy, 1.5, colorHUD)
	}

	top := inset + 4
	s.Line(inset+arm*1.5, top, w-inset-arm*1.5, top, 0.8, colorHUD.WithAlpha(0.25))
	for i := 1; i < 24; i++ {
		x := w * float64(i) / 24
		tick := 3.0
		if i%6 == 0 {
			tick = 7
		}
		s.Line(x, top, x, top+tick, 0.8, colorHUD.WithAlpha(0.3))
	}

	s.RadialGlow(w/2, h/2, math.Max(w, h)*0.75, colorClear, colorShade)
}

// Columns returns a copy of the current columns.
func (r *Rain) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

func (r *Rain) Stats() Stats {
	return Stats{Columns: len(r.columns), GlyphSize: r.glyph, Resets: r.resets}
}
