package anim

import (
	"math"
	"math/rand"
	"time"
)

// MaxFrameDelta caps the elapsed time fed into a single frame so a
// suspended host does not produce one huge jump on resume.
const MaxFrameDelta = 50 * time.Millisecond

// RGBA is a color with components in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// WithAlpha returns c with its alpha replaced by a, clamped to [0,1].
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = Clamp01(a)
	return c
}

// Surface is anything a renderer can paint on. Coordinates are in the
// surface's own units, origin top-left.
type Surface interface {
	Size() (w, h float64)
	Clear()
	// Fade paints a translucent black layer over the whole surface.
	Fade(alpha float64)
	Dot(x, y, r float64, c RGBA)
	Line(x0, y0, x1, y1, width float64, c RGBA)
	Glyph(x, y, size float64, g rune, c RGBA)
	RadialGlow(cx, cy, r float64, inner, outer RGBA)
	Ring(cx, cy, r, width float64, c RGBA)
}

// ResizableSurface is a surface whose backing store can be reallocated.
type ResizableSurface interface {
	Surface
	Resize(w, h float64)
}

// Renderer advances and paints one animation.
type Renderer interface {
	Resize(w, h float64)
	Frame(dt time.Duration)
}

// Finisher is implemented by renderers that reach a final state. A driver
// stops scheduling frames once Done reports true.
type Finisher interface {
	Done() bool
}

// ResizeSurface resizes s when it supports it.
func ResizeSurface(s Surface, w, h float64) {
	if rs, ok := s.(ResizableSurface); ok {
		rs.Resize(w, h)
	}
}

// Ready reports whether s exists and has a drawable area.
func Ready(s Surface) bool {
	if s == nil {
		return false
	}
	w, h := s.Size()
	return w > 0 && h > 0
}

// CapDelta clamps dt to [0, MaxFrameDelta].
func CapDelta(dt time.Duration) time.Duration {
	if dt < 0 {
		return 0
	}
	if dt > MaxFrameDelta {
		return MaxFrameDelta
	}
	return dt
}

// FrameScale converts dt to a multiple of a 60fps frame.
func FrameScale(dt time.Duration) float64 {
	return dt.Seconds() * 60
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// NewRand returns a generator seeded with seed, or with the wall clock when
// seed is zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
