package anim

// Recorder is a Surface that paints nothing and counts draw calls. It backs
// headless benchmarks and tests.
type Recorder struct {
	W, H float64

	Clears, Fades, Dots, Lines, Glyphs, Glows, Rings int
	// MaxAlpha is the largest alpha seen on any call since the last Reset.
	MaxAlpha float64
	// MinAlpha is the smallest alpha seen on any call since the last Reset.
	MinAlpha float64
	// LastFade is the alpha of the most recent Fade.
	LastFade float64

	seen bool
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }
func (r *Recorder) Resize(w, h float64)      { r.W, r.H = w, h }

func (r *Recorder) Clear() { r.Clears++ }

func (r *Recorder) Fade(alpha float64) {
	r.Fades++
	r.LastFade = alpha
	r.alpha(alpha)
}

func (r *Recorder) Dot(x, y, rad float64, c RGBA) {
	r.Dots++
	r.alpha(c.A)
}

func (r *Recorder) Line(x0, y0, x1, y1, width float64, c RGBA) {
	r.Lines++
	r.alpha(c.A)
}

func (r *Recorder) Glyph(x, y, size float64, g rune, c RGBA) {
	r.Glyphs++
	r.alpha(c.A)
}

func (r *Recorder) RadialGlow(cx, cy, rad float64, inner, outer RGBA) {
	r.Glows++
	r.alpha(inner.A)
	r.alpha(outer.A)
}

func (r *Recorder) Ring(cx, cy, rad, width float64, c RGBA) {
	r.Rings++
	r.alpha(c.A)
}

// Ops is the total number of draw calls recorded.
func (r *Recorder) Ops() int {
	return r.Clears + r.Fades + r.Dots + r.Lines + r.Glyphs + r.Glows + r.Rings
}

func (r *Recorder) Reset() {
	*r = Recorder{W: r.W, H: r.H}
}

func (r *Recorder) alpha(a float64) {
	if !r.seen {
		r.MinAlpha, r.MaxAlpha, r.seen = a, a, true
		return
	}
	if a > r.MaxAlpha {
		r.MaxAlpha = a
	}
	if a < r.MinAlpha {
		r.MinAlpha = a
	}
}
