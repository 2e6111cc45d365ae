// Package raster implements anim.Surface on an in-memory RGBA image.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/san-kum/folio/internal/anim"
)

var (
	fontOnce sync.Once
	mono     *truetype.Font
)

// monoFont parses the embedded Go Mono face once.
func monoFont() *truetype.Font {
	fontOnce.Do(func() {
		f, err := truetype.Parse(gomono.TTF)
		if err != nil {
			panic(err)
		}
		mono = f
	})
	return mono
}

type Surface struct {
	dc    *gg.Context
	w, h  int
	faces map[int]font.Face
}

// New allocates a w x h surface cleared to black. Non-positive sizes give
// an empty surface that reports itself as not ready.
func New(w, h int) *Surface {
	s := &Surface{faces: make(map[int]font.Face)}
	s.alloc(w, h)
	return s
}

func (s *Surface) alloc(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s.w, s.h = w, h
	if w == 0 || h == 0 {
		s.dc = nil
		return
	}
	s.dc = gg.NewContext(w, h)
	s.Clear()
}

func (s *Surface) Size() (float64, float64) { return float64(s.w), float64(s.h) }

// Resize reallocates the backing image when the integer size changes.
func (s *Surface) Resize(w, h float64) {
	nw, nh := int(math.Round(w)), int(math.Round(h))
	if nw == s.w && nh == s.h && s.dc != nil {
		return
	}
	s.alloc(nw, nh)
}

func (s *Surface) Clear() {
	if s.dc == nil {
		return
	}
	s.dc.SetRGB(0, 0, 0)
	s.dc.Clear()
}

func (s *Surface) Fade(alpha float64) {
	if s.dc == nil || alpha <= 0 {
		return
	}
	s.dc.SetRGBA(0, 0, 0, anim.Clamp01(alpha))
	s.dc.DrawRectangle(0, 0, float64(s.w), float64(s.h))
	s.dc.Fill()
}

func (s *Surface) Dot(x, y, r float64, c anim.RGBA) {
	if s.dc == nil || c.A <= 0 || r <= 0 {
		return
	}
	s.set(c)
	s.dc.DrawCircle(x, y, r)
	s.dc.Fill()
}

func (s *Surface) Line(x0, y0, x1, y1, width float64, c anim.RGBA) {
	if s.dc == nil || c.A <= 0 {
		return
	}
	s.set(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(x0, y0, x1, y1)
	s.dc.Stroke()
}

func (s *Surface) Glyph(x, y, size float64, g rune, c anim.RGBA) {
	if s.dc == nil || c.A <= 0 || size <= 0 {
		return
	}
	s.dc.SetFontFace(s.face(size))
	s.set(c)
	s.dc.DrawStringAnchored(string(g), x, y, 0.5, 0.5)
}

func (s *Surface) RadialGlow(cx, cy, r float64, inner, outer anim.RGBA) {
	if s.dc == nil || r <= 0 {
		return
	}
	grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, r)
	grad.AddColorStop(0, toColor(inner))
	grad.AddColorStop(1, toColor(outer))
	s.dc.SetFillStyle(grad)
	s.dc.DrawRectangle(0, 0, float64(s.w), float64(s.h))
	s.dc.Fill()
}

func (s *Surface) Ring(cx, cy, r, width float64, c anim.RGBA) {
	if s.dc == nil || c.A <= 0 || r <= 0 {
		return
	}
	s.set(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawCircle(cx, cy, r)
	s.dc.Stroke()
}

func (s *Surface) set(c anim.RGBA) {
	s.dc.SetRGBA(c.R, c.G, c.B, anim.Clamp01(c.A))
}

// face returns a cached font face for size rounded to whole points.
func (s *Surface) face(size float64) font.Face {
	key := int(math.Round(size))
	if f, ok := s.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(monoFont(), &truetype.Options{Size: float64(key)})
	s.faces[key] = f
	return f
}

// Image returns the live backing image; it changes on the next draw.
func (s *Surface) Image() image.Image {
	if s.dc == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	return s.dc.Image()
}

// Snapshot copies the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	src := s.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func (s *Surface) EncodePNG(w io.Writer) error {
	if s.dc == nil {
		return ErrEmpty
	}
	return s.dc.EncodePNG(w)
}

func (s *Surface) SavePNG(path string) error {
	if s.dc == nil {
		return ErrEmpty
	}
	return s.dc.SavePNG(path)
}

func toColor(c anim.RGBA) color.Color {
	a := anim.Clamp01(c.A)
	return color.NRGBA{
		R: uint8(anim.Clamp01(c.R) * 255),
		G: uint8(anim.Clamp01(c.G) * 255),
		B: uint8(anim.Clamp01(c.B) * 255),
		A: uint8(a * 255),
	}
}
