package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/folio/internal/anim"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	blank = rune(0x2800)

	// Surface units per terminal cell. A braille dot covers 4x4 units.
	CellWidth  = 8
	CellHeight = 16
	dotWidth   = CellWidth / 2
	dotHeight  = CellHeight / 4

	// cells fainter than this are dropped
	visibleFloor = 0.08
)

// Canvas is a braille canvas with a per-cell brightness and an optional
// glyph overlay. It implements anim.Surface in units of CellWidth x
// CellHeight per cell so renderers size glyphs the same way on a terminal
// as on an image.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Level         [][]float64
	Glyphs        [][]rune

	ink float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{ink: 1}
	c.alloc(w, h)
	return c
}

func (c *Canvas) alloc(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Level = make([][]float64, h)
	c.Glyphs = make([][]rune, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Level[i] = make([]float64, w)
		c.Glyphs[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
	c.Level[row][col] = math.Max(c.Level[row][col], c.ink)
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Level[i][j] = 0
			c.Glyphs[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if g := c.Glyphs[i][j]; g != 0 {
				r = g
			}
			b.WriteRune(r)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Render draws the canvas with theme colors, brightest cells in the
// primary color. Runs of equal color share one style call.
func (c *Canvas) Render(t Theme) string {
	styles := [3]lipgloss.Style{
		lipgloss.NewStyle().Foreground(t.Primary),
		lipgloss.NewStyle().Foreground(t.Secondary),
		lipgloss.NewStyle().Foreground(t.Muted),
	}

	var b strings.Builder
	var run strings.Builder
	for i, row := range c.Grid {
		cur := -1
		for j, r := range row {
			if g := c.Glyphs[i][j]; g != 0 {
				r = g
			}
			bucket := -1
			if r != blank {
				bucket = levelBucket(c.Level[i][j])
			} else {
				r = ' '
			}
			if bucket != cur {
				flush(&b, &run, styles, cur)
				cur = bucket
			}
			run.WriteRune(r)
		}
		flush(&b, &run, styles, cur)
		b.WriteString("\n")
	}
	return b.String()
}

func flush(b, run *strings.Builder, styles [3]lipgloss.Style, bucket int) {
	if run.Len() == 0 {
		return
	}
	if bucket < 0 {
		b.WriteString(run.String())
	} else {
		b.WriteString(styles[bucket].Render(run.String()))
	}
	run.Reset()
}

func levelBucket(l float64) int {
	switch {
	case l >= 0.6:
		return 0
	case l >= 0.3:
		return 1
	}
	return 2
}

// Size reports the canvas in surface units.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.Width * CellWidth), float64(c.Height * CellHeight)
}

// Resize reallocates to the number of whole cells that fit w x h units.
func (c *Canvas) Resize(w, h float64) {
	cols, rows := int(w/CellWidth), int(h/CellHeight)
	if cols == c.Width && rows == c.Height {
		return
	}
	c.alloc(cols, rows)
}

// Fade dims every cell and drops those that fall below the visible floor,
// which is how trails decay on a terminal.
func (c *Canvas) Fade(alpha float64) {
	keep := 1 - anim.Clamp01(alpha)
	for i := range c.Level {
		for j := range c.Level[i] {
			l := c.Level[i][j] * keep
			if l < visibleFloor {
				c.Grid[i][j] = blank
				c.Glyphs[i][j] = 0
				l = 0
			}
			c.Level[i][j] = l
		}
	}
}

func (c *Canvas) Dot(x, y, r float64, col anim.RGBA) {
	if col.A < visibleFloor {
		return
	}
	c.ink = col.A
	defer c.resetInk()

	sx, sy := int(x/dotWidth), int(y/dotHeight)
	rs := int(math.Round(r / dotWidth))
	if rs < 1 {
		c.Set(sx, sy)
		return
	}
	for dy := -rs; dy <= rs; dy++ {
		for dx := -rs; dx <= rs; dx++ {
			if dx*dx+dy*dy <= rs*rs {
				c.Set(sx+dx, sy+dy)
			}
		}
	}
}

func (c *Canvas) Line(x0, y0, x1, y1, width float64, col anim.RGBA) {
	if col.A < visibleFloor {
		return
	}
	c.ink = col.A
	defer c.resetInk()
	c.DrawLine(int(x0/dotWidth), int(y0/dotHeight), int(x1/dotWidth), int(y1/dotHeight))
}

// Glyph places g in the cell containing (x, y). Terminal glyphs have a
// fixed size.
func (c *Canvas) Glyph(x, y, size float64, g rune, col anim.RGBA) {
	if col.A < visibleFloor || x < 0 || y < 0 {
		return
	}
	cx, cy := int(x/CellWidth), int(y/CellHeight)
	if cx >= c.Width || cy >= c.Height {
		return
	}
	c.Glyphs[cy][cx] = g
	c.Level[cy][cx] = math.Max(c.Level[cy][cx], col.A)
}

// RadialGlow is a no-op: a terminal cell cannot hold a gradient.
func (c *Canvas) RadialGlow(cx, cy, r float64, inner, outer anim.RGBA) {}

func (c *Canvas) Ring(cx, cy, r, width float64, col anim.RGBA) {
	const segments = 48
	px, py := cx+r, cy
	for i := 1; i <= segments; i++ {
		a := float64(i) * 2 * math.Pi / segments
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		c.Line(px, py, x, y, width, col)
		px, py = x, y
	}
}

func (c *Canvas) resetInk() { c.ink = 1 }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
