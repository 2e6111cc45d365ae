package viz

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/folio/internal/anim"
)

var white = anim.RGBA{R: 1, G: 1, B: 1, A: 1}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}
	c.Clear()
	if c.Grid[0][0] != blank || c.Grid[0][1] != blank {
		t.Errorf("clear left %U %U", c.Grid[0][0], c.Grid[0][1])
	}
	// out of range is ignored
	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestCanvasSurfaceSize(t *testing.T) {
	c := NewCanvas(10, 5)
	w, h := c.Size()
	if w != 10*CellWidth || h != 5*CellHeight {
		t.Fatalf("size = %vx%v", w, h)
	}
	c.Resize(4*CellWidth+3, 2*CellHeight)
	if c.Width != 4 || c.Height != 2 {
		t.Fatalf("resized to %dx%d", c.Width, c.Height)
	}
	if !anim.Ready(c) {
		t.Fatal("canvas with cells should be ready")
	}
	c.Resize(0, 0)
	if anim.Ready(c) {
		t.Fatal("empty canvas should not be ready")
	}
}

func TestCanvasFadeDropsFaintCells(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Dot(2, 2, 0, white)
	c.Glyph(CellWidth*2+1, 1, 12, 'A', white.WithAlpha(0.5))
	if c.Level[0][0] != 1 || c.Level[0][2] != 0.5 {
		t.Fatalf("levels = %v", c.Level[0])
	}

	c.Fade(0.5)
	if c.Level[0][0] != 0.5 || c.Glyphs[0][2] != 'A' {
		t.Fatalf("after one fade: levels=%v glyphs=%v", c.Level[0], c.Glyphs[0])
	}
	for i := 0; i < 4; i++ {
		c.Fade(0.5)
	}
	if c.Grid[0][0] != blank || c.Glyphs[0][2] != 0 || c.Level[0][0] != 0 {
		t.Fatalf("faded cells should be cleared: %q", c.String())
	}
}

func TestCanvasIgnoresInvisibleInk(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Dot(5, 5, 4, white.WithAlpha(0.01))
	c.Line(0, 0, 30, 60, 1, white.WithAlpha(0.01))
	c.Glyph(5, 5, 12, 'x', white.WithAlpha(0))
	if strings.Trim(c.String(), string(blank)+"\n") != "" {
		t.Fatalf("expected empty canvas, got %q", c.String())
	}
}

func TestCanvasGlyphOverridesDots(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Dot(1, 1, 0, white)
	c.Glyph(1, 1, 12, '7', white)
	if got := strings.TrimSuffix(c.String(), "\n"); []rune(got)[0] != '7' {
		t.Fatalf("string = %q", got)
	}
	out := c.Render(ThemeRetroGreen)
	if !strings.Contains(out, "7") {
		t.Fatalf("render lost glyph: %q", out)
	}
}

func TestCanvasRingStaysInside(t *testing.T) {
	c := NewCanvas(20, 10)
	w, h := c.Size()
	c.Ring(w/2, h/2, 40, 1, white)
	set := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				set++
			}
		}
	}
	if set == 0 {
		t.Fatal("ring drew nothing")
	}
	if c.Grid[0][0] != blank || c.Grid[9][19] != blank {
		t.Fatal("ring touched the corners")
	}
}

func TestLevelBucket(t *testing.T) {
	tests := []struct {
		level float64
		want  int
	}{
		{1, 0},
		{0.6, 0},
		{0.45, 1},
		{0.1, 2},
	}
	for _, tt := range tests {
		if got := levelBucket(tt.level); got != tt.want {
			t.Errorf("levelBucket(%v) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestAutoTheme(t *testing.T) {
	orig := isDarkMode
	defer func() { isDarkMode = orig }()

	isDarkMode = func() (bool, error) { return false, nil }
	if got := GetTheme("auto"); got.Name != "paper" {
		t.Errorf("light desktop: %s", got.Name)
	}
	isDarkMode = func() (bool, error) { return true, nil }
	if got := GetTheme("auto"); got.Name != "retro" {
		t.Errorf("dark desktop: %s", got.Name)
	}
	isDarkMode = func() (bool, error) { return false, errors.New("no portal") }
	if got := GetTheme("auto"); got.Name != "retro" {
		t.Errorf("detection failure: %s", got.Name)
	}
}

func TestNextThemeCycles(t *testing.T) {
	orig := CurrentTheme
	defer func() { CurrentTheme = orig }()

	SetTheme(Themes[len(Themes)-1].Name)
	NextTheme()
	if CurrentTheme.Name != Themes[0].Name {
		t.Fatalf("wrapped to %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != "retro" {
		t.Fatal("unknown theme should fall back to retro")
	}
}

func TestGradientTextAndSeparator(t *testing.T) {
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("empty text")
	}
	if !strings.Contains(GradientText("X", "#000000", "#ffffff"), "X") {
		t.Error("single rune lost")
	}
	if Separator(4) == "" {
		t.Error("narrow separator")
	}
}
