// Package export renders animations headless to image files.
package export

import (
	"fmt"
	"image/gif"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/raster"
)

const (
	DefaultFrames = 90
	DefaultWarmup = 30
	MaxFrames     = 600
)

// Options control a headless run. FPS sets both the fixed step fed to the
// renderer and the GIF frame delay.
type Options struct {
	Frames int
	Warmup int
	FPS    int
}

func DefaultOptions() Options {
	return Options{Frames: DefaultFrames, Warmup: DefaultWarmup, FPS: anim.DefaultFPS}
}

func (o Options) validate() error {
	if o.Frames < 1 || o.Frames > MaxFrames {
		return fmt.Errorf("%w: %d", ErrFrames, o.Frames)
	}
	if o.Warmup < 0 {
		return fmt.Errorf("%w: warmup %d", ErrFrames, o.Warmup)
	}
	if o.FPS < 1 || o.FPS > anim.MaxFPS {
		return fmt.Errorf("%w: fps %d", anim.ErrInvalidFPS, o.FPS)
	}
	return nil
}

func (o Options) step() time.Duration { return time.Second / time.Duration(o.FPS) }

// Result describes a finished export.
type Result struct {
	Frames int
	Bytes  uint64
}

func (r Result) String() string {
	if r.Frames == 1 {
		return fmt.Sprintf("1 frame, %s", humanize.Bytes(r.Bytes))
	}
	return fmt.Sprintf("%d frames, %s", r.Frames, humanize.Bytes(r.Bytes))
}

type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

func warm(r anim.Renderer, opts Options) {
	for i := 0; i < opts.Warmup; i++ {
		r.Frame(opts.step())
	}
}

// PNG steps r through the warm-up frames and encodes the surface once.
// r must paint on s.
func PNG(w io.Writer, r anim.Renderer, s *raster.Surface, opts Options) (Result, error) {
	opts.Frames = 1
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if !anim.Ready(s) {
		return Result{}, raster.ErrEmpty
	}
	warm(r, opts)
	r.Frame(opts.step())

	cw := &countingWriter{w: w}
	if err := s.EncodePNG(cw); err != nil {
		return Result{}, err
	}
	return Result{Frames: 1, Bytes: cw.n}, nil
}

// GIF records opts.Frames frames of r after the warm-up, each quantized to
// the Plan 9 palette with Floyd-Steinberg dithering.
func GIF(w io.Writer, r anim.Renderer, s *raster.Surface, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if !anim.Ready(s) {
		return Result{}, raster.ErrEmpty
	}
	warm(r, opts)

	delay := 100 / opts.FPS
	if delay < 2 {
		// most viewers clamp smaller delays to 10
		delay = 2
	}

	q := newQuantizer()
	for i := 0; i < opts.Frames; i++ {
		r.Frame(opts.step())
		q.add(s.Snapshot())
	}
	out := &gif.GIF{Image: q.frames(), LoopCount: 0}
	for range out.Image {
		out.Delay = append(out.Delay, delay)
	}

	cw := &countingWriter{w: w}
	if err := gif.EncodeAll(cw, out); err != nil {
		return Result{}, fmt.Errorf("export: encode gif: %w", err)
	}
	return Result{Frames: opts.Frames, Bytes: cw.n}, nil
}

// ToFile writes a PNG or GIF depending on the path extension.
func ToFile(path string, r anim.Renderer, s *raster.Surface, opts Options) (Result, error) {
	enc, err := encoderFor(path)
	if err != nil {
		return Result{}, err
	}
	f, err := os.Create(path)
	if err != nil {
		return Result{}, err
	}
	res, err := enc(f, r, s, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return res, err
}

type encoder func(io.Writer, anim.Renderer, *raster.Surface, Options) (Result, error)

func encoderFor(path string) (encoder, error) {
	switch ext := lowerExt(path); ext {
	case ".png":
		return PNG, nil
	case ".gif":
		return GIF, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}
