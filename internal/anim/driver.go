package anim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const (
	DefaultFPS = 60
	MaxFPS     = 240
)

// Driver runs a renderer's frame loop on a single goroutine. It replaces
// self-rescheduling callbacks with an explicit Start/Stop pair so the loop
// can always be torn down.
type Driver struct {
	r      Renderer
	clk    clock.Clock
	fps    int
	logger *zap.SugaredLogger
	onTick func(frame uint64)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	pending *[2]float64

	frames atomic.Uint64
}

type DriverOption func(*Driver)

// WithClock swaps the time source, mostly for tests.
func WithClock(c clock.Clock) DriverOption {
	return func(d *Driver) { d.clk = c }
}

func WithFPS(fps int) DriverOption {
	return func(d *Driver) { d.fps = fps }
}

func WithLogger(l *zap.SugaredLogger) DriverOption {
	return func(d *Driver) { d.logger = l }
}

// WithFrameHook registers fn to run on the loop goroutine after every frame.
func WithFrameHook(fn func(frame uint64)) DriverOption {
	return func(d *Driver) { d.onTick = fn }
}

func NewDriver(r Renderer, opts ...DriverOption) *Driver {
	d := &Driver{
		r:      r,
		clk:    clock.New(),
		fps:    DefaultFPS,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Interval is the time between two scheduled frames.
func (d *Driver) Interval() time.Duration {
	return time.Second / time.Duration(d.fps)
}

// Start begins ticking. The loop exits when ctx is canceled, Stop is called,
// or the renderer reports Done.
func (d *Driver) Start(ctx context.Context) error {
	if d.r == nil {
		return ErrNoSurface
	}
	if d.fps <= 0 || d.fps > MaxFPS {
		return ErrInvalidFPS
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done != nil {
		select {
		case <-d.done:
		default:
			return ErrRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})

	// ticker is created before the goroutine so no tick can be missed
	ticker := d.clk.Ticker(d.Interval())
	last := d.clk.Now()
	go d.loop(ctx, ticker, last, d.done)

	d.logger.Debugw("driver started", "fps", d.fps)
	return nil
}

func (d *Driver) loop(ctx context.Context, ticker *clock.Ticker, last time.Time, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if size := d.takeResize(); size != nil {
				d.r.Resize(size[0], size[1])
			}
			dt := now.Sub(last)
			last = now
			d.r.Frame(dt)
			n := d.frames.Add(1)
			if d.onTick != nil {
				d.onTick(n)
			}
			if f, ok := d.r.(Finisher); ok && f.Done() {
				d.logger.Debugw("renderer finished", "frames", n)
				return
			}
		}
	}
}

// Resize queues a size change applied before the next frame. Only the most
// recent request is kept.
func (d *Driver) Resize(w, h float64) {
	d.mu.Lock()
	d.pending = &[2]float64{w, h}
	d.mu.Unlock()
}

func (d *Driver) takeResize() *[2]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.pending
	d.pending = nil
	return p
}

// Stop cancels the pending tick and waits for the loop to exit. It is safe
// to call more than once.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	d.logger.Debugw("driver stopped", "frames", d.frames.Load())
}

// Done is closed when the loop exits. It is nil before Start.
func (d *Driver) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

func (d *Driver) Frames() uint64 { return d.frames.Load() }
