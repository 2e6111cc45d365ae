// Package scramble animates text from random characters to its final value,
// locking one position at a time.
package scramble

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/motion"
)

const (
	DefaultCharset     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789:.-_/ "
	DefaultLetterDelay = 22 * time.Millisecond
	DefaultSettleSpeed = 34 * time.Millisecond
	DefaultMaxSteps    = 7

	jitterStep = 7 * time.Millisecond
	// chance of showing the target glyph early, scaled by progress
	revealBias = 0.35
)

type Config struct {
	Charset     string
	LetterDelay time.Duration
	SettleSpeed time.Duration
	MaxSteps    int
}

func DefaultConfig() Config {
	return Config{
		Charset:     DefaultCharset,
		LetterDelay: DefaultLetterDelay,
		SettleSpeed: DefaultSettleSpeed,
		MaxSteps:    DefaultMaxSteps,
	}
}

// LockTimes returns the elapsed time after which each index shows its
// target character for good.
func LockTimes(n int, letterDelay, settleSpeed time.Duration, maxSteps int) []time.Duration {
	if n <= 0 {
		return nil
	}
	base := time.Duration(maxSteps) * settleSpeed
	locks := make([]time.Duration, n)
	for i := range locks {
		locks[i] = time.Duration(i)*letterDelay + base + time.Duration(i%3)*jitterStep
	}
	return locks
}

// Scrambler holds one scramble run. Changing the target discards the run
// in flight and starts over from zero.
type Scrambler struct {
	mu sync.Mutex

	cfg     Config
	charset []rune
	rng     *rand.Rand

	target  []rune
	locks   []time.Duration
	last    time.Duration
	elapsed time.Duration
	out     []rune
	runs    int

	surface anim.Surface
	w, h    float64

	reduced     atomic.Bool
	unsubscribe func()
}

type Option func(*Scrambler)

func WithSeed(seed int64) Option {
	return func(s *Scrambler) { s.rng = anim.NewRand(seed) }
}

// WithSurface makes Frame paint the current text centered on surf.
func WithSurface(surf anim.Surface) Option {
	return func(s *Scrambler) { s.surface = surf }
}

func New(cfg Config, text string, sig motion.Signal, opts ...Option) *Scrambler {
	if cfg.Charset == "" {
		cfg.Charset = DefaultCharset
	}
	s := &Scrambler{
		cfg:     cfg,
		charset: []rune(cfg.Charset),
		rng:     anim.NewRand(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.surface != nil {
		s.w, s.h = s.surface.Size()
	}

	if sig == nil {
		sig = motion.Static(false)
	}
	s.reduced.Store(sig.Reduced())
	s.unsubscribe = sig.Subscribe(func(v bool) { s.reduced.Store(v) })

	s.restart(text)
	return s
}

func (s *Scrambler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// SetText starts a new run when text differs from the current target and
// reports whether it did.
func (s *Scrambler) SetText(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if string(s.target) == text {
		return false
	}
	s.restartLocked(text)
	return true
}

// Restart replays the current target from zero.
func (s *Scrambler) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartLocked(string(s.target))
}

func (s *Scrambler) restart(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartLocked(text)
}

func (s *Scrambler) restartLocked(text string) {
	s.target = []rune(text)
	s.locks = LockTimes(len(s.target), s.cfg.LetterDelay, s.cfg.SettleSpeed, s.cfg.MaxSteps)
	s.last = 0
	for _, l := range s.locks {
		if l > s.last {
			s.last = l
		}
	}
	s.elapsed = 0
	s.out = make([]rune, len(s.target))
	s.runs++
	s.renderLocked()
}

// Frame advances the run by dt. Elapsed time is not capped: lock times are
// measured against wall time since the run started.
func (s *Scrambler) Frame(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doneLocked() {
		return
	}
	if s.reduced.Load() {
		s.elapsed = s.last
	} else if dt > 0 {
		s.elapsed += dt
	}
	s.renderLocked()
	s.paintLocked()
}

func (s *Scrambler) renderLocked() {
	for i, target := range s.target {
		lock := s.locks[i]
		switch {
		case s.elapsed >= lock:
			s.out[i] = target
		case len(s.charset) == 0:
			s.out[i] = target
		default:
			progress := anim.Clamp01(float64(s.elapsed) / float64(lock))
			if s.rng.Float64() < progress*revealBias {
				s.out[i] = target
			} else {
				s.out[i] = s.charset[s.rng.Intn(len(s.charset))]
			}
		}
	}
}

func (s *Scrambler) paintLocked() {
	if !anim.Ready(s.surface) {
		return
	}
	s.surface.Clear()
	n := float64(len(s.out))
	if n == 0 {
		return
	}
	size := anim.Clamp(s.w/(n+2), 8, 48)
	x0 := s.w/2 - n*size/2 + size/2
	for i, r := range s.out {
		c := anim.RGBA{R: 0.6, G: 1, B: 0.85, A: 1}
		if s.elapsed < s.locks[i] {
			c = c.WithAlpha(0.55)
		}
		s.surface.Glyph(x0+float64(i)*size, s.h/2, size, r, c)
	}
}

// Resize repaints the current text on the new surface size.
func (s *Scrambler) Resize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	anim.ResizeSurface(s.surface, w, h)
	s.w, s.h = w, h
	s.paintLocked()
}

// Text is the currently displayed string.
func (s *Scrambler) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.out)
}

func (s *Scrambler) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.target)
}

func (s *Scrambler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Done reports whether every position has locked.
func (s *Scrambler) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneLocked()
}

func (s *Scrambler) doneLocked() bool {
	return s.elapsed >= s.last
}

// Runs counts how many times the animation has (re)started.
func (s *Scrambler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}
