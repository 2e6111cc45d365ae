package bench

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/globe"
	"github.com/san-kum/folio/internal/motion"
	"github.com/san-kum/folio/internal/rain"
	"github.com/san-kum/folio/internal/scramble"
)

// steppingRenderer advances the mock clock so each frame has a known cost.
type steppingRenderer struct {
	mock  *clock.Mock
	costs []time.Duration
	n     int
}

func (s *steppingRenderer) Resize(w, h float64) {}
func (s *steppingRenderer) Frame(dt time.Duration) {
	s.mock.Add(s.costs[s.n%len(s.costs)])
	s.n++
}

func TestRunMeasuresCost(t *testing.T) {
	mock := clock.NewMock()
	r := &steppingRenderer{mock: mock, costs: []time.Duration{
		1 * time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 10 * time.Millisecond,
	}}
	b := &Runner{Clock: mock, Step: 20 * time.Millisecond}

	rep := b.Run("stub", r, nil, 4, func() float64 { return float64(r.n) })

	if len(rep.Samples) != 4 {
		t.Fatalf("samples = %d", len(rep.Samples))
	}
	if rep.Mean() != 4*time.Millisecond {
		t.Errorf("mean = %v", rep.Mean())
	}
	if rep.Percentile(50) != 2*time.Millisecond {
		t.Errorf("p50 = %v", rep.Percentile(50))
	}
	if rep.Percentile(100) != 10*time.Millisecond {
		t.Errorf("max = %v", rep.Percentile(100))
	}
	if rep.Budget() != 0.15 {
		t.Errorf("budget = %v", rep.Budget())
	}
	if got := rep.Stats(); got[3] != 4 {
		t.Errorf("stats = %v", got)
	}
	if rep.Samples[0].Cost != time.Millisecond {
		t.Errorf("first cost = %v", rep.Samples[0].Cost)
	}
}

func TestRunCountsOps(t *testing.T) {
	rec := anim.NewRecorder(320, 240)
	g := globe.New(globe.DefaultConfig(), rec, motion.Static(false), globe.WithSeed(5))
	g.Resize(320, 240)

	rep := NewRunner().Run("globe", g, rec, 10, func() float64 { return float64(g.Stats().ActiveArcs) })
	if rep.OpsPerFrame() < float64(globe.DefaultPoints) {
		t.Errorf("ops/frame = %.1f, expected at least one per point", rep.OpsPerFrame())
	}
	if !strings.Contains(rep.Summary(), "globe: 10 frames") {
		t.Errorf("summary = %q", rep.Summary())
	}
	if rep.Plot("active arcs") == "" {
		t.Error("empty plot")
	}
}

func TestEmptyReport(t *testing.T) {
	var rep Report
	if rep.Mean() != 0 || rep.Percentile(95) != 0 || rep.OpsPerFrame() != 0 || rep.Plot("") != "" {
		t.Error("empty report should be zero")
	}
}

func BenchmarkGlobeFrame(b *testing.B) {
	rec := anim.NewRecorder(800, 600)
	g := globe.New(globe.DefaultConfig(), rec, motion.Static(false), globe.WithSeed(1))
	g.Resize(800, 600)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Frame(16 * time.Millisecond)
	}
}

func BenchmarkRainFrame(b *testing.B) {
	rec := anim.NewRecorder(1280, 720)
	r := rain.New(rain.DefaultConfig(), rec, motion.Static(false), rain.WithSeed(1))
	r.Resize(1280, 720)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Frame(16 * time.Millisecond)
	}
}

func BenchmarkScrambleFrame(b *testing.B) {
	s := scramble.New(scramble.DefaultConfig(), "SYSTEMS ONLINE", motion.Static(false), scramble.WithSeed(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s.Done() {
			s.Restart()
		}
		s.Frame(16 * time.Millisecond)
	}
}
