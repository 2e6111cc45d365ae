// Package bench runs renderers headless and reports per-frame cost.
package bench

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/folio/internal/anim"
)

// Sample is one measured frame. Stat is whatever the caller's stat func
// reported after the frame (active arcs, columns, locked runes).
type Sample struct {
	Cost time.Duration
	Ops  int
	Stat float64
}

type Report struct {
	Name    string
	Step    time.Duration
	Samples []Sample
}

type Runner struct {
	Clock clock.Clock
	Step  time.Duration
}

func NewRunner() *Runner {
	return &Runner{Clock: clock.New(), Step: time.Second / anim.DefaultFPS}
}

// Run steps r for frames frames. rec, if not nil, must be the surface r
// paints on; its op count is sampled per frame. stat may be nil.
func (b *Runner) Run(name string, r anim.Renderer, rec *anim.Recorder, frames int, stat func() float64) Report {
	rep := Report{Name: name, Step: b.Step, Samples: make([]Sample, 0, max(frames, 0))}
	for i := 0; i < frames; i++ {
		if rec != nil {
			rec.Reset()
		}
		start := b.Clock.Now()
		r.Frame(b.Step)
		s := Sample{Cost: b.Clock.Since(start)}
		if rec != nil {
			s.Ops = rec.Ops()
		}
		if stat != nil {
			s.Stat = stat()
		}
		rep.Samples = append(rep.Samples, s)
	}
	return rep
}

func (r Report) costs() []time.Duration {
	out := make([]time.Duration, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Cost
	}
	return out
}

// CostsMicros returns per-frame cost in microseconds, in frame order.
func (r Report) CostsMicros() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.Cost) / float64(time.Microsecond)
	}
	return out
}

func (r Report) Stats() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Stat
	}
	return out
}

func (r Report) Mean() time.Duration {
	if len(r.Samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, s := range r.Samples {
		sum += s.Cost
	}
	return sum / time.Duration(len(r.Samples))
}

// Percentile returns the nearest-rank percentile of frame cost, p in [0, 100].
func (r Report) Percentile(p float64) time.Duration {
	c := r.costs()
	if len(c) == 0 {
		return 0
	}
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	idx := int(anim.Clamp(p/100*float64(len(c)), 1, float64(len(c)))) - 1
	return c[idx]
}

func (r Report) OpsPerFrame() float64 {
	if len(r.Samples) == 0 {
		return 0
	}
	total := 0
	for _, s := range r.Samples {
		total += s.Ops
	}
	return float64(total) / float64(len(r.Samples))
}

// Budget is the fraction of the frame step spent rendering at p95.
func (r Report) Budget() float64 {
	if r.Step <= 0 {
		return 0
	}
	return float64(r.Percentile(95)) / float64(r.Step)
}

func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d frames\n", r.Name, len(r.Samples))
	fmt.Fprintf(&b, "  mean %v  p95 %v  max %v\n", r.Mean(), r.Percentile(95), r.Percentile(100))
	fmt.Fprintf(&b, "  %.1f draw ops/frame  %.1f%% of %v budget\n", r.OpsPerFrame(), r.Budget()*100, r.Step)
	return b.String()
}

// Plot draws frame cost and the caller's stat as terminal charts.
func (r Report) Plot(statCaption string) string {
	if len(r.Samples) == 0 {
		return ""
	}
	out := asciigraph.Plot(r.CostsMicros(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("frame cost (µs)"))
	if statCaption != "" {
		out += "\n\n" + asciigraph.Plot(r.Stats(),
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption(statCaption))
	}
	return out
}
