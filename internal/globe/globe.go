// Package globe renders a rotating wireframe sphere with travelling arcs.
package globe

import (
	"math"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/motion"
)

const (
	DefaultPoints              = 560
	DefaultIntensity           = 1.0
	DefaultArcSpawnProbability = 0.028
	DefaultMaxArcs             = 8
	DefaultTilt                = 0.38

	rotationRate = 0.55
	arcTail      = 0.28
	arcLift      = 0.18
	arcSamples   = 34

	minArcSpeed    = 0.01
	arcSpeedRange  = 0.012
	minArcLifespan = 0.9
	lifespanRange  = 0.9

	// scale = P / (P + z + offset)
	perspective = 2.2
	depthOffset = 1.2
	radiusRatio = 0.35

	// empirically tuned; at or below this depth a point is on the far side
	farSideDepth = -0.15
	frontAlpha   = 0.55
	backAlpha    = 0.16
	dotBase      = 1.0
	dotGain      = 1.35

	meridians      = 10
	latitudeBands  = 9
	circleSegments = 64
)

var (
	colorPoint = anim.RGBA{R: 0.55, G: 0.95, B: 1.0, A: 1}
	colorWire  = anim.RGBA{R: 0.35, G: 0.75, B: 0.9, A: 1}
	colorArc   = anim.RGBA{R: 1.0, G: 0.45, B: 0.85, A: 1}
	colorGlow  = anim.RGBA{R: 0.1, G: 0.45, B: 0.6, A: 0.35}
	colorRing  = anim.RGBA{R: 0.4, G: 0.85, B: 1.0, A: 0.45}
)

type Config struct {
	Points              int
	Intensity           float64
	ArcSpawnProbability float64
	MaxArcs             int
	Tilt                float64
}

func DefaultConfig() Config {
	return Config{
		Points:              DefaultPoints,
		Intensity:           DefaultIntensity,
		ArcSpawnProbability: DefaultArcSpawnProbability,
		MaxArcs:             DefaultMaxArcs,
		Tilt:                DefaultTilt,
	}
}

// Projected is a point after rotation, tilt and perspective.
type Projected struct {
	X, Y  float64
	Depth float64
	Scale float64
}

// Stats is a snapshot of renderer state for status lines and benchmarks.
type Stats struct {
	Points     int
	ActiveArcs int
	Spawned    int
	Rotation   float64
}

// Globe is the globe renderer. Point geometry is generated once and
// survives resizes; only the projection center and radius are derived from
// the surface size.
type Globe struct {
	cfg     Config
	surface anim.Surface
	rng     *rand.Rand
	points  []anim.Vec3
	arcs    []Arc

	rotation float64
	spawned  int

	cx, cy, radius float64

	reduced     atomic.Bool
	unsubscribe func()

	proj []Projected
}

type Option func(*Globe)

func WithSeed(seed int64) Option {
	return func(g *Globe) { g.rng = anim.NewRand(seed) }
}

// New builds a globe painting on s. sig may be nil for full motion. A
// MaxArcs of zero disables arcs.
func New(cfg Config, s anim.Surface, sig motion.Signal, opts ...Option) *Globe {
	if cfg.MaxArcs < 0 {
		cfg.MaxArcs = 0
	}
	g := &Globe{
		cfg:     cfg,
		surface: s,
		rng:     anim.NewRand(0),
		points:  SpherePoints(cfg.Points),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.proj = make([]Projected, len(g.points))

	if sig == nil {
		sig = motion.Static(false)
	}
	g.reduced.Store(sig.Reduced())
	g.unsubscribe = sig.Subscribe(func(r bool) { g.reduced.Store(r) })

	if s != nil {
		w, h := s.Size()
		g.layout(w, h)
	}
	return g
}

// Close releases the reduced-motion subscription.
func (g *Globe) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}

// Resize recomputes the projection center and radius and repaints the
// current state without advancing it.
func (g *Globe) Resize(w, h float64) {
	anim.ResizeSurface(g.surface, w, h)
	g.layout(w, h)
	if anim.Ready(g.surface) {
		g.paint()
	}
}

func (g *Globe) layout(w, h float64) {
	g.cx, g.cy = w/2, h/2
	g.radius = math.Min(w, h) * radiusRatio
}

// Frame advances rotation and arcs by dt and paints. It does nothing while
// reduced motion is active or the surface is not ready.
func (g *Globe) Frame(dt time.Duration) {
	if !anim.Ready(g.surface) || g.reduced.Load() {
		return
	}
	dt = anim.CapDelta(dt)

	g.rotation += dt.Seconds() * rotationRate * g.cfg.Intensity
	g.maybeSpawn()
	g.paint()
	g.advanceArcs(anim.FrameScale(dt))
}

func (g *Globe) maybeSpawn() {
	if len(g.arcs) >= g.cfg.MaxArcs || len(g.points) < 2 {
		return
	}
	if g.rng.Float64() >= g.cfg.ArcSpawnProbability*g.cfg.Intensity {
		return
	}
	i := g.rng.Intn(len(g.points))
	j := g.rng.Intn(len(g.points) - 1)
	if j >= i {
		j++
	}
	g.arcs = append(g.arcs, Arc{
		From:     g.points[i],
		To:       g.points[j],
		Speed:    minArcSpeed + g.rng.Float64()*arcSpeedRange,
		Lifespan: minArcLifespan + g.rng.Float64()*lifespanRange,
	})
	g.spawned++
}

// advanceArcs moves every arc and drops the ones past their lifespan.
func (g *Globe) advanceArcs(scale float64) {
	kept := g.arcs[:0]
	for _, a := range g.arcs {
		a.Advance(scale)
		if !a.Expired() {
			kept = append(kept, a)
		}
	}
	g.arcs = kept
}

// Project maps a sphere point to surface coordinates: rotate around the
// vertical axis, tilt, then apply perspective.
func (g *Globe) Project(p anim.Vec3) Projected {
	v := p.RotateY(g.rotation).RotateX(g.cfg.Tilt)
	scale := perspective / (perspective + v.Z + depthOffset)
	return Projected{
		X:     g.cx + v.X*scale*g.radius,
		Y:     g.cy - v.Y*scale*g.radius,
		Depth: v.Z,
		Scale: scale,
	}
}

func (g *Globe) paint() {
	s := g.surface
	s.Clear()
	s.RadialGlow(g.cx, g.cy, g.radius*1.6, colorGlow, colorGlow.WithAlpha(0))
	g.paintWireframe()
	g.paintPoints()
	g.paintArcs()
	s.Ring(g.cx, g.cy, g.radius*1.08, 1.2, colorRing)
}

func (g *Globe) paintPoints() {
	for i, p := range g.points {
		g.proj[i] = g.Project(p)
	}
	sort.Slice(g.proj, func(i, j int) bool { return g.proj[i].Depth < g.proj[j].Depth })

	for _, p := range g.proj {
		r, a := PointStyle(p)
		g.surface.Dot(p.X, p.Y, r*g.radius/120, colorPoint.WithAlpha(a))
	}
}

// PointStyle returns the dot radius (at a 120px globe) and opacity of a
// projected point. Radius follows the perspective scale; opacity only
// depends on which side of the depth threshold the point sits.
func PointStyle(p Projected) (radius, alpha float64) {
	radius = dotBase + p.Scale*dotGain
	if p.Depth > farSideDepth {
		return radius, frontAlpha
	}
	return radius, backAlpha
}

func (g *Globe) paintWireframe() {
	for m := 0; m < meridians; m++ {
		lon := float64(m) * 2 * math.Pi / meridians
		g.paintCircle(func(t float64) anim.Vec3 {
			lat := -math.Pi/2 + t*math.Pi
			return anim.Vec3{X: math.Cos(lat) * math.Cos(lon), Y: math.Sin(lat), Z: math.Cos(lat) * math.Sin(lon)}
		}, circleSegments/2)
	}
	for b := 0; b < latitudeBands; b++ {
		lat := -math.Pi/2 + float64(b+1)*math.Pi/(latitudeBands+1)
		g.paintCircle(func(t float64) anim.Vec3 {
			lon := t * 2 * math.Pi
			return anim.Vec3{X: math.Cos(lat) * math.Cos(lon), Y: math.Sin(lat), Z: math.Cos(lat) * math.Sin(lon)}
		}, circleSegments)
	}
}

func (g *Globe) paintCircle(at func(t float64) anim.Vec3, segments int) {
	prev := g.Project(at(0))
	for k := 1; k <= segments; k++ {
		cur := g.Project(at(float64(k) / float64(segments)))
		a := 0.05
		if (prev.Depth+cur.Depth)/2 > farSideDepth {
			a = 0.16
		}
		g.surface.Line(prev.X, prev.Y, cur.X, cur.Y, 0.6, colorWire.WithAlpha(a))
		prev = cur
	}
}

func (g *Globe) paintArcs() {
	for _, a := range g.arcs {
		tail, head, ok := a.Segment()
		if !ok {
			continue
		}
		fade := a.Fade()
		prev := g.Project(a.At(tail))
		for k := 1; k <= arcSamples; k++ {
			t := tail + (head-tail)*float64(k)/arcSamples
			cur := g.Project(a.At(t))
			// brighter toward the head
			alpha := fade * (0.25 + 0.75*float64(k)/arcSamples)
			g.surface.Line(prev.X, prev.Y, cur.X, cur.Y, 1.4, colorArc.WithAlpha(alpha))
			prev = cur
		}
		g.surface.Dot(prev.X, prev.Y, 2*g.radius/120, colorArc.WithAlpha(fade))
	}
}

// Points returns the static lattice.
func (g *Globe) Points() []anim.Vec3 { return g.points }

// Arcs returns a copy of the active arcs.
func (g *Globe) Arcs() []Arc {
	out := make([]Arc, len(g.arcs))
	copy(out, g.arcs)
	return out
}

func (g *Globe) Stats() Stats {
	return Stats{Points: len(g.points), ActiveArcs: len(g.arcs), Spawned: g.spawned, Rotation: g.rotation}
}
