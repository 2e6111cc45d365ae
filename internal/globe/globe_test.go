package globe

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/motion"
	"github.com/san-kum/folio/internal/raster"
)

const frame = time.Second / 60

func TestNewDefaults(t *testing.T) {
	g := New(DefaultConfig(), anim.NewRecorder(400, 300), nil, WithSeed(1))
	defer g.Close()

	if len(g.Points()) != DefaultPoints {
		t.Errorf("expected %d points, got %d", DefaultPoints, len(g.Points()))
	}
	if math.Abs(g.radius-300*radiusRatio) > 1e-9 {
		t.Errorf("expected radius %f, got %f", 300*radiusRatio, g.radius)
	}
}

func TestRotationAdvances(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Intensity = 2
	g := New(cfg, anim.NewRecorder(200, 200), nil, WithSeed(1))
	g.Frame(20 * time.Millisecond)
	want := 0.02 * rotationRate * 2
	if math.Abs(g.Stats().Rotation-want) > 1e-12 {
		t.Errorf("expected rotation %f, got %f", want, g.Stats().Rotation)
	}
}

func TestFrameDeltaCapped(t *testing.T) {
	g := New(DefaultConfig(), anim.NewRecorder(200, 200), nil, WithSeed(1))
	g.Frame(10 * time.Second)
	want := anim.MaxFrameDelta.Seconds() * rotationRate
	if math.Abs(g.Stats().Rotation-want) > 1e-12 {
		t.Errorf("expected capped rotation %f, got %f", want, g.Stats().Rotation)
	}
}

func TestArcCountBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArcSpawnProbability = 1
	g := New(cfg, anim.NewRecorder(200, 200), nil, WithSeed(7))
	for i := 0; i < 500; i++ {
		g.Frame(frame)
		if n := g.Stats().ActiveArcs; n > DefaultMaxArcs {
			t.Fatalf("frame %d: %d arcs active", i, n)
		}
	}
	if g.Stats().Spawned <= DefaultMaxArcs {
		t.Error("expected arcs to be recycled over 500 frames")
	}
}

func TestNoSpawnAtZeroIntensity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Intensity = 0
	cfg.ArcSpawnProbability = 1
	g := New(cfg, anim.NewRecorder(200, 200), nil, WithSeed(7))
	for i := 0; i < 100; i++ {
		g.Frame(frame)
	}
	if g.Stats().Spawned != 0 || g.Stats().Rotation != 0 {
		t.Errorf("zero intensity should freeze rotation and spawning: %+v", g.Stats())
	}
}

func TestArcProgressMonotonicUntilRemoved(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArcSpawnProbability = 0
	g := New(cfg, anim.NewRecorder(200, 200), nil, WithSeed(3))
	g.arcs = []Arc{
		{Speed: 0.01, Lifespan: 1.1},
		{Speed: 0.02, Lifespan: 1.2},
		{Speed: 0.015, Lifespan: 1.3},
	}

	last := map[float64]float64{}
	for i := 0; i < 400; i++ {
		g.Frame(time.Duration(i%40) * time.Millisecond)
		for _, a := range g.Arcs() {
			if a.Progress > a.Lifespan {
				t.Fatalf("expired arc still active: %+v", a)
			}
			if prev, ok := last[a.Lifespan]; ok && a.Progress < prev {
				t.Fatalf("progress went backwards: %f -> %f", prev, a.Progress)
			}
			last[a.Lifespan] = a.Progress
		}
	}
	if len(g.Arcs()) != 0 {
		t.Errorf("expected all arcs to be removed, %d left", len(g.Arcs()))
	}
}

func TestAdvanceArcsRemovesExactlyPastLifespan(t *testing.T) {
	g := New(DefaultConfig(), nil, nil)
	g.arcs = []Arc{{Speed: 0.25, Lifespan: 1}}
	for i := 0; i < 4; i++ {
		g.advanceArcs(1)
		if len(g.arcs) != 1 {
			t.Fatalf("arc removed at progress <= lifespan (step %d)", i)
		}
	}
	g.advanceArcs(1)
	if len(g.arcs) != 0 {
		t.Error("arc should be removed once progress exceeds lifespan")
	}
}

func TestPointStyleBounded(t *testing.T) {
	for depth := -1.0; depth <= 1.0; depth += 0.05 {
		scale := perspective / (perspective + depth + depthOffset)
		r, a := PointStyle(Projected{Depth: depth, Scale: scale})
		if r <= 0 || a < 0 || a > 1 {
			t.Errorf("depth %.2f: radius %f alpha %f out of range", depth, r, a)
		}
	}
	_, front := PointStyle(Projected{Depth: 0.5, Scale: 1})
	_, back := PointStyle(Projected{Depth: -0.5, Scale: 0.7})
	if back >= front {
		t.Error("far side should render dimmer")
	}
}

func TestPointStyleValues(t *testing.T) {
	tests := []struct {
		p             Projected
		radius, alpha float64
	}{
		{Projected{Depth: 0.5, Scale: 1}, 2.35, 0.55},
		{Projected{Depth: -0.5, Scale: 0.7}, 1.945, 0.16},
		{Projected{Depth: -0.14, Scale: 0.5}, 1.675, 0.55},
		{Projected{Depth: -0.15, Scale: 0.5}, 1.675, 0.16},
	}
	for _, tt := range tests {
		r, a := PointStyle(tt.p)
		if math.Abs(r-tt.radius) > 1e-9 || math.Abs(a-tt.alpha) > 1e-9 {
			t.Errorf("PointStyle(%+v) = (%f, %f), want (%f, %f)", tt.p, r, a, tt.radius, tt.alpha)
		}
	}
}

func TestProjectPerspective(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tilt = 0
	g := New(cfg, anim.NewRecorder(200, 200), nil)

	tests := []struct {
		p     anim.Vec3
		scale float64
	}{
		{anim.Vec3{Z: 1}, 2.2 / 4.4},
		{anim.Vec3{Z: -1}, 2.2 / 2.4},
		{anim.Vec3{X: 1}, 2.2 / 3.4},
	}
	for _, tt := range tests {
		pr := g.Project(tt.p)
		if math.Abs(pr.Scale-tt.scale) > 1e-9 || pr.Depth != tt.p.Z {
			t.Errorf("Project(%+v) = %+v, want scale %f", tt.p, pr, tt.scale)
		}
	}
	if pr := g.Project(anim.Vec3{X: 1}); math.Abs(pr.X-(100+70*2.2/3.4)) > 1e-9 {
		t.Errorf("unexpected x for the right limb: %f", pr.X)
	}
}

func TestZeroMaxArcsDisablesArcs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxArcs = 0
	cfg.ArcSpawnProbability = 1
	g := New(cfg, anim.NewRecorder(200, 200), nil, WithSeed(7))
	for i := 0; i < 100; i++ {
		g.Frame(frame)
	}
	if st := g.Stats(); st.Spawned != 0 || st.ActiveArcs != 0 {
		t.Errorf("max arcs 0 should never spawn: %+v", st)
	}
}

func TestSpawnedArcParameters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxArcs = 1000
	cfg.ArcSpawnProbability = 1
	g := New(cfg, nil, nil, WithSeed(13))
	for i := 0; i < 500; i++ {
		g.maybeSpawn()
	}
	if len(g.arcs) != 500 {
		t.Fatalf("expected 500 arcs, got %d", len(g.arcs))
	}
	for _, a := range g.arcs {
		if a.Speed < minArcSpeed || a.Speed >= minArcSpeed+arcSpeedRange {
			t.Fatalf("arc speed %f out of range", a.Speed)
		}
		if a.Lifespan < minArcLifespan || a.Lifespan >= minArcLifespan+lifespanRange {
			t.Fatalf("arc lifespan %f out of range", a.Lifespan)
		}
		if a.From == a.To {
			t.Fatal("arc endpoints should differ")
		}
	}
}

func TestProjectionFitsSurface(t *testing.T) {
	g := New(DefaultConfig(), anim.NewRecorder(640, 480), nil, WithSeed(1))
	for _, p := range g.Points() {
		pr := g.Project(p)
		if pr.X < 0 || pr.X > 640 || pr.Y < 0 || pr.Y > 480 {
			t.Fatalf("point projected off surface: %+v", pr)
		}
	}
}

func TestResizeKeepsGeometry(t *testing.T) {
	rec := anim.NewRecorder(200, 200)
	g := New(DefaultConfig(), rec, nil, WithSeed(1))
	before := g.Points()[17]
	g.Frame(frame)

	g.Resize(800, 400)
	if g.Points()[17] != before {
		t.Error("resize regenerated point geometry")
	}
	if g.cx != 400 || g.cy != 200 || math.Abs(g.radius-400*radiusRatio) > 1e-9 {
		t.Errorf("unexpected layout: %f %f %f", g.cx, g.cy, g.radius)
	}
	if w, h := rec.Size(); w != 800 || h != 400 {
		t.Errorf("surface not resized: %vx%v", w, h)
	}
}

func TestNilSurfaceIsNoop(t *testing.T) {
	g := New(DefaultConfig(), nil, nil)
	g.Frame(frame)
	g.Resize(100, 100)
	if g.Stats().Rotation != 0 {
		t.Error("frame without surface should not mutate state")
	}
}

func TestReducedMotionFreezesPixels(t *testing.T) {
	s := raster.New(160, 120)
	g := New(DefaultConfig(), s, motion.Static(true), WithSeed(5))
	defer g.Close()

	g.Resize(160, 120)
	first := s.Snapshot().Pix

	for i := 0; i < 30; i++ {
		g.Frame(frame)
	}
	if !bytes.Equal(first, s.Snapshot().Pix) {
		t.Error("pixels changed while reduced motion was active")
	}
	if g.Stats().Rotation != 0 || g.Stats().Spawned != 0 {
		t.Errorf("state mutated under reduced motion: %+v", g.Stats())
	}
}

func TestReducedMotionToggle(t *testing.T) {
	sw := motion.NewSwitch(false)
	rec := anim.NewRecorder(200, 200)
	g := New(DefaultConfig(), rec, sw, WithSeed(5))

	g.Frame(frame)
	ops := rec.Ops()
	if ops == 0 {
		t.Fatal("expected drawing with full motion")
	}

	sw.Set(true)
	g.Frame(frame)
	if rec.Ops() != ops {
		t.Error("drew while reduced motion was active")
	}

	g.Close()
	if sw.Subscribers() != 0 {
		t.Error("close did not release the subscription")
	}
}

func TestAlphaBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Intensity = 5
	cfg.ArcSpawnProbability = 1
	rec := anim.NewRecorder(300, 300)
	g := New(cfg, rec, nil, WithSeed(11))
	for i := 0; i < 200; i++ {
		g.Frame(frame)
	}
	if rec.MinAlpha < 0 || rec.MaxAlpha > 1 {
		t.Errorf("alpha out of range: [%f, %f]", rec.MinAlpha, rec.MaxAlpha)
	}
}
