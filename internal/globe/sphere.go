package globe

import (
	"math"

	"github.com/san-kum/folio/internal/anim"
)

// GoldenAngle is the angular step of the Fibonacci sphere lattice.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// SpherePoints spreads n points near-uniformly over the unit sphere using
// the Fibonacci lattice, which avoids the pole clustering of lat/long grids.
func SpherePoints(n int) []anim.Vec3 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []anim.Vec3{{X: 0, Y: 1, Z: 0}}
	}
	pts := make([]anim.Vec3, n)
	for i := 0; i < n; i++ {
		y := 1 - (float64(i)/float64(n-1))*2
		radius := math.Sqrt(math.Max(0, 1-y*y))
		theta := float64(i) * GoldenAngle
		pts[i] = anim.Vec3{X: math.Cos(theta) * radius, Y: y, Z: math.Sin(theta) * radius}
	}
	return pts
}

// Arc is a beam travelling between two lattice points. Progress runs from
// 0 to 1 along the path and keeps going until Lifespan so the tail can
// drain into the target. A Lifespan below 1 removes the beam before its
// head arrives.
type Arc struct {
	From, To anim.Vec3
	Progress float64
	Speed    float64
	Lifespan float64
}

// Advance moves the arc by Speed scaled to the frame length.
func (a *Arc) Advance(scale float64) {
	if scale > 0 {
		a.Progress += a.Speed * scale
	}
}

func (a Arc) Expired() bool { return a.Progress > a.Lifespan }

// At returns the point at parameter t along the arc: the normalized blend of
// both endpoints lifted off the surface by a sine bow peaking mid-way.
func (a Arc) At(t float64) anim.Vec3 {
	p := a.From.Lerp(a.To, t).Normalize()
	return p.Scale(1 + arcLift*math.Sin(math.Pi*t))
}

// Segment returns the visible window [tail, head] of the beam clamped to
// the path. ok is false when nothing is visible.
func (a Arc) Segment() (tail, head float64, ok bool) {
	head = math.Min(1, a.Progress)
	tail = math.Max(0, a.Progress-arcTail)
	return tail, head, head > tail
}

// Fade is 1 while the head is travelling and ramps to 0 over the drain
// period between reaching the target and Lifespan.
func (a Arc) Fade() float64 {
	if a.Progress <= 1 || a.Lifespan <= 1 {
		return 1
	}
	return anim.Clamp01((a.Lifespan - a.Progress) / (a.Lifespan - 1))
}
