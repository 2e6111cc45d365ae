package anim

import (
	"math"
	"testing"
	"time"
)

func TestCapDelta(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{-time.Millisecond, 0},
		{0, 0},
		{16 * time.Millisecond, 16 * time.Millisecond},
		{50 * time.Millisecond, 50 * time.Millisecond},
		{3 * time.Second, MaxFrameDelta},
	}
	for _, tt := range tests {
		if got := CapDelta(tt.in); got != tt.want {
			t.Errorf("CapDelta(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp01(t *testing.T) {
	if Clamp01(-1) != 0 || Clamp01(2) != 1 || Clamp01(0.5) != 0.5 {
		t.Error("clamp out of range")
	}
	if Clamp01(math.NaN()) != 0 {
		t.Error("NaN should clamp to 0")
	}
	if c := (RGBA{A: 0.3}).WithAlpha(4); c.A != 1 {
		t.Errorf("expected alpha 1, got %f", c.A)
	}
}

func TestVecRotations(t *testing.T) {
	v := Vec3{1, 0, 0}
	r := v.RotateY(math.Pi / 2)
	if math.Abs(r.X) > 1e-9 || math.Abs(r.Z+1) > 1e-9 {
		t.Errorf("unexpected rotation: %+v", r)
	}
	u := Vec3{0, 1, 0}.RotateX(math.Pi / 2)
	if math.Abs(u.Y) > 1e-9 || math.Abs(u.Z-1) > 1e-9 {
		t.Errorf("unexpected tilt: %+v", u)
	}
	if l := (Vec3{3, 4, 0}).Normalize().Length(); math.Abs(l-1) > 1e-12 {
		t.Errorf("expected unit length, got %f", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestReady(t *testing.T) {
	if Ready(nil) {
		t.Error("nil surface should not be ready")
	}
	if Ready(NewRecorder(0, 10)) {
		t.Error("zero width surface should not be ready")
	}
	if !Ready(NewRecorder(10, 10)) {
		t.Error("sized surface should be ready")
	}
}
