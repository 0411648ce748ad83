package math3d

import (
	"math"
	"testing"
)

func TestRotationOrder(t *testing.T) {
	// Yaw a quarter turn, then pitch a quarter turn.
	m := RotateX(math.Pi / 2).Mul(RotateY(math.Pi / 2))
	got := m.MulVec3(V3(1, 0, 0))

	// Yaw moves +X to -Z, pitch then moves -Z to +Y.
	want := V3(0, 1, 0)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("yaw then pitch of +X = %v, want %v", got, want)
	}

	swapped := RotateY(math.Pi / 2).Mul(RotateX(math.Pi / 2)).MulVec3(V3(1, 0, 0))
	if swapped.ApproxEqual(want, 1e-9) {
		t.Error("rotation order should not commute for this input")
	}
}

func TestScaleTranslate(t *testing.T) {
	m := ScaleUniform(2).Mul(Translate(V3(-1, -1, -1)))
	got := m.MulVec3(V3(2, 3, 4))
	want := V3(2, 4, 6)
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("scale*translate = %v, want %v", got, want)
	}
}

func TestIdentity(t *testing.T) {
	m := RotateY(0.7)
	if got := Identity().Mul(m); got != m {
		t.Errorf("I*M = %v, want %v", got, m)
	}
	if got := Identity().MulVec3(V3(1, 2, 3)); got != V3(1, 2, 3) {
		t.Errorf("I*v = %v", got)
	}
}

func TestVec3Products(t *testing.T) {
	x, y := V3(1, 0, 0), V3(0, 1, 0)
	if got := x.Cross(y); got != V3(0, 0, 1) {
		t.Errorf("X cross Y = %v, want +Z", got)
	}
	if got := x.Dot(y); got != 0 {
		t.Errorf("X dot Y = %v", got)
	}
	if got := V3(3, 4, 0).Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := V3(1, 5, -2)
	b := V3(3, -1, 0)
	if got := a.Min(b); got != V3(1, -1, -2) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != V3(3, 5, 0) {
		t.Errorf("Max = %v", got)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := RotateX(0.3)
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := RotateX(0.3).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}
