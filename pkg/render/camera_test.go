package render

import (
	"math"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
)

func TestNewCamera(t *testing.T) {
	c := NewCamera()
	want := Camera{FOV: 60, Distance: 3}
	if *c != want {
		t.Errorf("NewCamera = %+v, want %+v", *c, want)
	}

	c.Rotate(1, 2)
	c.Zoom(4)
	c.Reset()
	if *c != want {
		t.Errorf("after Reset = %+v, want %+v", *c, want)
	}
}

func TestCameraZoomClamp(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{"closer", -1, 2},
		{"past min", -10, MinDistance},
		{"farther", 5, 8},
		{"past max", 1000, MaxDistance},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera()
			c.Zoom(tc.delta)
			if c.Distance != tc.want {
				t.Errorf("Distance = %v, want %v", c.Distance, tc.want)
			}
		})
	}
}

func TestCameraRotateUnclamped(t *testing.T) {
	c := NewCamera()
	c.Rotate(0.5, 2)
	c.Rotate(0.25, 2)
	if c.Yaw != 0.75 || c.Pitch != 4 {
		t.Errorf("Yaw, Pitch = %v, %v, want 0.75, 4", c.Yaw, c.Pitch)
	}
}

func TestProjectOriginCentered(t *testing.T) {
	out := Project([]math3d.Vec3{math3d.Zero3()}, *NewCamera(), 640, 480, nil)
	p := out[0]
	if !p.Visible {
		t.Fatal("origin should be visible")
	}
	if p.X != 320 || p.Y != 240 {
		t.Errorf("origin at (%v, %v), want (320, 240)", p.X, p.Y)
	}
	if p.Z != 3 {
		t.Errorf("depth = %v, want camera distance", p.Z)
	}
}

func TestProjectAxes(t *testing.T) {
	cam := *NewCamera()
	out := Project([]math3d.Vec3{math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)}, cam, 100, 100, nil)

	f := 1 / math.Tan(math.Pi/6)
	if want := 50 + f/3*50; math.Abs(out[0].X-want) > 1e-9 || out[0].Y != 50 {
		t.Errorf("+X at (%v, %v), want (%v, 50)", out[0].X, out[0].Y, want)
	}
	if out[1].Y >= 50 {
		t.Errorf("+Y projected to y=%v, want above center", out[1].Y)
	}
	if out[2].Z != 2 {
		t.Errorf("+Z depth = %v, want 2 (nearer the camera)", out[2].Z)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	pts := []math3d.Vec3{
		math3d.V3(0, 0, 5),
		math3d.V3(0, 0, 3),
		math3d.V3(0, 0, 3-NearEpsilon/2),
		math3d.V3(0, 0, 2),
	}
	out := Project(pts, *NewCamera(), 10, 10, nil)

	want := []bool{false, false, false, true}
	for i, p := range out {
		if p.Visible != want[i] {
			t.Errorf("point %d Visible = %v, want %v (z=%v)", i, p.Visible, want[i], p.Z)
		}
		if !p.Visible && (p.X != 0 || p.Y != 0) {
			t.Errorf("point %d hidden but has screen coords (%v, %v)", i, p.X, p.Y)
		}
	}
	if out[0].Z != -2 {
		t.Errorf("behind-camera depth = %v, want -2", out[0].Z)
	}
}

func TestProjectReusesBuffer(t *testing.T) {
	pts := []math3d.Vec3{math3d.Zero3(), math3d.V3(1, 1, 1)}
	buf := make([]Projected, 0, 8)
	out := Project(pts, *NewCamera(), 10, 10, buf)
	if len(out) != 2 || &out[0] != &buf[:1][0] {
		t.Error("Project should reuse a buffer with enough capacity")
	}
}

func TestProjectYawThenPitch(t *testing.T) {
	cam := *NewCamera()
	cam.Yaw = math.Pi / 2
	cam.Pitch = math.Pi / 2

	// +X yaws to -Z and pitches to +Y, so it lands above the center.
	p := Project([]math3d.Vec3{math3d.V3(1, 0, 0)}, cam, 100, 100, nil)[0]
	if math.Abs(p.X-50) > 1e-9 || p.Y >= 50 {
		t.Errorf("projected to (%v, %v), want straight above center", p.X, p.Y)
	}
	if math.Abs(p.Z-3) > 1e-9 {
		t.Errorf("depth = %v, want 3", p.Z)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     []math3d.Vec3
		lo, hi math3d.Vec3
	}{
		{
			"wide box",
			[]math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(4, 2, 1)},
			math3d.V3(-1, -0.5, -0.25), math3d.V3(1, 0.5, 0.25),
		},
		{
			"tall box off origin",
			[]math3d.Vec3{math3d.V3(10, 10, 10), math3d.V3(11, 14, 10)},
			math3d.V3(-0.25, -1, 0), math3d.V3(0.25, 1, 0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Normalize(tc.in, DefaultSpan)
			lo, hi := out[0], out[0]
			for _, p := range out {
				lo, hi = lo.Min(p), hi.Max(p)
			}
			if !lo.ApproxEqual(tc.lo, 1e-12) || !hi.ApproxEqual(tc.hi, 1e-12) {
				t.Errorf("bounds = %v..%v, want %v..%v", lo, hi, tc.lo, tc.hi)
			}
		})
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	if out := Normalize(nil, DefaultSpan); len(out) != 0 {
		t.Errorf("Normalize(nil) = %v", out)
	}

	in := []math3d.Vec3{math3d.V3(2, 2, 2), math3d.V3(2, 2, 2)}
	for _, p := range Normalize(in, DefaultSpan) {
		for _, c := range []float64{p.X, p.Y, p.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				t.Fatalf("non-finite output %v", p)
			}
		}
	}
	if in[0] != math3d.V3(2, 2, 2) {
		t.Error("input modified")
	}
}

func BenchmarkProject(b *testing.B) {
	pts := make([]math3d.Vec3, 10000)
	for i := range pts {
		pts[i] = math3d.V3(float64(i%100)/100, float64(i/100)/100, 0)
	}
	cam := *NewCamera()
	var out []Projected

	for b.Loop() {
		out = Project(pts, cam, 320, 240, out)
	}
}
