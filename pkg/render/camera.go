package render

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

const (
	// DefaultSpan is the width of the box a mesh is normalized into.
	DefaultSpan = 2.0

	// NearEpsilon is the smallest camera-space depth still drawn.
	NearEpsilon = 1e-3

	DefaultFOV      = 60.0 // degrees
	DefaultDistance = 3.0
	MinDistance     = 1.0
	MaxDistance     = 50.0

	// normalizeEpsilon keeps a flat or single-point mesh finite.
	normalizeEpsilon = 1e-9
)

// Camera orbits the origin from the +Z side.
type Camera struct {
	Yaw      float64 // Rotation about Y, radians
	Pitch    float64 // Rotation about X, radians
	FOV      float64 // Field of view, degrees
	Distance float64 // Distance from the origin along +Z
}

// NewCamera creates a camera at the default view.
func NewCamera() *Camera {
	c := &Camera{}
	c.Reset()
	return c
}

// Reset restores the default view.
func (c *Camera) Reset() {
	*c = Camera{FOV: DefaultFOV, Distance: DefaultDistance}
}

// Rotate adds to yaw and pitch (in radians). Pitch is not clamped, so the
// model can be flipped over.
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
}

// Zoom moves the camera toward (negative) or away from the origin.
func (c *Camera) Zoom(delta float64) {
	c.Distance = min(max(c.Distance+delta, MinDistance), MaxDistance)
}

// Transform returns the model rotation: yaw is applied first, then pitch.
func (c Camera) Transform() math3d.Mat4 {
	return math3d.RotateX(c.Pitch).Mul(math3d.RotateY(c.Yaw))
}

// Projected is a point in screen space. Z is the camera-space depth,
// positive in front of the camera.
type Projected struct {
	X, Y, Z float64
	Visible bool
}

// Screen returns the point as a rasterizer vertex.
func (p Projected) Screen() ScreenVertex {
	return ScreenVertex{X: p.X, Y: p.Y, Z: p.Z}
}

// Project maps points onto a width x height viewport. out is reused when
// it has enough capacity. Points at or behind NearEpsilon are returned
// with Visible unset and zero screen coordinates.
func Project(points []math3d.Vec3, cam Camera, width, height int, out []Projected) []Projected {
	if cap(out) < len(points) {
		out = make([]Projected, len(points))
	}
	out = out[:len(points)]

	rot := cam.Transform()
	f := 1 / math.Tan(cam.FOV*math.Pi/180/2)
	cx, cy := float64(width)/2, float64(height)/2
	s := float64(min(width, height)) / 2

	for i, p := range points {
		v := rot.MulVec3(p)
		zCam := cam.Distance - v.Z
		if !(zCam > NearEpsilon) {
			out[i] = Projected{Z: zCam}
			continue
		}
		xn := v.X * f / zCam
		yn := v.Y * f / zCam
		out[i] = Projected{
			X:       cx + xn*s,
			Y:       cy - yn*s,
			Z:       zCam,
			Visible: true,
		}
	}
	return out
}

// Normalize centers points on the origin and scales them uniformly so the
// larger of the X and Y extents equals span. The input is not modified.
func Normalize(points []math3d.Vec3, span float64) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(points))
	if len(points) == 0 {
		return out
	}

	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}

	center := lo.Add(hi).Scale(0.5)
	ext := hi.Sub(lo)
	scale := span / max(ext.X, ext.Y, normalizeEpsilon)

	m := math3d.ScaleUniform(scale).Mul(math3d.Translate(center.Scale(-1)))
	for i, p := range points {
		out[i] = m.MulVec3(p)
	}
	return out
}
