package render

import "math"

// ScreenVertex is a triangle corner in pixel coordinates with its depth.
type ScreenVertex struct {
	X, Y, Z float64
}

// Rasterizer fills triangles into a framebuffer.
type Rasterizer struct {
	fb *Framebuffer
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// SetFramebuffer changes the draw target, e.g. after a resize.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
}

// DrawTriangle fills the triangle with c, testing each pixel center
// against the depth buffer. Either winding is accepted. Pixels on an edge
// count as inside. Returns the number of pixels written.
func (r *Rasterizer) DrawTriangle(v0, v1, v2 ScreenVertex, c Color) int {
	area := edge(v0, v1, v2.X, v2.Y)
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return 0
	}

	// Bounding box, clamped in float so huge coordinates never reach int.
	w, h := float64(r.fb.Width-1), float64(r.fb.Height-1)
	minXf, maxXf := math.Floor(min3(v0.X, v1.X, v2.X)), math.Ceil(max3(v0.X, v1.X, v2.X))
	minYf, maxYf := math.Floor(min3(v0.Y, v1.Y, v2.Y)), math.Ceil(max3(v0.Y, v1.Y, v2.Y))
	if minXf > w || maxXf < 0 || minYf > h || maxYf < 0 {
		return 0
	}
	minX, maxX := int(math.Max(0, minXf)), int(math.Min(w, maxXf))
	minY, maxY := int(math.Max(0, minYf)), int(math.Min(h, maxYf))

	written := 0
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			w0 := edge(v1, v2, px, py)
			w1 := edge(v2, v0, px, py)
			w2 := edge(v0, v1, px, py)

			if area > 0 {
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}
			} else if w0 > 0 || w1 > 0 || w2 > 0 {
				continue
			}

			z := (w0*v0.Z + w1*v1.Z + w2*v2.Z) / area
			if r.fb.Put(x, y, z, c) {
				written++
			}
		}
	}
	return written
}

// edge is twice the signed area of (a, b, p).
func edge(a, b ScreenVertex, px, py float64) float64 {
	return (px-a.X)*(b.Y-a.Y) - (py-a.Y)*(b.X-a.X)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
